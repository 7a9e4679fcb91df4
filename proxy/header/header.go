// Package header handles headers on both legs of the chat proxy:
//
//	Client <--> Proxy <--> Upstream LLM Provider
//
// The client leg gets a fresh event-stream header set. The only inbound
// header that reaches the upstream leg is the referer, used for attribution.
package header

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// eventStream is the header set written once when a response switches to
// Server-Sent Events.
var eventStream = []struct{ key, value string }{
	{fiber.HeaderContentType, "text/event-stream"},
	{fiber.HeaderCacheControl, "no-cache"},
	{fiber.HeaderConnection, "keep-alive"},
}

// Handler manages headers between proxy connections.
type Handler struct{}

// NewHandler creates a new header Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// SetEventStreamHeaders switches the response to an event stream.
func (h *Handler) SetEventStreamHeaders(c *fiber.Ctx) {
	c.Status(fiber.StatusOK)
	for _, hv := range eventStream {
		c.Set(hv.key, hv.value)
	}
}

// SetMethodNotAllowed advertises the only accepted method.
func (h *Handler) SetMethodNotAllowed(c *fiber.Ctx, allowed ...string) {
	c.Set(fiber.HeaderAllow, strings.Join(allowed, ", "))
}

// Referer returns the inbound page URL, used for upstream attribution.
// Only absolute http(s) URLs are passed on.
func (h *Handler) Referer(c *fiber.Ctx) string {
	ref := strings.TrimSpace(c.Get(fiber.HeaderReferer))
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref
	}
	return ""
}
