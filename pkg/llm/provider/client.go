package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jessearmand/chatproxy/pkg/llm"
)

// maxErrorDetail bounds how much of a non-OK response body is kept.
const maxErrorDetail = 4 << 10

// KeyResolver looks up the API key for a provider name.
type KeyResolver interface {
	Key(provider string) (string, bool)
}

// Client opens upstream sessions.
type Client struct {
	keys       KeyResolver
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the client used for upstream calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a Client resolving credentials through keys. Upstream
// calls carry no overall timeout since streamed answers can run long; the
// caller's context bounds them.
func NewClient(keys KeyResolver, opts ...ClientOption) *Client {
	c := &Client{
		keys:       keys,
		httpClient: &http.Client{},
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Available reports whether a credential is configured for p.
func (c *Client) Available(p Provider) bool {
	_, ok := c.keys.Key(p.Name())
	return ok
}

// Open resolves p's credential and sends the request. Expected failures, a
// missing key or a non-OK answer, come back as a Session with an Outcome set;
// only transport failures are returned as errors.
func (c *Client) Open(ctx context.Context, p Provider, prompt llm.Prompt) (*Session, error) {
	sess := &Session{Provider: p}

	key, ok := c.keys.Key(p.Name())
	if !ok {
		c.logger.Debug("no credential configured", "provider", p.Name())
		sess.Outcome = OutcomeUnavailable
		return sess, nil
	}

	req, err := p.NewRequest(ctx, key, prompt)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", p.Name(), err)
	}

	c.logger.Debug("opening upstream stream",
		"provider", p.Name(),
		"url", req.URL.String(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.Name(), err)
	}

	sess.Status = resp.StatusCode
	sess.StatusText = statusText(resp)
	sess.ContentType = resp.Header.Get("Content-Type")

	if resp.StatusCode != http.StatusOK || resp.Body == nil || resp.Body == http.NoBody {
		sess.Outcome = OutcomeUpstreamNonOK
		if resp.Body != nil {
			sess.Detail = readDetail(resp.Body)
			resp.Body.Close()
		}

		c.logger.Debug("upstream answered non-ok",
			"provider", p.Name(),
			"status", resp.StatusCode,
			"detail", sess.Detail,
		)
		return sess, nil
	}

	sess.Body = resp.Body
	return sess, nil
}

func statusText(resp *http.Response) string {
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	// resp.Status is "418 I'm a teapot"; keep the reason phrase.
	if _, reason, ok := strings.Cut(resp.Status, " "); ok {
		return reason
	}
	return resp.Status
}

func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorDetail))
	if err != nil && len(b) == 0 {
		return ""
	}
	return strings.TrimSpace(string(b))
}
