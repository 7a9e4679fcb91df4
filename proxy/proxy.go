// Package proxy serves the chat endpoint: it grounds a visitor's question in
// the résumé, streams the answer of one or more upstream providers and
// relays it to the browser as Server-Sent Events.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jessearmand/chatproxy/pkg/config"
	"github.com/jessearmand/chatproxy/pkg/llm"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
	"github.com/jessearmand/chatproxy/pkg/llm/provider/openrouter"
	"github.com/jessearmand/chatproxy/pkg/resume"
	"github.com/jessearmand/chatproxy/pkg/sse"
	"github.com/jessearmand/chatproxy/pkg/utils"
	"github.com/jessearmand/chatproxy/proxy/header"
)

// ErrMissingQuestion is reported when the request carries no usable question.
var ErrMissingQuestion = errors.New("no question provided")

const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgNoQuestion       = "No question provided."

	maxLoggedQuestion = 120
)

// chatRequest is the inbound request body.
type chatRequest struct {
	Question string `json:"question"`
}

// separatorEvent mimics a chat completion delta so clients render the
// separator like any other answer text.
type separatorEvent struct {
	Choices []separatorChoice `json:"choices"`
}

type separatorChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

func newSeparatorEvent(content string) separatorEvent {
	choice := separatorChoice{}
	choice.Delta.Content = content
	return separatorEvent{Choices: []separatorChoice{choice}}
}

// Proxy is the chat endpoint server.
type Proxy struct {
	config        Config
	logger        *slog.Logger
	server        *fiber.App
	client        *provider.Client
	loader        *resume.Loader
	relay         *Relay
	plan          Plan
	headerHandler *header.Handler
}

// New creates a new Proxy. The strategy is resolved here, once; an unknown
// name logs a warning and falls back to DefaultStrategy.
func New(cfg Config, logger *slog.Logger) (*Proxy, error) {
	if cfg.Keys == nil {
		return nil, errors.New("key resolver is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Providers == nil {
		cfg.Providers = config.NewDefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = config.DefaultPath
	}
	if cfg.Separator == "" {
		cfg.Separator = config.DefaultSeparator
	}

	selector, err := NewSelector(cfg.Providers, cfg.VectorStoreIDs, logger)
	if err != nil {
		return nil, fmt.Errorf("could not build strategies: %w", err)
	}
	plan := selector.Select(cfg.Strategy)

	clientOpts := []provider.ClientOption{provider.WithLogger(logger)}
	if cfg.HTTPClient != nil {
		clientOpts = append(clientOpts, provider.WithHTTPClient(cfg.HTTPClient))
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	p := &Proxy{
		config:        cfg,
		logger:        logger,
		server:        app,
		client:        provider.NewClient(cfg.Keys, clientOpts...),
		loader:        resume.NewLoader(cfg.Documents, resume.WithLogger(logger)),
		relay:         NewRelay(logger, cfg.ReadSize),
		plan:          plan,
		headerHandler: header.NewHandler(),
	}

	app.Get("/ping", p.handlePing)
	app.All(cfg.Path, p.handleChat)

	return p, nil
}

// Plan returns the resolved provider plan.
func (p *Proxy) Plan() Plan {
	return p.plan
}

// Run binds the configured listening address and serves on it.
func (p *Proxy) Run() error {
	ln, err := net.Listen("tcp", p.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", p.config.ListenAddr, err)
	}
	return p.RunWithListener(ln)
}

// RunWithListener serves on an already bound listener.
func (p *Proxy) RunWithListener(listener net.Listener) error {
	p.logger.Info("starting chat proxy",
		"listen", listener.Addr().String(),
		"path", p.config.Path,
		"strategy", p.plan.Strategy,
	)

	return p.server.Listener(listener)
}

// Close gracefully shuts down the server.
func (p *Proxy) Close() error {
	return p.server.Shutdown()
}

func (p *Proxy) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleChat validates the question, opens the primary upstream stream and
// hands the rest of the request to runStages on its own goroutine. Anything
// that fails before the primary stream is live is answered with a JSON error.
func (p *Proxy) handleChat(c *fiber.Ctx) error {
	logger := p.logger.With("request_id", requestID(c))

	if c.Method() != fiber.MethodPost {
		p.headerHandler.SetMethodNotAllowed(c, fiber.MethodPost)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(llm.ErrorResponse{Error: msgMethodNotAllowed})
	}

	question, err := parseQuestion(c.Body())
	if err != nil {
		logger.Debug("rejecting request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: msgNoQuestion})
	}

	prompt := llm.Prompt{
		Question: question,
		Context:  p.loader.Load(c.UserContext()),
	}

	// Upstream work outlives this handler: fasthttp recycles its RequestCtx
	// once the handler returns, while the stream is still being written.
	ctx, cancel := context.WithCancel(context.Background())
	ctx = openrouter.WithReferer(ctx, p.headerHandler.Referer(c))

	primary := p.plan.Steps[0]
	logger.Debug("dispatching primary",
		"strategy", p.plan.Strategy,
		"provider", primary.Provider.Name(),
		"question", utils.Truncate(question, maxLoggedQuestion),
		"context_bytes", len(prompt.Context),
	)

	sess, err := p.client.Open(ctx, primary.Provider, prompt)
	if err != nil {
		cancel()
		logger.Error("primary request failed", "provider", primary.Provider.Name(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}
	if !sess.Live() {
		cancel()
		logger.Warn("primary unavailable",
			"provider", primary.Provider.Name(),
			"outcome", sess.Outcome,
			"status", sess.Status,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: sess.Message()})
	}

	// io.Pipe rather than SetBodyStreamWriter: pw.Write blocks until
	// fasthttp's chunked writer has taken the bytes, so each chunk is
	// flushed to the socket as it arrives instead of piling up in buffers.
	// When the client goes away fasthttp closes the stream, which cancels
	// ctx and fails the next write.
	pr, pw := io.Pipe()
	conn := NewConn(pw, func() { p.headerHandler.SetEventStreamHeaders(c) })
	conn.Open()

	c.Context().Response.SetBodyStream(clientStream{PipeReader: pr, cancel: cancel}, -1)

	go p.runStages(ctx, cancel, logger, sess, prompt, conn)

	return nil
}

// runStages relays the primary session, then the optional secondary one,
// and closes conn exactly once whichever way the request ends.
func (p *Proxy) runStages(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, primary *provider.Session, prompt llm.Prompt, conn *Conn) {
	defer cancel()
	defer func() {
		_ = conn.Close()
		logger.Debug("stream finished", "conn", conn.state.String(), "bytes", conn.Written())
	}()

	steps := p.plan.Steps
	outcome := p.relay.Run(ctx, primary, conn, Stage{
		Name:     "primary",
		Terminal: len(steps) == 1,
		Silent:   steps[0].Optional,
	})
	logger.Debug("primary finished", "outcome", outcome, "bytes", conn.Written())

	if len(steps) < 2 || outcome != provider.OutcomeCompleted {
		return
	}

	next := steps[1]
	logger = logger.With("provider", next.Provider.Name())

	if !p.client.Available(next.Provider) {
		logger.Debug("secondary skipped, no credential")
		return
	}

	sep, err := sse.Data(newSeparatorEvent(p.config.Separator))
	if err != nil {
		logger.Debug("encoding separator failed", "error", err)
		return
	}
	if _, err := conn.Write(sep); err != nil {
		logger.Debug("client gone before secondary", "error", err)
		return
	}

	sess, err := p.client.Open(ctx, next.Provider, prompt)
	if err != nil {
		logger.Debug("secondary request failed", "error", err)
		return
	}
	if !sess.Live() {
		logger.Debug("secondary unavailable", "outcome", sess.Outcome, "status", sess.Status)
		return
	}

	outcome = p.relay.Run(ctx, sess, conn, Stage{
		Name:     "secondary",
		Terminal: true,
		Silent:   next.Optional,
	})
	logger.Debug("secondary finished", "outcome", outcome, "bytes", conn.Written())
}

// parseQuestion extracts a non-blank question from a JSON body.
func parseQuestion(body []byte) (string, error) {
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingQuestion, err)
	}

	q := strings.TrimSpace(req.Question)
	if q == "" {
		return "", ErrMissingQuestion
	}
	return q, nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}
