package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jessearmand/chatproxy/pkg/llm"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
	"github.com/jessearmand/chatproxy/pkg/sse"
)

// Stage describes how a relayed session sits in the request pipeline.
type Stage struct {
	// Name is used in logs ("primary", "secondary").
	Name string

	// Terminal stages close the connection when they finish.
	Terminal bool

	// Silent stages never write a diagnostic event on failure.
	Silent bool
}

// Relay copies a live session onto a client connection.
type Relay struct {
	logger   *slog.Logger
	readSize int
}

// NewRelay returns a Relay. readSize bounds reads from non event-stream bodies.
func NewRelay(logger *slog.Logger, readSize int) *Relay {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relay{logger: logger, readSize: readSize}
}

// Run forwards every chunk of sess to conn in arrival order and returns how
// the stream ended. The session body is always released. conn is closed only
// for a terminal stage.
func (r *Relay) Run(ctx context.Context, sess *provider.Session, conn *Conn, stage Stage) provider.Outcome {
	logger := r.logger.With("stage", stage.Name, "provider", sess.Provider.Name())

	if stage.Terminal {
		defer conn.Close()
	}

	if !sess.Live() {
		logger.Debug("nothing to relay", "outcome", sess.Outcome)
		_ = sess.Close()
		return sess.Outcome
	}

	src := NewSource(sess, r.readSize, logger)
	defer src.Close()

	sess.Outcome = r.drain(ctx, logger, src, sess.Provider.Label(), conn, stage)
	return sess.Outcome
}

func (r *Relay) drain(ctx context.Context, logger *slog.Logger, src ChunkSource, label string, conn *Conn, stage Stage) provider.Outcome {
	chunks := 0

	for {
		if err := ctx.Err(); err != nil {
			logger.Debug("relay cancelled", "chunks", chunks, "error", err)
			return provider.OutcomeStreamError
		}

		chunk, err := src.Next()
		if len(chunk) > 0 {
			if _, werr := conn.Write(chunk); werr != nil {
				logger.Debug("client write failed, abandoning upstream", "chunks", chunks, "error", werr)
				return provider.OutcomeStreamError
			}
			chunks++
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			logger.Debug("upstream stream completed", "chunks", chunks)
			return provider.OutcomeCompleted
		default:
			logger.Warn("upstream stream failed", "chunks", chunks, "error", err)
			if !stage.Silent {
				r.writeDiagnostic(logger, conn, label, err)
			}
			return provider.OutcomeStreamError
		}
	}
}

func (r *Relay) writeDiagnostic(logger *slog.Logger, conn *Conn, label string, cause error) {
	msg := llm.ErrorResponse{Error: fmt.Sprintf("%s stream error: %s", label, cause)}
	if err := sse.WriteData(conn, msg); err != nil {
		logger.Debug("could not write stream error event", "error", err)
	}
}
