package proxy

import (
	"io"
	"log/slog"

	"github.com/jessearmand/chatproxy/pkg/llm/provider"
	"github.com/jessearmand/chatproxy/pkg/sse"
)

// defaultReadSize bounds a single read from a non event-stream body.
const defaultReadSize = 32 << 10

// ChunkSource yields an upstream body one chunk at a time. Next returns
// io.EOF once the body is exhausted; a returned chunk is only valid until the
// following call.
type ChunkSource interface {
	Next() ([]byte, error)
	Close() error
}

// NewSource picks the chunking for sess once, from its Content-Type:
// text/event-stream bodies are split on event boundaries, anything else
// (NDJSON, plain chunked) is passed through read by read.
func NewSource(sess *provider.Session, readSize int, logger *slog.Logger) ChunkSource {
	if sess.EventStream() {
		return &eventSource{
			body:   sess.Body,
			reader: sse.NewReader(sess.Body),
			prov:   sess.Provider,
			logger: logger,
		}
	}

	if readSize <= 0 {
		readSize = defaultReadSize
	}
	return &readerSource{
		body: sess.Body,
		buf:  make([]byte, readSize),
	}
}

// eventSource forwards one SSE event per call, byte for byte, and decodes
// the event on the side to track the answer for logging.
type eventSource struct {
	body   io.ReadCloser
	reader *sse.Reader
	prov   provider.Provider
	logger *slog.Logger

	events   int
	answered int
	done     bool
}

func (s *eventSource) Next() ([]byte, error) {
	ev, err := s.reader.Next()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, io.EOF
	}

	s.events++
	s.inspect(ev)

	return ev.Raw, nil
}

// inspect decodes the event payload. Failures are ignored: what matters is
// that the raw bytes reach the client.
func (s *eventSource) inspect(ev *sse.Event) {
	if ev.Done() {
		s.done = true
		return
	}
	if ev.Data == "" {
		return
	}

	chunk, err := s.prov.ParseStreamChunk([]byte(ev.Data))
	if err != nil || chunk == nil {
		return
	}

	s.answered += len(chunk.Text)
	if chunk.Done {
		s.done = true
	}
}

func (s *eventSource) Close() error {
	s.logger.Debug("upstream event stream closed",
		"provider", s.prov.Name(),
		"events", s.events,
		"answer_bytes", s.answered,
		"finished", s.done,
	)
	return s.body.Close()
}

// readerSource forwards whatever one bounded Read returns.
type readerSource struct {
	body io.ReadCloser
	buf  []byte
}

func (s *readerSource) Next() ([]byte, error) {
	n, err := s.body.Read(s.buf)
	if n > 0 {
		// A final chunk may arrive together with io.EOF; deliver it first.
		if err == io.EOF {
			err = nil
		}
		return s.buf[:n], err
	}
	if err == nil {
		// Zero-byte read without error; try again on the next call.
		return nil, nil
	}
	return nil, err
}

func (s *readerSource) Close() error {
	return s.body.Close()
}
