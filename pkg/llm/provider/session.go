package provider

import (
	"fmt"
	"io"
	"mime"
	"strings"
)

// Outcome is how one upstream call ended.
type Outcome string

const (
	// OutcomeCompleted means the stream was relayed to its end.
	OutcomeCompleted Outcome = "completed"

	// OutcomeUpstreamNonOK means the provider answered with a non-200 status
	// or without a body.
	OutcomeUpstreamNonOK Outcome = "upstream-non-ok"

	// OutcomeStreamError means reading or relaying the stream failed midway.
	OutcomeStreamError Outcome = "stream-error"

	// OutcomeUnavailable means no credential was configured; no call was made.
	OutcomeUnavailable Outcome = "unavailable"
)

// Session is one upstream call. A live session has an empty Outcome and an
// open Body owned by whoever drains it.
type Session struct {
	Provider Provider

	Status     int
	StatusText string

	// Detail is a bounded excerpt of a non-OK response body.
	Detail string

	ContentType string
	Body        io.ReadCloser

	Outcome Outcome
}

// Live reports whether the session has a stream to relay.
func (s *Session) Live() bool {
	return s.Outcome == "" && s.Body != nil
}

// EventStream reports whether the upstream answered with text/event-stream.
func (s *Session) EventStream() bool {
	mt, _, err := mime.ParseMediaType(s.ContentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(s.ContentType), "text/event-stream")
	}
	return mt == "text/event-stream"
}

// Message is the client facing description of a session that cannot be
// relayed. It is empty for live or completed sessions.
func (s *Session) Message() string {
	switch s.Outcome {
	case OutcomeUnavailable:
		return fmt.Sprintf("%s API key not configured.", s.Provider.Label())
	case OutcomeUpstreamNonOK:
		return fmt.Sprintf("%s API error: %s - %s", s.Provider.Label(), s.StatusText, s.Detail)
	default:
		return ""
	}
}

// Close releases the body of a session that will not be relayed.
func (s *Session) Close() error {
	if s.Body == nil {
		return nil
	}
	return s.Body.Close()
}
