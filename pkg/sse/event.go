// Package sse reads and writes the Server-Sent Events framing used by the
// upstream chat providers and by the chat endpoint itself.
//
// The Reader parses events from an upstream body while keeping the exact
// bytes of each event, so the proxy can forward provider output verbatim
// and still inspect it.
//
// Event stream format reference:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n".
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string

	// Raw holds the bytes the event was read from, unchanged, including any
	// comment or blank lines that preceded it and the terminating blank line.
	Raw []byte
}

// Done reports whether the event is the "[DONE]" sentinel chat completion
// streams end with.
func (e *Event) Done() bool {
	return e.Data == "[DONE]"
}
