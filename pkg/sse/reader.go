package sse

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const readBufferSize = 64 * 1024

// Reader reads SSE events from a source io.Reader. Each Event carries both
// its parsed fields and the exact bytes it was built from: line endings,
// comments and blank lines are kept as they arrived, and lines have no
// length limit.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │   Reader.Next()  │──▶│ Event{Data, ..., Raw}  │
// └──────────────────┘   └───────────────────────┘
type Reader struct {
	src *bufio.Reader

	// current accumulates fields for the event being built.
	current *Event
	raw     bytes.Buffer
	hasData bool
	eof     bool
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:     bufio.NewReaderSize(src, readBufferSize),
		current: &Event{},
	}
}

// Next returns the next parsed SSE event. It blocks until a complete event
// is available (terminated by a blank line in the stream) and returns
// nil, nil when the source is exhausted.
//
// Comment and blank lines are not events on their own; their bytes are
// carried in the Raw field of the following event. Bytes left over when the
// source ends, such as a trailing keep-alive comment, come back as a last
// Event with only Raw set.
func (r *Reader) Next() (*Event, error) {
	for !r.eof {
		line, err := r.src.ReadBytes('\n')
		r.raw.Write(line)

		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			return nil, err
		}

		if len(line) == 0 {
			continue
		}

		text := strings.TrimSuffix(strings.TrimSuffix(string(line), "\n"), "\r")
		switch {
		case text == "":
			if r.hasData {
				return r.emit(), nil
			}
		case strings.HasPrefix(text, ":"):
			// comments only travel in Raw
		default:
			r.parseLine(text)
		}
	}

	if r.raw.Len() > 0 {
		return r.emit(), nil
	}

	return nil, nil
}

// parseLine processes a single non-empty, non-comment SSE line and
// accumulates the field into the current event. A line has the form
// "field:value" where one space after the colon is optional.
func (r *Reader) parseLine(line string) {
	field, value, ok := strings.Cut(line, ":")
	if ok {
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		if r.hasData && r.current.Data != "" {
			r.current.Data += "\n"
		}
		r.current.Data += value
		r.hasData = true
	case "event":
		r.current.Type = value
		r.hasData = true
	case "id":
		r.current.ID = value
		r.hasData = true
	default:
		// retry and unknown fields are ignored.
	}
}

func (r *Reader) emit() *Event {
	ev := r.current
	ev.Raw = bytes.Clone(r.raw.Bytes())

	r.current = &Event{}
	r.raw.Reset()
	r.hasData = false

	return ev
}
