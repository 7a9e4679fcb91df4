package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Data encodes payload as JSON and frames it as a single "data:" event.
// HTML characters are left unescaped so markup such as "<br>" reaches the
// browser as written.
func Data(payload any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("data: ")

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encoding sse payload: %w", err)
	}

	// Encode terminates with a single newline; an event needs a blank line.
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// WriteData frames payload with Data and writes it to w in one call.
func WriteData(w io.Writer, payload any) error {
	b, err := Data(payload)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
