package llm

// StreamChunk is the text carried by one upstream stream event. The proxy
// forwards raw bytes; chunks are only decoded to track how much answer text
// went through.
type StreamChunk struct {
	// Text is the incremental answer text in this chunk, if any.
	Text string `json:"text,omitempty"`

	// Done marks the provider's end-of-answer event.
	Done bool `json:"done,omitempty"`
}
