package llm

// ErrorResponse is the JSON body returned for any request that fails before
// the event stream is opened.
type ErrorResponse struct {
	Error string `json:"error"`
}
