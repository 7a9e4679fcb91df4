package openai

// responsesRequest is the Responses API request body.
type responsesRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
	Input  string `json:"input"`
	Tools  []tool `json:"tools,omitempty"`
}

// tool is one hosted tool entry. Only the fields of the tool's type are set.
type tool struct {
	Type string `json:"type"`

	// web_search_preview
	SearchContextSize string `json:"search_context_size,omitempty"`

	// file_search
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// streamEvent is the subset of a Responses API stream event we decode.
type streamEvent struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

const (
	toolWebSearch  = "web_search_preview"
	toolFileSearch = "file_search"

	eventTextDelta = "response.output_text.delta"
	eventCompleted = "response.completed"
)
