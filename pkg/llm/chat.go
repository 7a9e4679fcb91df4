package llm

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
)

// DoneSentinel is the data payload that ends a chat completions stream.
const DoneSentinel = "[DONE]"

// ParseChatCompletionChunk decodes one chat completions stream event, as sent
// by OpenAI compatible endpoints such as OpenRouter and xAI.
func ParseChatCompletionChunk(data []byte) (*StreamChunk, error) {
	if string(data) == DoneSentinel {
		return &StreamChunk{Done: true}, nil
	}

	var chunk openai.ChatCompletionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, fmt.Errorf("decoding chat completion chunk: %w", err)
	}

	sc := &StreamChunk{}
	for _, choice := range chunk.Choices {
		sc.Text += choice.Delta.Content
		if choice.FinishReason != "" {
			sc.Done = true
		}
	}

	return sc, nil
}
