package openai_test

import (
	"context"
	"encoding/json"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jessearmand/chatproxy/pkg/llm"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
	"github.com/jessearmand/chatproxy/pkg/llm/provider/openai"
)

var _ = Describe("OpenAI Provider", func() {
	var p provider.Provider

	prompt := llm.Prompt{Question: "Who are you?", Context: "A Go developer."}

	decodeBody := func(p provider.Provider) map[string]any {
		req, err := p.NewRequest(context.Background(), "sk-test", prompt)
		Expect(err).NotTo(HaveOccurred())

		raw, err := io.ReadAll(req.Body)
		Expect(err).NotTo(HaveOccurred())

		var body map[string]any
		Expect(json.Unmarshal(raw, &body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		p = openai.New()
	})

	Describe("Name", func() {
		It("returns 'openai'", func() {
			Expect(p.Name()).To(Equal("openai"))
			Expect(p.Label()).To(Equal("OpenAI"))
		})
	})

	Describe("NewRequest", func() {
		It("posts to the responses endpoint with a bearer token", func() {
			req, err := p.NewRequest(context.Background(), "sk-test", prompt)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Method).To(Equal("POST"))
			Expect(req.URL.String()).To(Equal("https://api.openai.com/v1/responses"))
			Expect(req.Header.Get("Authorization")).To(Equal("Bearer sk-test"))
		})

		It("streams the grounded prompt with web search", func() {
			body := decodeBody(p)
			Expect(body["model"]).To(Equal("gpt-4.1-mini"))
			Expect(body["stream"]).To(BeTrue())
			Expect(body["input"]).To(Equal(prompt.Grounded()))
			Expect(body["tools"]).To(Equal([]any{
				map[string]any{"type": "web_search_preview", "search_context_size": "medium"},
			}))
		})

		It("adds file search when vector stores are configured", func() {
			p = openai.New(openai.WithVectorStoreIDs("vs_1"), openai.WithSearchContextSize("high"))

			body := decodeBody(p)
			Expect(body["tools"]).To(Equal([]any{
				map[string]any{"type": "web_search_preview", "search_context_size": "high"},
				map[string]any{"type": "file_search", "vector_store_ids": []any{"vs_1"}},
			}))
		})

		It("honours base URL and model overrides", func() {
			p = openai.New(openai.WithBaseURL("http://127.0.0.1:1234/v1/"), openai.WithModel("gpt-4o"))

			req, err := p.NewRequest(context.Background(), "k", prompt)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.URL.String()).To(Equal("http://127.0.0.1:1234/v1/responses"))
			Expect(decodeBody(p)["model"]).To(Equal("gpt-4o"))
		})
	})

	Describe("ParseStreamChunk", func() {
		It("extracts output text deltas", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.output_text.delta","delta":"Hi"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Text).To(Equal("Hi"))
			Expect(chunk.Done).To(BeFalse())
		})

		It("marks completion", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.completed","response":{}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Done).To(BeTrue())
		})

		It("skips other events", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.web_search_call.searching"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk).To(BeNil())
		})

		It("rejects malformed events", func() {
			_, err := p.ParseStreamChunk([]byte(`not json`))
			Expect(err).To(HaveOccurred())
		})
	})
})
