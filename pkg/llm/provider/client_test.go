package provider_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jessearmand/chatproxy/pkg/config"
	"github.com/jessearmand/chatproxy/pkg/llm"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
)

type staticKeys map[string]string

func (k staticKeys) Key(name string) (string, bool) {
	v, ok := k[name]
	return v, ok
}

var _ = Describe("Client", func() {
	var (
		upstream *httptest.Server
		handler  http.HandlerFunc
		hits     atomic.Int32
		cfg      *config.Config
	)

	prompt := llm.Prompt{Question: "q", Context: "c"}

	BeforeEach(func() {
		hits.Store(0)
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = io.WriteString(w, "data: hello\n\n")
		}
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			handler(w, r)
		}))

		cfg = config.NewDefaultConfig()
		cfg.OpenRouter.BaseURL = upstream.URL
	})

	AfterEach(func() {
		upstream.Close()
	})

	newProvider := func() provider.Provider {
		p, err := provider.New(provider.OpenRouter, cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	It("reports unavailable without calling upstream when no key is configured", func() {
		client := provider.NewClient(staticKeys{})

		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.Outcome).To(Equal(provider.OutcomeUnavailable))
		Expect(sess.Live()).To(BeFalse())
		Expect(sess.Message()).To(Equal("OpenRouter API key not configured."))
		Expect(hits.Load()).To(BeZero())
	})

	It("returns a live session for a 200 stream", func() {
		client := provider.NewClient(staticKeys{"openrouter": "or-key"})

		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).NotTo(HaveOccurred())
		defer sess.Close()

		Expect(sess.Live()).To(BeTrue())
		Expect(sess.Status).To(Equal(http.StatusOK))
		Expect(sess.EventStream()).To(BeTrue())
		Expect(sess.Message()).To(BeEmpty())

		body, err := io.ReadAll(sess.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal("data: hello\n\n"))
		Expect(hits.Load()).To(Equal(int32(1)))
	})

	It("sends the resolved key upstream", func() {
		auth := make(chan string, 1)
		handler = func(w http.ResponseWriter, r *http.Request) {
			auth <- r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "{}\n")
		}

		client := provider.NewClient(staticKeys{"openrouter": "or-key"})
		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).NotTo(HaveOccurred())
		defer sess.Close()

		Expect(<-auth).To(Equal("Bearer or-key"))
		Expect(sess.EventStream()).To(BeFalse())
	})

	It("reports non-OK answers with status text and detail", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":"rate limited"}`+"\n")
		}

		client := provider.NewClient(staticKeys{"openrouter": "or-key"})
		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).NotTo(HaveOccurred())

		Expect(sess.Outcome).To(Equal(provider.OutcomeUpstreamNonOK))
		Expect(sess.Live()).To(BeFalse())
		Expect(sess.Status).To(Equal(http.StatusTooManyRequests))
		Expect(sess.Message()).To(Equal(`OpenRouter API error: Too Many Requests - {"error":"rate limited"}`))
	})

	It("bounds the error detail", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, strings.Repeat("x", 64<<10))
		}

		client := provider.NewClient(staticKeys{"openrouter": "or-key"})
		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(sess.Detail)).To(Equal(4 << 10))
	})

	It("treats an empty 200 as non-OK", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusOK)
		}

		client := provider.NewClient(staticKeys{"openrouter": "or-key"})
		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.Outcome).To(Equal(provider.OutcomeUpstreamNonOK))
	})

	It("returns transport failures as errors", func() {
		cfg.OpenRouter.BaseURL = "http://127.0.0.1:1"

		client := provider.NewClient(staticKeys{"openrouter": "or-key"})
		sess, err := client.Open(context.Background(), newProvider(), prompt)
		Expect(err).To(HaveOccurred())
		Expect(sess).To(BeNil())
	})
})

var _ = Describe("New", func() {
	It("builds every supported provider", func() {
		for _, name := range provider.SupportedProviders() {
			p, err := provider.New(name, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(name))
		}
	})

	It("rejects unknown providers", func() {
		_, err := provider.New("anthropic", nil, nil)
		Expect(err).To(MatchError(ContainSubstring("unknown provider type")))
	})
})

var _ = Describe("Client.Available", func() {
	It("follows the key resolver", func() {
		p, err := provider.New(provider.XAI, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(provider.NewClient(staticKeys{}).Available(p)).To(BeFalse())
		Expect(provider.NewClient(staticKeys{"xai": "k"}).Available(p)).To(BeTrue())
	})
})
