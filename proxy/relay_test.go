package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jessearmand/chatproxy/pkg/llm"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
	"github.com/jessearmand/chatproxy/pkg/logger"
)

// fakeProvider only carries a name and label; relays never build requests.
type fakeProvider struct{}

func (fakeProvider) Name() string  { return "fake" }
func (fakeProvider) Label() string { return "Fake" }

func (fakeProvider) NewRequest(context.Context, string, llm.Prompt) (*http.Request, error) {
	return nil, errors.New("not used")
}

func (fakeProvider) ParseStreamChunk(data []byte) (*llm.StreamChunk, error) {
	return llm.ParseChatCompletionChunk(data)
}

func liveSession(contentType string, body io.ReadCloser) *provider.Session {
	return &provider.Session{
		Provider:    fakeProvider{},
		Status:      http.StatusOK,
		StatusText:  "OK",
		ContentType: contentType,
		Body:        body,
	}
}

var _ = Describe("Relay", func() {
	var (
		relay *Relay
		rec   *recorder
		conn  *Conn
	)

	BeforeEach(func() {
		relay = NewRelay(logger.Nop(), 0)
		rec = &recorder{}
		conn = NewConn(rec, nil)
	})

	It("forwards every event verbatim and in order", func() {
		body := &flakyBody{chunks: []string{chatChunk("A"), chatChunk("B"), "data: [DONE]\n\n"}}

		outcome := relay.Run(context.Background(), liveSession("text/event-stream", body), conn, Stage{Name: "primary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeCompleted))
		Expect(rec.buf.String()).To(Equal(chatChunk("A") + chatChunk("B") + "data: [DONE]\n\n"))
		Expect(rec.closes).To(Equal(1))
		Expect(body.Closed()).To(BeTrue())
	})

	It("reassembles events split across reads", func() {
		whole := chatChunk("split")
		body := &flakyBody{chunks: []string{whole[:7], whole[7:20], whole[20:]}}

		outcome := relay.Run(context.Background(), liveSession("text/event-stream; charset=utf-8", body), conn, Stage{Name: "primary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeCompleted))
		Expect(rec.buf.String()).To(Equal(whole))
	})

	DescribeTable("keeps upstream event-stream bytes unchanged",
		func(chunks []string) {
			want := strings.Join(chunks, "")
			body := &flakyBody{chunks: slices.Clone(chunks)}

			outcome := relay.Run(context.Background(), liveSession("text/event-stream", body), conn, Stage{Name: "primary", Terminal: true})

			Expect(outcome).To(Equal(provider.OutcomeCompleted))
			Expect(rec.buf.String()).To(Equal(want))
		},
		Entry("CRLF framing", []string{"data: {\"a\":1}\r\n\r\n", "data: [DONE]\r\n\r\n"}),
		Entry("trailing keep-alive comment", []string{"data: x\n\n", ": keepalive\n\n"}),
		Entry("trailing retry line", []string{chatChunk("A"), "retry: 3000\n"}),
		Entry("unterminated final event", []string{chatChunk("A"), "data: [DONE]"}),
		Entry("line over a megabyte", []string{"data: " + strings.Repeat("z", 1<<20+10) + "\n\n"}),
	)

	It("leaves the connection open for a non-terminal stage", func() {
		body := &flakyBody{chunks: []string{chatChunk("A")}}

		outcome := relay.Run(context.Background(), liveSession("text/event-stream", body), conn, Stage{Name: "primary"})

		Expect(outcome).To(Equal(provider.OutcomeCompleted))
		Expect(rec.closes).To(BeZero())
		Expect(conn.Closed()).To(BeFalse())
	})

	It("passes non event-stream bodies through read by read", func() {
		ndjson := "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n"
		body := &flakyBody{chunks: []string{ndjson}}
		relay = NewRelay(logger.Nop(), 8)

		outcome := relay.Run(context.Background(), liveSession("application/x-ndjson", body), conn, Stage{Name: "primary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeCompleted))
		Expect(rec.buf.String()).To(Equal(ndjson))
		Expect(rec.writes).To(Equal(3))
	})

	It("writes a diagnostic event when the upstream fails midway", func() {
		body := &flakyBody{chunks: []string{chatChunk("A")}, err: errors.New("boom")}

		outcome := relay.Run(context.Background(), liveSession("text/event-stream", body), conn, Stage{Name: "primary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeStreamError))
		Expect(rec.buf.String()).To(Equal(chatChunk("A") + errorBody("Fake stream error: boom")))
		Expect(rec.closes).To(Equal(1))
	})

	It("stays quiet about upstream failures in a silent stage", func() {
		body := &flakyBody{chunks: []string{chatChunk("A")}, err: errors.New("boom")}

		outcome := relay.Run(context.Background(), liveSession("text/event-stream", body), conn, Stage{Name: "secondary", Terminal: true, Silent: true})

		Expect(outcome).To(Equal(provider.OutcomeStreamError))
		Expect(rec.buf.String()).To(Equal(chatChunk("A")))
	})

	It("abandons the upstream once the client stops accepting writes", func() {
		rec.failFrom = 2
		body := &flakyBody{chunks: []string{chatChunk("A"), chatChunk("B"), chatChunk("C")}}

		outcome := relay.Run(context.Background(), liveSession("text/event-stream", body), conn, Stage{Name: "primary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeStreamError))
		Expect(rec.writes).To(Equal(2))
		Expect(rec.closes).To(Equal(1))
		Expect(rec.writesAfterClose).To(BeZero())
		Expect(body.Closed()).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		body := &flakyBody{chunks: []string{chatChunk("A")}}

		outcome := relay.Run(ctx, liveSession("text/event-stream", body), conn, Stage{Name: "primary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeStreamError))
		Expect(rec.buf.Len()).To(BeZero())
		Expect(body.Closed()).To(BeTrue())
	})

	It("returns the recorded outcome of a session that is not live", func() {
		sess := &provider.Session{Provider: fakeProvider{}, Outcome: provider.OutcomeUnavailable}

		outcome := relay.Run(context.Background(), sess, conn, Stage{Name: "secondary", Terminal: true})

		Expect(outcome).To(Equal(provider.OutcomeUnavailable))
		Expect(rec.writes).To(BeZero())
		Expect(rec.closes).To(Equal(1))
	})

	It("releases the body of a session that is not live", func() {
		body := &flakyBody{chunks: []string{"rate limited"}}
		sess := &provider.Session{Provider: fakeProvider{}, Outcome: provider.OutcomeUpstreamNonOK, Body: body}

		outcome := relay.Run(context.Background(), sess, conn, Stage{Name: "secondary", Terminal: true, Silent: true})

		Expect(outcome).To(Equal(provider.OutcomeUpstreamNonOK))
		Expect(rec.writes).To(BeZero())
		Expect(body.Closed()).To(BeTrue())
	})

	It("records the outcome on the session", func() {
		sess := liveSession("text/event-stream", io.NopCloser(strings.NewReader(chatChunk("A"))))

		relay.Run(context.Background(), sess, conn, Stage{Name: "primary"})

		Expect(sess.Outcome).To(Equal(provider.OutcomeCompleted))
	})
})
