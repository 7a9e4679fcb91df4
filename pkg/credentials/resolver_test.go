package credentials_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jessearmand/chatproxy/pkg/credentials"
)

var _ = Describe("Resolver", func() {
	var env map[string]string

	getenv := func(k string) string { return env[k] }

	stored := &credentials.Credentials{
		Providers: map[string]credentials.ProviderCredential{
			"openai": {APIKey: "sk-stored"},
			"xai":    {APIKey: "   "},
		},
	}

	BeforeEach(func() {
		env = map[string]string{}
	})

	It("falls back to the stored key", func() {
		r := credentials.NewResolver(stored, credentials.WithGetenv(getenv))

		key, ok := r.Key("openai")
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("sk-stored"))
	})

	It("prefers the environment", func() {
		env["OPENAI_API_KEY"] = "sk-env"
		r := credentials.NewResolver(stored, credentials.WithGetenv(getenv))

		key, ok := r.Key("openai")
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("sk-env"))
	})

	It("reads the environment at lookup time", func() {
		r := credentials.NewResolver(nil, credentials.WithGetenv(getenv))

		_, ok := r.Key("openrouter")
		Expect(ok).To(BeFalse())

		env["OPENROUTER_API_KEY"] = "or-late"
		key, ok := r.Key("openrouter")
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("or-late"))
	})

	It("treats blank keys as absent", func() {
		env["XAI_API_KEY"] = "  "
		r := credentials.NewResolver(stored, credentials.WithGetenv(getenv))

		_, ok := r.Key("xai")
		Expect(ok).To(BeFalse())
	})

	It("reports unknown providers as absent", func() {
		r := credentials.NewResolver(nil, credentials.WithGetenv(getenv))

		_, ok := r.Key("anthropic")
		Expect(ok).To(BeFalse())
	})
})
