package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jessearmand/chatproxy/pkg/credentials"
)

var _ = Describe("Manager", func() {
	var (
		dir string
		mgr *credentials.Manager
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		var err error
		mgr, err = credentials.NewManager(dir)
		Expect(err).NotTo(HaveOccurred())
	})

	writeFile := func(body string) {
		Expect(os.WriteFile(mgr.Path(), []byte(body), 0o600)).To(Succeed())
	}

	It("keeps credentials.toml inside the settings directory", func() {
		Expect(mgr.Path()).To(Equal(filepath.Join(dir, "credentials.toml")))
	})

	Describe("Load", func() {
		It("returns empty credentials before anything is stored", func() {
			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).To(BeEmpty())
			Expect(creds.Has(credentials.OpenAI)).To(BeFalse())
		})

		It("reads keys written by hand", func() {
			writeFile("version = 0\n\n[providers.openrouter]\napi_key = \" or-key \"\n")

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Key(credentials.OpenRouter)).To(Equal("or-key"))
		})

		It("rejects malformed TOML", func() {
			writeFile("providers = [[[")

			creds, err := mgr.Load()
			Expect(err).To(MatchError(ContainSubstring("parsing")))
			Expect(creds).To(BeNil())
		})

		It("rejects a newer file layout", func() {
			writeFile("version = 7\n")

			_, err := mgr.Load()
			Expect(err).To(MatchError(ContainSubstring("unsupported credentials version 7")))
		})

		It("tolerates a file without a providers table", func() {
			writeFile("version = 0\n")

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).NotTo(BeNil())
		})
	})

	Describe("Save", func() {
		It("writes the file owner-readable only", func() {
			Expect(mgr.SetKey(credentials.OpenAI, "sk-test")).To(Succeed())

			info, err := os.Stat(mgr.Path())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("leaves no temp files behind", func() {
			Expect(mgr.SetKey(credentials.OpenAI, "sk-test")).To(Succeed())

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("credentials.toml"))
		})

		It("refuses nil credentials", func() {
			Expect(mgr.Save(nil)).NotTo(Succeed())
		})
	})

	Describe("SetKey", func() {
		It("replaces a previous key and keeps the others", func() {
			Expect(mgr.SetKey(credentials.OpenAI, "sk-old")).To(Succeed())
			Expect(mgr.SetKey(credentials.XAI, "xai-key")).To(Succeed())
			Expect(mgr.SetKey(credentials.OpenAI, "sk-new")).To(Succeed())

			Expect(mgr.GetKey(credentials.OpenAI)).To(Equal("sk-new"))
			Expect(mgr.GetKey(credentials.XAI)).To(Equal("xai-key"))
		})

		It("normalises the provider name and trims the key", func() {
			Expect(mgr.SetKey("  OpenRouter ", "\tor-key\n")).To(Succeed())

			Expect(mgr.ListProviders()).To(Equal([]string{credentials.OpenRouter}))
			Expect(mgr.GetKey("OPENROUTER")).To(Equal("or-key"))
		})

		DescribeTable("rejects bad input without touching disk",
			func(provider, key, message string) {
				Expect(mgr.SetKey(provider, key)).To(MatchError(ContainSubstring(message)))
				Expect(mgr.Path()).NotTo(BeAnExistingFile())
			},
			Entry("unknown provider", "anthropic", "sk-1", "unsupported provider"),
			Entry("blank key", credentials.XAI, "   ", "API key cannot be empty"),
		)

		It("wraps ErrUnsupportedProvider", func() {
			Expect(mgr.SetKey("gemini", "k")).To(MatchError(credentials.ErrUnsupportedProvider))
		})
	})

	Describe("RemoveKey", func() {
		It("forgets a stored key", func() {
			Expect(mgr.SetKey(credentials.OpenAI, "sk-test")).To(Succeed())
			Expect(mgr.SetKey(credentials.XAI, "xai-key")).To(Succeed())

			Expect(mgr.RemoveKey(credentials.OpenAI)).To(Succeed())

			Expect(mgr.GetKey(credentials.OpenAI)).To(BeEmpty())
			Expect(mgr.ListProviders()).To(Equal([]string{credentials.XAI}))
		})

		It("is a no-op for a provider never stored", func() {
			Expect(mgr.RemoveKey("nonexistent")).To(Succeed())
		})
	})

	Describe("ListProviders", func() {
		It("sorts provider names", func() {
			Expect(mgr.SetKey(credentials.XAI, "k1")).To(Succeed())
			Expect(mgr.SetKey(credentials.OpenAI, "k2")).To(Succeed())
			Expect(mgr.SetKey(credentials.OpenRouter, "k3")).To(Succeed())

			Expect(mgr.ListProviders()).To(Equal([]string{"openai", "openrouter", "xai"}))
		})
	})
})

var _ = Describe("Providers", func() {
	DescribeTable("EnvVarForProvider",
		func(provider, env string) {
			Expect(credentials.EnvVarForProvider(provider)).To(Equal(env))
		},
		Entry(nil, credentials.OpenAI, "OPENAI_API_KEY"),
		Entry(nil, credentials.OpenRouter, "OPENROUTER_API_KEY"),
		Entry(nil, credentials.XAI, "XAI_API_KEY"),
		Entry(nil, "anthropic", ""),
	)

	It("supports exactly the upstreams the proxy calls", func() {
		Expect(credentials.SupportedProviders()).To(ConsistOf("openai", "openrouter", "xai"))
		for _, p := range credentials.SupportedProviders() {
			Expect(credentials.IsSupportedProvider(p)).To(BeTrue())
		}
		Expect(credentials.IsSupportedProvider("OpenAI")).To(BeFalse())
	})

	It("folds provider names", func() {
		Expect(credentials.NormalizeProvider("  XAI ")).To(Equal("xai"))
	})
})
