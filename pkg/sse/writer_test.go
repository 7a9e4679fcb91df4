package sse

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Data", func() {
	It("frames a payload as one data event", func() {
		b, err := Data(map[string]string{"error": "boom"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("data: {\"error\":\"boom\"}\n\n"))
	})

	It("leaves HTML unescaped", func() {
		b, err := Data(map[string]string{"content": "<br><hr><br>"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("data: {\"content\":\"<br><hr><br>\"}\n\n"))
	})

	It("round trips through the Reader", func() {
		b, err := Data(map[string]int{"n": 1})
		Expect(err).NotTo(HaveOccurred())

		ev, err := NewReader(bytes.NewReader(b)).Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("{\"n\":1}"))
		Expect(ev.Raw).To(Equal(b))
	})
})

var _ = Describe("WriteData", func() {
	It("writes the framed payload in a single call", func() {
		var buf bytes.Buffer
		Expect(WriteData(&buf, []string{"a"})).To(Succeed())
		Expect(buf.String()).To(Equal("data: [\"a\"]\n\n"))
	})

	It("reports encoding failures", func() {
		var buf bytes.Buffer
		Expect(WriteData(&buf, make(chan int))).NotTo(Succeed())
		Expect(buf.Len()).To(BeZero())
	})
})
