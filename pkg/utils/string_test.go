package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("Truncate",
	func(in string, limit int, want string) {
		Expect(Truncate(in, limit)).To(Equal(want))
	},
	Entry("under the limit", "short", 10, "short"),
	Entry("at the limit", "12345", 5, "12345"),
	Entry("over the limit", "what is your stack?", 7, "what is..."),
	Entry("mid rune", "résumé", 2, "r..."),
	Entry("zero limit", "hello", 0, "..."),
)
