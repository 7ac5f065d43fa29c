package timing_test

import (
	"smartmethods/domain/timing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Format", func() {
	It("should pad every field to two digits", func() {
		Expect(timing.Format(0)).To(Equal("00:00.00"))
		Expect(timing.Format(5425)).To(Equal("00:05.42"))
		Expect(timing.Format(90500)).To(Equal("01:30.50"))
		Expect(timing.Format(59999)).To(Equal("00:59.99"))
	})

	It("should widen minutes beyond 99", func() {
		Expect(timing.Format(100 * 60000)).To(Equal("100:00.00"))
		Expect(timing.Format(5400000)).To(Equal("90:00.00"))
	})

	It("should truncate sub-centisecond remainders", func() {
		Expect(timing.Format(1009)).To(Equal("00:01.00"))
		Expect(timing.Format(1019)).To(Equal("00:01.01"))
	})

	It("should split fields that re-parse to the truncated value", func() {
		for _, ms := range []int64{0, 10, 990, 5420, 59990, 60000, 90500, 5400000, 6000010, 123456780} {
			m, s, c := timing.Fields(ms)
			parsed, err := timing.ParseStrict(m, s, c)
			Expect(err).To(BeNil())
			Expect(parsed).To(Equal(ms))
		}
		m, s, c := timing.Fields(6012340)
		Expect([]string{m, s, c}).To(Equal([]string{"100", "12", "34"}))
	})

	It("should render seconds with two decimals", func() {
		Expect(timing.FormatSeconds(89.9)).To(Equal("89.90"))
		Expect(timing.FormatSeconds(103.386)).To(Equal("103.39"))
		Expect(timing.FormatSeconds(0)).To(Equal("0.00"))
	})
})
