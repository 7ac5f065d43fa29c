package timing_test

import (
	"errors"
	"smartmethods/domain"
	"smartmethods/domain/timing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseStrict", func() {
	It("should compose minutes, seconds and centiseconds", func() {
		ms, err := timing.ParseStrict("1", "30", "50")
		Expect(err).To(BeNil())
		Expect(ms).To(Equal(int64(90500)))
	})

	It("should treat empty fields as zero", func() {
		ms, err := timing.ParseStrict("", "", "")
		Expect(err).To(BeNil())
		Expect(ms).To(BeZero())

		ms, err = timing.ParseStrict("", "7", "")
		Expect(err).To(BeNil())
		Expect(ms).To(Equal(int64(7000)))
	})

	It("should reject fields which are not unsigned integers", func() {
		for _, f := range [][]string{{"a", "", ""}, {"", "-1", ""}, {"", "", "1.5"}, {"+1", "", ""}, {"", ".", ""}} {
			_, err := timing.ParseStrict(f[0], f[1], f[2])
			Expect(errors.Is(err, domain.ErrInvalidFormat)).To(BeTrue(), "%v", f)
		}
	})

	It("should reject fields out of range", func() {
		_, err := timing.ParseStrict("0", "60", "0")
		Expect(errors.Is(err, domain.ErrOutOfRange)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("seconds"))

		_, err = timing.ParseStrict("0", "0", "100")
		Expect(errors.Is(err, domain.ErrOutOfRange)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("centiseconds"))

		_, err = timing.ParseStrict("99999999999999999999", "0", "0")
		Expect(errors.Is(err, domain.ErrOutOfRange)).To(BeTrue())
	})
})

var _ = Describe("ParseFlexible", func() {
	It("should accept the four shapes", func() {
		cases := map[string]int64{
			"01:30.50": 90500,
			"90:00":    5400000,
			"45.50":    45500,
			"52":       52000,
			"1:05":     65000,
			" 07.09 ":  7090,
		}
		for line, expected := range cases {
			ms, ok := timing.ParseFlexible(line)
			Expect(ok).To(BeTrue(), line)
			Expect(ms).To(Equal(expected), line)
		}
	})

	It("should reject anything else", func() {
		for _, line := range []string{"abc", ".", "-5", "1:2:3", "45.5", "45.500", "1:60", "75", "00:10.", ":10", ""} {
			_, ok := timing.ParseFlexible(line)
			Expect(ok).To(BeFalse(), line)
		}
	})

	It("should reject more than two seconds digits", func() {
		for _, line := range []string{"1:005", "005", "000", "01:059.10", "0045.50"} {
			_, err := timing.ParseLine(line)
			Expect(errors.Is(err, domain.ErrInvalidFormat)).To(BeTrue(), line)
		}
		ms, err := timing.ParseLine("1:5")
		Expect(err).To(BeNil())
		Expect(ms).To(Equal(int64(65000)))
	})

	It("should keep the reason in ParseLine", func() {
		_, err := timing.ParseLine("abc")
		Expect(errors.Is(err, domain.ErrInvalidFormat)).To(BeTrue())
		_, err = timing.ParseLine("00:61")
		Expect(errors.Is(err, domain.ErrOutOfRange)).To(BeTrue())
	})
})

var _ = Describe("ParseBulk", func() {
	It("should partition accepted and rejected lines", func() {
		r := timing.ParseBulk("45.50\n52\n01:10.20\nnotatime")
		Expect(r.Accepted).To(Equal([]int64{45500, 52000, 70200}))
		Expect(r.RejectedCount).To(Equal(1))
		Expect(r.RejectedLines).To(Equal([]int{4}))
	})

	It("should skip blank lines and accept any line break", func() {
		r := timing.ParseBulk("\r\n10\r\n   \r20\n\n99\n")
		Expect(r.Accepted).To(Equal([]int64{10000, 20000}))
		Expect(r.RejectedCount).To(Equal(1))
		Expect(r.RejectedLines).To(Equal([]int{6}))
	})

	It("should return empty slices for empty input", func() {
		r := timing.ParseBulk("")
		Expect(r.Accepted).To(BeEmpty())
		Expect(r.Accepted).ToNot(BeNil())
		Expect(r.RejectedCount).To(BeZero())
	})
})
