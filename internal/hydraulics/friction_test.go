package hydraulics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/numerr"
)

// area=0.01, diameter=0.1, mu=1e-3 gives re = 1e4 * w
const (
	area      = 0.01
	diameter  = 0.1
	roughness = 1e-4
	mu        = 1e-3
)

func friction(w float64) float64 {
	f, err := hydraulics.FrictionFactor(area, diameter, ad.Float(w), roughness, ad.Float(mu))
	Expect(err).NotTo(HaveOccurred())
	return f.Value()
}

func haalandReference(re float64) float64 {
	v := -3.6 * math.Log10(6.9/re+math.Pow(roughness/(3.7*diameter), 10.0/9.0))
	return 1 / (v * v)
}

var _ = Describe("FrictionFactor", func() {
	DescribeTable("laminar regime is exactly 16/re",
		func(w float64) {
			re := hydraulics.Reynolds(area, diameter, ad.Float(w), ad.Float(mu)).Value()
			Expect(re).To(BeNumerically(">", 0))
			Expect(re).To(BeNumerically("<", hydraulics.LaminarReynolds))
			Expect(friction(w)).To(Equal(16 / re))
		},
		Entry("creeping flow", 1e-4),
		Entry("re=100", 0.01),
		Entry("re=1000", 0.1),
		Entry("just below the band", 0.1999),
		Entry("reverse flow", -0.05),
	)

	DescribeTable("turbulent regime follows the Haaland correlation",
		func(w float64) {
			re := hydraulics.Reynolds(area, diameter, ad.Float(w), ad.Float(mu)).Value()
			Expect(re).To(BeNumerically(">", hydraulics.TurbulentReynolds))
			f := friction(w)
			Expect(f).To(BeNumerically(">", 0))
			Expect(f).To(BeNumerically("~", haalandReference(re), 1e-12))
		},
		Entry("re=5000", 0.5),
		Entry("re=1e5", 10.0),
		Entry("re=1e7", 1000.0),
		Entry("reverse re=2e4", -2.0),
	)

	It("matches the hand-derived reference value", func() {
		// re = |0.1*0.5/(0.01*0.001)| = 5000, turbulent
		// value = -3.6 log10(6.9/5000 + (1e-4/0.37)^(10/9)) = 10.178129977411489
		const expected = 0.00965303797584916
		f := friction(0.5)
		Expect(math.Abs(f-expected) / expected).To(BeNumerically("<", 1e-9))
	})

	It("is continuous at both ends of the transition band", func() {
		const eps = 1e-9
		// re = 2000
		Expect(friction(0.2 * (1 - eps))).To(BeNumerically("~", friction(0.2*(1+eps)), 1e-10))
		Expect(friction(0.2)).To(BeNumerically("~", 16/hydraulics.LaminarReynolds, 1e-15))
		// re = 4000
		Expect(friction(0.4 * (1 - eps))).To(BeNumerically("~", friction(0.4*(1+eps)), 1e-10))
		Expect(friction(0.4)).To(BeNumerically("~", haalandReference(4000), 1e-15))
	})

	It("interpolates linearly inside the band", func() {
		f2000 := 16 / hydraulics.LaminarReynolds
		f4000 := haalandReference(4000)
		Expect(friction(0.3)).To(BeNumerically("~", (f2000+f4000)/2, 1e-14))
	})

	It("returns zero without flow", func() {
		Expect(friction(0)).To(Equal(0.0))
	})

	It("rejects a zero reynolds number with nonzero flow", func() {
		f, err := hydraulics.FrictionFactor(area, diameter, ad.Float(1.0), roughness, ad.Float(math.Inf(1)))
		Expect(errors.Is(err, numerr.ErrInvalidConfig)).To(BeTrue())
		Expect(f.Value()).To(Equal(0.0))
	})

	It("rejects a roughness the correlation cannot take", func() {
		_, err := hydraulics.FrictionFactor(area, diameter, ad.Float(1.0), 10*diameter, ad.Float(mu))
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, numerr.ErrInvalidConfig)).To(BeTrue())
	})

	It("differentiates through every regime", func() {
		for _, w := range []float64{0.05, 0.3, 2.0} {
			dual, err := hydraulics.FrictionFactor(area, diameter, ad.Variable(w, 0, 1), roughness, ad.Constant(mu))
			Expect(err).NotTo(HaveOccurred())
			h := 1e-7 * w
			fd := (friction(w+h) - friction(w-h)) / (2 * h)
			Expect(dual.Deriv(0)).To(BeNumerically("~", fd, 1e-6*math.Abs(fd)+1e-12))
		}
	})
})

var _ = Describe("FrictionPressureLoss", func() {
	It("keeps the empirical factor of two", func() {
		const (
			l       = 12.0
			density = 850.0
			w       = 0.5
		)
		dp, err := hydraulics.FrictionPressureLoss(l, diameter, area, roughness, ad.Float(density), ad.Float(w), ad.Float(mu))
		Expect(err).NotTo(HaveOccurred())
		expected := 2 * friction(w) * l * w * w / (area * area * diameter * density)
		Expect(dp.Value()).To(BeNumerically("~", expected, 1e-12*expected))
	})

	It("is non-negative for either flow direction", func() {
		for _, w := range []float64{-3, -0.1, 0, 0.1, 3} {
			dp, err := hydraulics.FrictionPressureLoss(10, diameter, area, roughness, ad.Float(900), ad.Float(w), ad.Float(mu))
			Expect(err).NotTo(HaveOccurred())
			Expect(dp.Value()).To(BeNumerically(">=", 0))
		}
	})

	It("propagates correlation errors", func() {
		_, err := hydraulics.FrictionPressureLoss(10, diameter, area, 10*diameter, ad.Float(900), ad.Float(1.0), ad.Float(mu))
		Expect(numerr.KindOf(err)).To(Equal(numerr.InvalidConfig))
	})
})
