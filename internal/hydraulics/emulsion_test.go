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

const (
	waterMu = 0.5e-3
	oilMu   = 3.0e-3
)

func device(critical, width, maxRatio float64) hydraulics.SICD {
	s := hydraulics.DefaultSICD()
	s.CriticalWaterCut = critical
	s.WidthTransition = width
	s.MaxViscRatio = maxRatio
	return s
}

func emulsion(wf, of float64, s hydraulics.SICD) float64 {
	mu, err := hydraulics.EmulsionViscosity(ad.Float(wf), ad.Float(waterMu), ad.Float(of), ad.Float(oilMu), s)
	Expect(err).NotTo(HaveOccurred())
	return mu.Value()
}

var _ = Describe("EmulsionViscosity", func() {
	DescribeTable("fails on a non-positive transition width",
		func(width float64) {
			_, err := hydraulics.EmulsionViscosity(ad.Float(0.3), ad.Float(waterMu), ad.Float(0.7), ad.Float(oilMu), device(0.5, width, 5))
			Expect(errors.Is(err, numerr.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("zero", 0.0),
		Entry("negative", -0.1),
	)

	DescribeTable("returns zero without liquid",
		func(s hydraulics.SICD) {
			Expect(emulsion(0, 0, s)).To(Equal(0.0))
		},
		Entry("default device", hydraulics.DefaultSICD()),
		Entry("narrow window", device(0.2, 1e-3, 2)),
		Entry("wide window", device(0.6, 0.4, 50)),
	)

	It("uses the water-in-oil correlation below the window", func() {
		s := device(0.5, 0.1, 10)
		x := 0.2
		ratio := math.Pow(1/(1-0.8415/0.7480*x), 2.5)
		Expect(emulsion(x, 1-x, s)).To(BeNumerically("~", oilMu*ratio, 1e-15))
	})

	It("uses the oil-in-water correlation above the window", func() {
		s := device(0.5, 0.1, 10)
		x := 0.8
		ratio := math.Pow(1/(1-0.6019/0.6410*(1-x)), 2.5)
		Expect(emulsion(2*x, 2*(1-x), s)).To(BeNumerically("~", waterMu*ratio, 1e-15))
	})

	It("caps the viscosity ratio", func() {
		s := device(0.9, 0.02, 2)
		// x = 0.8 gives a water-in-oil ratio far above 2
		Expect(emulsion(0.8, 0.2, s)).To(BeNumerically("~", 2*oilMu, 1e-15))
	})

	It("blends linearly inside the window", func() {
		s := device(0.5, 0.2, 10)
		muStart := emulsion(0.4, 0.6, s)
		muEnd := emulsion(0.6, 0.4, s)
		Expect(emulsion(0.5, 0.5, s)).To(BeNumerically("~", (muStart+muEnd)/2, 1e-15))
	})

	DescribeTable("is continuous across both window boundaries",
		func(critical, width, maxRatio, liquid float64) {
			s := device(critical, width, maxRatio)
			const eps = 1e-10
			for _, edge := range []float64{critical - width/2, critical + width/2} {
				below := emulsion((edge-eps)*liquid, (1-edge+eps)*liquid, s)
				above := emulsion((edge+eps)*liquid, (1-edge-eps)*liquid, s)
				Expect(math.Abs(below-above) / below).To(BeNumerically("<", 1e-7))
			}
		},
		Entry("default window", 0.5, 0.05, 5.0, 1.0),
		Entry("wide window, partial saturation", 0.45, 0.3, 20.0, 0.35),
		Entry("capped near the boundaries", 0.7, 0.1, 1.5, 0.8),
		Entry("low critical value", 0.15, 0.1, 8.0, 0.6),
	)

	It("carries derivatives through the blend", func() {
		s := device(0.5, 0.2, 10)
		wf := ad.Variable(0.45, 0, 1)
		mu, err := hydraulics.EmulsionViscosity(wf, ad.Constant(waterMu), ad.Constant(0.55), ad.Constant(oilMu), s)
		Expect(err).NotTo(HaveOccurred())

		h := 1e-7
		fd := (emulsion(0.45+h, 0.55, s) - emulsion(0.45-h, 0.55, s)) / (2 * h)
		Expect(mu.Deriv(0)).To(BeNumerically("~", fd, 1e-6*math.Abs(fd)))
	})
})

var _ = Describe("SICD", func() {
	It("validates its parameters", func() {
		Expect(hydraulics.DefaultSICD().Validate()).To(Succeed())

		s := hydraulics.DefaultSICD()
		s.WidthTransition = 0
		Expect(numerr.KindOf(s.Validate())).To(Equal(numerr.InvalidConfig))

		s = hydraulics.DefaultSICD()
		s.MaxViscRatio = 0.5
		Expect(s.Validate()).NotTo(Succeed())
	})

	It("drops pressure in the direction of flow", func() {
		s := hydraulics.DefaultSICD()
		forward := hydraulics.SpiralICDPressureDrop(s, ad.Float(1.5), ad.Float(900.0), ad.Float(1e-3))
		backward := hydraulics.SpiralICDPressureDrop(s, ad.Float(-1.5), ad.Float(900.0), ad.Float(1e-3))
		Expect(forward.Value()).To(BeNumerically(">", 0))
		Expect(backward.Value()).To(BeNumerically("~", -forward.Value(), 1e-9))
	})

	It("matches the calibration fluid scaling", func() {
		s := hydraulics.DefaultSICD()
		rho, visc := s.DensityCalibration, s.ViscosityCalibration
		q := 2.0
		dp := hydraulics.SpiralICDPressureDrop(s, ad.Float(q*rho), ad.Float(rho), ad.Float(visc))
		Expect(dp.Value()).To(BeNumerically("~", s.Strength*q*q, 1e-6))
	})
})
