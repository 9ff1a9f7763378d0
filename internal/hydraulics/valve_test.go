package hydraulics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/hydraulics"
)

var _ = Describe("ValveConstrictionPressureLoss", func() {
	It("follows rate^2/(2 rho cv^2 a^2)", func() {
		dp := hydraulics.ValveConstrictionPressureLoss(ad.Float(2.0), ad.Float(1000.0), 1e-3, 0.7)
		Expect(dp.Value()).To(BeNumerically("~", 4.0/(2*1000*0.49*1e-6), 1e-6))
	})

	DescribeTable("clamps the constriction area",
		func(areaCon float64) {
			clamped := hydraulics.ValveConstrictionPressureLoss(ad.Float(0.3), ad.Float(800.0), hydraulics.MinConstrictionArea, 0.9)
			dp := hydraulics.ValveConstrictionPressureLoss(ad.Float(0.3), ad.Float(800.0), areaCon, 0.9)
			Expect(dp).To(Equal(clamped))
		},
		Entry("zero area", 0.0),
		Entry("negative area", -1e-3),
		Entry("vanishing area", 1e-14),
	)
})

var _ = Describe("VelocityHead", func() {
	It("follows rate^2/(a^2 rho)", func() {
		head := hydraulics.VelocityHead(0.02, ad.Float(3.0), ad.Float(900.0))
		Expect(head.Value()).To(BeNumerically("~", 9.0/(0.0004*900), 1e-12))
	})

	It("differentiates in the mass rate", func() {
		head := hydraulics.VelocityHead(0.02, ad.Variable(3.0, 0, 1), ad.Constant(900.0))
		Expect(head.Deriv(0)).To(BeNumerically("~", 6.0/(0.0004*900), 1e-9))
	})
})
