package hydraulics_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHydraulics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Hydraulics Suite")
}
