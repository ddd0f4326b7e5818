package drivetrain_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDrivetrain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Drivetrain Suite")
}
