package montecarlo

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/numlab/lpmc/internal/logging"
)

func TestMonteCarlo(t *testing.T) {
	logging.NewTestLogger()
	RegisterFailHandler(Fail)
	RunSpecs(t, "MonteCarlo Suite")
}
