package montecarlo

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"github.com/numlab/lpmc/internal/logging"
)

const exactSquare = 8.0 / 3.0

var _ = Describe("Polynomial", func() {
	It("should evaluate with Horner's rule", func() {
		p := Polynomial{1, -2, 3}
		Expect(p.Eval(0)).To(Equal(1.0))
		Expect(p.Eval(2)).To(Equal(9.0))
		Expect(Square.Eval(1.5)).To(Equal(2.25))
	})

	It("should integrate x^2 on [0, 2] to 8/3", func() {
		Expect(Square.Integral(0, 2)).To(BeNumerically("~", exactSquare, 1e-12))
		Expect(Square.Antiderivative()).To(Equal(Polynomial{0, 0, 0, 1.0 / 3.0}))
	})

	DescribeTable("should format readably",
		func(p Polynomial, want string) {
			Expect(p.String()).To(Equal(want))
		},
		Entry("square", Square, "x^2"),
		Entry("mixed signs", Polynomial{1, -1, 3}, "3x^2 - x + 1"),
		Entry("leading negative", Polynomial{0, 2, -1}, "-x^2 + 2x"),
		Entry("constant", Polynomial{2.5}, "2.5"),
		Entry("trailing zeros", Polynomial{0, 1, 0, 0}, "x"),
		Entry("zero", Polynomial{}, "0"),
	)
})

var _ = Describe("RunningEstimate", func() {
	It("should report scale times the running mean", func() {
		r := NewRunningEstimate(2)
		Expect(r.Value()).To(Equal(0.0))
		Expect(r.Add(1)).To(Equal(2.0))
		Expect(r.Add(3)).To(Equal(4.0))
		Expect(r.Count()).To(Equal(2))
	})
})

var _ = Describe("MeanValue", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = logging.IntoContext(context.Background(), logging.Log)
	})

	It("should converge toward the analytical integral", func() {
		res, err := MeanValue(ctx, Square.Func(), 0, 2, 100000, NewSource(ptr.To[uint64](42)))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Estimate).To(BeNumerically("~", exactSquare, 0.05))
		Expect(res.Samples).To(Equal(100000))
	})

	It("should expose every partial estimate", func() {
		res, err := MeanValue(ctx, Square.Func(), 0, 2, 500, NewSource(ptr.To[uint64](7)))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.History).To(HaveLen(500))
		Expect(res.History[len(res.History)-1]).To(Equal(res.Estimate))
		for _, v := range res.History {
			Expect(v).To(BeNumerically(">=", 0))
			Expect(v).To(BeNumerically("<=", 8))
		}
	})

	It("should be exact for a constant function", func() {
		res, err := MeanValue(ctx, Polynomial{3}.Func(), -1, 1, 10, NewSource(ptr.To[uint64](1)))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Estimate).To(BeNumerically("~", 6, 1e-12))
	})

	It("should be reproducible with a seed", func() {
		first, err := Estimate(ctx, Square.Func(), 0, 2, 1000, NewSource(ptr.To[uint64](99)))
		Expect(err).NotTo(HaveOccurred())
		second, err := Estimate(ctx, Square.Func(), 0, 2, 1000, NewSource(ptr.To[uint64](99)))
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	DescribeTable("should reject invalid input",
		func(a, b float64, n int, want error) {
			_, err := MeanValue(ctx, Square.Func(), a, b, n, NewSource(nil))
			Expect(err).To(MatchError(want))
		},
		Entry("reversed interval", 2.0, 0.0, 10, ErrInvalidInterval),
		Entry("empty interval", 1.0, 1.0, 10, ErrInvalidInterval),
		Entry("infinite bound", 0.0, math.Inf(1), 10, ErrInvalidInterval),
		Entry("zero samples", 0.0, 2.0, 0, ErrInvalidSampleCount),
		Entry("negative samples", 0.0, 2.0, -5, ErrInvalidSampleCount),
	)

	It("should stop when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := MeanValue(cancelled, Square.Func(), 0, 2, 10, NewSource(nil))
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("HitOrMiss", func() {
	ctx := context.Background()

	It("should use the grid maximum as the rectangle height", func() {
		height, err := MaxOnGrid(Square.Func(), 0, 2, DefaultGridPoints)
		Expect(err).NotTo(HaveOccurred())
		Expect(height).To(Equal(4.0))

		_, err = MaxOnGrid(Square.Func(), 0, 2, 1)
		Expect(err).To(HaveOccurred())
	})

	It("should agree with the mean-value estimate for large n", func() {
		hm, err := HitOrMiss(ctx, Square.Func(), 0, 2, 100000, DefaultGridPoints, NewSource(ptr.To[uint64](42)))
		Expect(err).NotTo(HaveOccurred())
		Expect(hm.Total).To(Equal(100000))
		Expect(hm.Hits).To(BeNumerically(">", 0))
		Expect(hm.Fraction()).To(BeNumerically("~", 1.0/3.0, 0.01))
		Expect(hm.Estimate).To(BeNumerically("~", exactSquare, 0.08))
		Expect(hm.Estimate).To(BeNumerically("~", 8*hm.Fraction(), 1e-12))

		mv, err := Estimate(ctx, Square.Func(), 0, 2, 100000, NewSource(ptr.To[uint64](43)))
		Expect(err).NotTo(HaveOccurred())
		Expect(hm.Estimate).To(BeNumerically("~", mv, 0.1))
	})

	It("should reject a non-positive maximum", func() {
		_, err := HitOrMiss(ctx, Polynomial{0, -1}.Func(), 1, 2, 100, DefaultGridPoints, NewSource(nil))
		Expect(err).To(MatchError(ErrNonPositiveMaximum))
	})
})

var _ = Describe("Baselines", func() {
	It("should integrate polynomials exactly with Gauss-Legendre quadrature", func() {
		q, err := Quadrature(Square.Func(), 0, 2, DefaultQuadraturePoints)
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Value).To(BeNumerically("~", exactSquare, 1e-12))
		Expect(q.ErrorEstimate).To(BeNumerically("<", 1e-12))
		Expect(q.Points).To(Equal(DefaultQuadraturePoints))

		_, err = Quadrature(Square.Func(), 0, 2, 1)
		Expect(err).To(MatchError(ErrInvalidSampleCount))
	})

	It("should compute absolute and relative errors", func() {
		Expect(AbsoluteError(2.5, 2)).To(Equal(0.5))
		rel, err := RelativeErrorPercent(2.5, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(rel).To(Equal(25.0))

		_, err = RelativeErrorPercent(1, 0)
		Expect(err).To(MatchError(ErrZeroReference))
	})

	DescribeTable("should classify accuracy",
		func(percent float64, want Accuracy) {
			Expect(AccuracyOf(percent)).To(Equal(want))
		},
		Entry("excellent", 0.5, AccuracyExcellent),
		Entry("good", 1.0, AccuracyGood),
		Entry("satisfactory", 7.5, AccuracySatisfactory),
		Entry("low", 10.0, AccuracyLow),
	)
})

var _ = Describe("Convergence", func() {
	ctx := context.Background()

	It("should build one comparison row per sample size", func() {
		rows, err := Compare(ctx, Square.Func(), 0, 2, exactSquare, []int{100, 1000, 10000}, NewSource(ptr.To[uint64](3)))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		for i, n := range []int{100, 1000, 10000} {
			Expect(rows[i].Samples).To(Equal(n))
			Expect(rows[i].AbsoluteError).To(BeNumerically("~", math.Abs(rows[i].Estimate-exactSquare), 1e-12))
			Expect(rows[i].RelativeErrorPercent).To(BeNumerically("~", rows[i].AbsoluteError/exactSquare*100, 1e-9))
		}
	})

	It("should report NaN relative errors against a zero reference", func() {
		rows, err := Compare(ctx, Polynomial{0, 1}.Func(), -1, 1, 0, []int{10}, NewSource(ptr.To[uint64](3)))
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(rows[0].RelativeErrorPercent)).To(BeTrue())
	})

	It("should shrink the RMS error as n^-0.5", func() {
		conv, err := ConvergenceRate(ctx, Square.Func(), 0, 2, exactSquare,
			[]int{100, 1000, 10000, 100000}, 20, NewSource(ptr.To[uint64](2024)))
		Expect(err).NotTo(HaveOccurred())
		Expect(conv.Points).To(HaveLen(4))
		Expect(conv.Trials).To(Equal(20))
		Expect(conv.Points[3].RMSError).To(BeNumerically("<", conv.Points[0].RMSError))
		Expect(conv.Slope).To(BeNumerically("~", -0.5, 0.15))
	})

	It("should leave the slope undefined when estimates are exact", func() {
		conv, err := ConvergenceRate(ctx, Polynomial{1}.Func(), 0, 1, 1, []int{10, 100}, 2, NewSource(ptr.To[uint64](5)))
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(conv.Slope)).To(BeTrue())
	})

	It("should validate its arguments", func() {
		_, err := ConvergenceRate(ctx, Square.Func(), 0, 2, exactSquare, []int{100, 1000}, 0, NewSource(nil))
		Expect(err).To(MatchError(ErrInvalidSampleCount))
		_, err = ConvergenceRate(ctx, Square.Func(), 0, 2, exactSquare, []int{100}, 5, NewSource(nil))
		Expect(err).To(HaveOccurred())
	})
})
