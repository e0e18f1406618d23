package reactor_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinfit/internal/kinetics"
	"github.com/san-kum/kinfit/internal/reactor"
)

var _ = Describe("Simulate", func() {
	params := kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42}
	opts := reactor.DefaultSolverOptions()
	ctx := context.Background()

	It("returns the initial concentration at t=0", func() {
		ca, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{0},
		}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(ca).To(HaveLen(1))
		Expect(ca[0]).To(Equal(10.0))
	})

	It("stays at zero for an empty reactor", func() {
		ca, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 0, Times: []float64{0, 50, 100},
		}, opts)
		Expect(err).NotTo(HaveOccurred())
		for _, v := range ca {
			Expect(v).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("matches the closed-form solution of the linear system", func() {
		// First order reversible kinetics have the exact solution
		//   CA(t) = CAeq + (CA0 - CAeq) exp(-(kf+kr) t)
		// with CAeq = CA0/(1+Kc). Reference values below are the closed
		// form evaluated at T=298.15 K, CA0=10.
		ca, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{10, 25, 50, 100},
		}, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(ca[0]).To(BeNumerically("~", 8.2788955611, 1e-6))
		Expect(ca[1]).To(BeNumerically("~", 6.6553541395, 1e-6))
		Expect(ca[2]).To(BeNumerically("~", 5.3519584802, 1e-6))
		Expect(ca[3]).To(BeNumerically("~", 4.6460924877, 1e-6))
	})

	It("relaxes to the equilibrium concentration", func() {
		ca, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{1000},
		}, opts)
		Expect(err).NotTo(HaveOccurred())

		// CA0/(1+Kc) at 298.15 K.
		Expect(ca[0]).To(BeNumerically("~", 4.5197036965, 1e-6))
	})

	It("handles a grid that does not start at zero", func() {
		full, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{10, 25, 50},
		}, opts)
		Expect(err).NotTo(HaveOccurred())

		partial, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{25, 50},
		}, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(partial[0]).To(BeNumerically("~", full[1], 1e-9))
		Expect(partial[1]).To(BeNumerically("~", full[2], 1e-9))
	})

	It("conserves total moles", func() {
		ca, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 323.15, CAStart: 10, Times: []float64{5, 20, 80},
		}, opts)
		Expect(err).NotTo(HaveOccurred())
		for _, v := range ca {
			Expect(v).To(BeNumerically(">", 0))
			Expect(v).To(BeNumerically("<", 10))
		}
	})

	It("rejects negative times", func() {
		_, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{-1, 5},
		}, opts)
		Expect(err).To(MatchError(reactor.ErrNegativeTime))
	})

	It("rejects a non-increasing grid", func() {
		_, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{5, 5, 10},
		}, opts)
		Expect(err).To(MatchError(reactor.ErrNonMonotonicTimes))
	})

	It("reports stiff blowup as an integration error", func() {
		// logA=300 gives rate coefficients around 10^290; no step the
		// solver can take keeps the local error in tolerance.
		hot := kinetics.ParameterSet{LogA: 300, Ea: 49, DH: -13, DS: -42}
		_, err := reactor.Simulate(ctx, hot, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{10},
		}, opts)

		var ie *reactor.IntegrationError
		Expect(errors.As(err, &ie)).To(BeTrue())
	})

	It("fails fast when stiffness exhausts the step budget", func() {
		// logA=20 gives kf around 1e11 s^-1, which pins the stable step
		// near 1e-11 s without ever violating MinStep. Reaching t=100 s
		// would take ~1e13 steps; the budget must cut that short.
		stiff := kinetics.ParameterSet{LogA: 20, Ea: 49, DH: -13, DS: -42}
		_, err := reactor.Simulate(ctx, stiff, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{100},
		}, opts)

		var ie *reactor.IntegrationError
		Expect(errors.As(err, &ie)).To(BeTrue())
		Expect(errors.Is(err, reactor.ErrTooManySteps)).To(BeTrue())
	})

	It("stops when the context is canceled", func() {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		stiff := kinetics.ParameterSet{LogA: 20, Ea: 49, DH: -13, DS: -42}
		_, err := reactor.Simulate(canceled, stiff, reactor.Condition{
			T: 298.15, CAStart: 10, Times: []float64{100},
		}, opts)

		Expect(err).To(MatchError(context.Canceled))
	})

	It("rejects invalid temperatures before integrating", func() {
		_, err := reactor.Simulate(ctx, params, reactor.Condition{
			T: -10, CAStart: 10, Times: []float64{10},
		}, opts)
		Expect(err).To(MatchError(kinetics.ErrNonPositiveTemperature))
	})
})

var _ = Describe("Trajectory", func() {
	params := kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42}

	It("samples a uniform grid from zero", func() {
		times, ca, err := reactor.Trajectory(context.Background(), params, 298.15, 10, 100, 11)
		Expect(err).NotTo(HaveOccurred())
		Expect(times).To(HaveLen(11))
		Expect(ca).To(HaveLen(11))
		Expect(times[0]).To(Equal(0.0))
		Expect(times[10]).To(BeNumerically("~", 100, 1e-9))
		Expect(ca[0]).To(Equal(10.0))
		Expect(ca[10]).To(BeNumerically("~", 4.6460924877, 1e-6))
	})
})

var _ = Describe("BatchReactor", func() {
	It("computes the net rate from both directions", func() {
		params := kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42}
		sys, err := reactor.NewBatchReactor(params, 298.15, 10)
		Expect(err).NotTo(HaveOccurred())

		rc := sys.Rates()
		ca := 7.0
		want := rc.Kr*(10-ca) - rc.Kf*ca

		dx := sys.Derivative(reactor.State{ca}, 0)
		Expect(dx[0]).To(BeNumerically("~", want, math.Abs(want)*1e-12))
	})

	It("has zero derivative at equilibrium", func() {
		params := kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42}
		sys, err := reactor.NewBatchReactor(params, 298.15, 10)
		Expect(err).NotTo(HaveOccurred())

		dx := sys.Derivative(reactor.State{sys.Equilibrium()}, 0)
		Expect(dx[0]).To(BeNumerically("~", 0, 1e-12))
	})
})
