package flow_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/csnje/lbflow/internal/flow"
	"github.com/csnje/lbflow/internal/geometry"
	"github.com/csnje/lbflow/internal/lattice"
	"github.com/csnje/lbflow/internal/metrics"
)

func periodicLattice(size []int, density float64, velocity []float64) *lattice.Lattice {
	bounds := [][2]lattice.Scheme{
		{lattice.Periodic, lattice.Periodic},
		{lattice.Periodic, lattice.Periodic},
	}
	l, err := lattice.New(lattice.D2Q9(), size, bounds, density, velocity)
	Expect(err).NotTo(HaveOccurred())
	return l
}

type tickCounter struct{ n int }

func (c *tickCounter) OnTick(*lattice.Lattice, int) { c.n++ }

var _ = Describe("Runner", func() {
	It("rejects relaxation times below the stability limit", func() {
		l := periodicLattice([]int{5, 5}, 1.0, []float64{0, 0})
		_, err := flow.New(l, 0.49)
		Expect(err).To(HaveOccurred())
	})

	It("advances the requested number of ticks", func() {
		l := periodicLattice([]int{5, 5}, 1.0, []float64{0.1, 0})
		r, err := flow.New(l, 0.7)
		Expect(err).NotTo(HaveOccurred())

		result, err := r.Run(context.Background(), 12)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ticks).To(Equal(12))
		Expect(result.Tau).To(Equal(0.7))
	})

	It("stops between ticks when the context is cancelled", func() {
		l := periodicLattice([]int{5, 5}, 1.0, []float64{0.1, 0})
		r, err := flow.New(l, 0.7)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := r.Run(ctx, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Ticks).To(Equal(0))
	})

	It("notifies observers after every tick", func() {
		l := periodicLattice([]int{5, 5}, 1.0, []float64{0.1, 0})
		r, err := flow.New(l, 0.7)
		Expect(err).NotTo(HaveOccurred())

		counter := &tickCounter{}
		r.AddObserver(counter)
		_, err = r.Run(context.Background(), 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(counter.n).To(Equal(7))
	})

	It("records a series entry per tick for every metric", func() {
		l := periodicLattice([]int{5, 5}, 1.0, []float64{0.1, 0})
		r, err := flow.New(l, 0.7)
		Expect(err).NotTo(HaveOccurred())

		r.AddMetric(metrics.NewMass())
		result, err := r.Run(context.Background(), 9)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Series["mass"]).To(HaveLen(9))
		Expect(result.Metrics).To(HaveKey("mass"))
	})
})

var _ = Describe("Physical properties", func() {
	It("conserves mass on periodic boundaries", func() {
		l := periodicLattice([]int{7, 5}, 1.0, []float64{0.1, 0.05})
		r, err := flow.New(l, 0.7)
		Expect(err).NotTo(HaveOccurred())

		r.AddMetric(metrics.NewMass())
		result, err := r.Run(context.Background(), 100)
		Expect(err).NotTo(HaveOccurred())

		for _, mass := range result.Series["mass"] {
			Expect(mass).To(BeNumerically("~", 35.0, 1e-6))
		}
	})

	It("keeps cylinder channel flow bounded", func() {
		bounds := [][2]lattice.Scheme{
			{lattice.Inflow, lattice.Outflow},
			{lattice.SpecularReflection, lattice.SpecularReflection},
		}
		l, err := lattice.New(lattice.D2Q9(), []int{40, 21}, bounds, 1.0, []float64{0.1, 0})
		Expect(err).NotTo(HaveOccurred())

		cylinder := geometry.NewCircle([]float64{10, 10}, 2)
		geometry.Stamp(l, cylinder)

		tau := l.RelaxationTime(0.1, cylinder.CharacteristicLength(), 200)
		r, err := flow.New(l, tau)
		Expect(err).NotTo(HaveOccurred())

		r.AddMetric(metrics.NewPeakSpeed())
		result, err := r.Run(context.Background(), 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics["peak_speed"]).To(BeNumerically(">", 0))
		Expect(result.Metrics["peak_speed"]).To(BeNumerically("<", 1.0))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one member per Reynolds number", func() {
		e := &flow.Ensemble{
			Build: func(re float64) (*flow.Runner, error) {
				l := periodicLattice([]int{6, 6}, 1.0, []float64{0.1, 0})
				return flow.New(l, l.RelaxationTime(0.1, 3, re))
			},
			Ticks: 5,
		}

		reynolds := []float64{50, 100, 200}
		results, err := e.Run(context.Background(), reynolds)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, res := range results {
			Expect(res.Reynolds).To(Equal(reynolds[i]))
			Expect(res.Ticks).To(Equal(5))
		}
	})

	It("aborts when a member fails to build", func() {
		e := &flow.Ensemble{
			Build: func(re float64) (*flow.Runner, error) {
				l := periodicLattice([]int{6, 6}, 1.0, []float64{0.1, 0})
				return flow.New(l, 0.4) // below stability limit
			},
			Ticks: 5,
		}

		_, err := e.Run(context.Background(), []float64{100})
		Expect(err).To(HaveOccurred())
	})
})
