// Package flow drives lattice Boltzmann simulations: it owns the per-tick
// loop, metric observation, and parallel parameter sweeps.
package flow

import (
	"context"
	"fmt"

	"github.com/csnje/lbflow/internal/lattice"
)

// Metric observes the lattice after every tick and reduces it to a scalar.
type Metric interface {
	Name() string
	Observe(l *lattice.Lattice, tick int)
	Value() float64
	Reset()
}

// Observer receives a callback after every tick.
type Observer interface {
	OnTick(l *lattice.Lattice, tick int)
}

// Result collects the outcome of a run.
type Result struct {
	Ticks    int
	Tau      float64
	Reynolds float64
	Metrics  map[string]float64   // final value per metric
	Series   map[string][]float64 // per-tick value per metric
}

// Runner steps a lattice with a fixed relaxation time.
type Runner struct {
	lat       *lattice.Lattice
	tau       float64
	metrics   []Metric
	observers []Observer
}

// New builds a runner. The relaxation time tau must be at least 0.5, the
// zero-viscosity stability limit.
func New(lat *lattice.Lattice, tau float64) (*Runner, error) {
	if tau < 0.5 {
		return nil, fmt.Errorf("flow: relaxation time %v below stability limit 0.5", tau)
	}
	return &Runner{lat: lat, tau: tau}, nil
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Lattice exposes the underlying lattice for queries and rendering.
func (r *Runner) Lattice() *lattice.Lattice { return r.lat }

// Tau returns the relaxation time.
func (r *Runner) Tau() float64 { return r.tau }

// Run advances the simulation by ticks iterations, observing metrics after
// each one. Cancelling ctx stops between ticks and returns the partial
// result alongside ctx.Err().
func (r *Runner) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("flow: negative tick count %d", ticks)
	}
	for _, m := range r.metrics {
		m.Reset()
	}
	result := &Result{
		Tau:     r.tau,
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64, len(r.metrics)),
	}

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		r.lat.Iterate(r.tau)
		result.Ticks++
		for _, m := range r.metrics {
			m.Observe(r.lat, result.Ticks)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, o := range r.observers {
			o.OnTick(r.lat, result.Ticks)
		}
	}

	r.finish(result)
	return result, nil
}

// Step advances a single tick without metric bookkeeping; used by live views.
func (r *Runner) Step() { r.lat.Iterate(r.tau) }

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
