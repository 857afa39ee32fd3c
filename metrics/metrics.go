// Package metrics wires the driver's step-by-step Observer callbacks into
// plain prometheus/client_golang counters and gauges: states explored,
// batches scheduled, capacity-exceeded deferrals, and a steady-state
// parallelism gauge (cores busy / core count at the moment each state is
// explored). This is internal instrumentation a caller may scrape, not the
// "command-line tabulation of throughput/parallelism" §1 puts out of scope.
package metrics

import (
	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/prometheus/client_golang/prometheus"
)

// Set is a registered group of counters/gauges for one simulator run.
type Set struct {
	StatesExplored    prometheus.Counter
	BatchesScheduled  prometheus.Counter
	CapacityDeferrals prometheus.Counter
	Parallelism       prometheus.Gauge
}

// NewSet registers a fresh Set of metrics against reg. Passing a
// prometheus.NewRegistry() per run keeps concurrent outer-parallel runs
// (§5) from colliding on metric names.
func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		StatesExplored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "puppetmaster_states_explored_total",
			Help: "MachineStates popped off the driver's priority queue.",
		}),
		BatchesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "puppetmaster_batches_scheduled_total",
			Help: "Executor runs that moved at least one transaction onto a core.",
		}),
		CapacityDeferrals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "puppetmaster_capacity_deferrals_total",
			Help: "Scheduler runs that returned a CapacityExceeded/RenamingTableTooSmall error.",
		}),
		Parallelism: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "puppetmaster_parallelism_ratio",
			Help: "Busy cores divided by core count at the last explored state.",
		}),
	}
	reg.MustRegister(s.StatesExplored, s.BatchesScheduled, s.CapacityDeferrals, s.Parallelism)
	return s
}

// StateExplored implements simulator.Observer.
func (s *Set) StateExplored(state *pmtypes.MachineState) {
	s.StatesExplored.Inc()
	if state.CoreCount > 0 {
		s.Parallelism.Set(float64(len(state.Cores)) / float64(state.CoreCount))
	}
}

// BatchScheduled implements simulator.Observer.
func (s *Set) BatchScheduled(state *pmtypes.MachineState, n int) {
	if n > 0 {
		s.BatchesScheduled.Inc()
	}
}

// CapacityDeferred implements simulator.Observer.
func (s *Set) CapacityDeferred(state *pmtypes.MachineState) {
	s.CapacityDeferrals.Inc()
}
