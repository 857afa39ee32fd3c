package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/sets"
	"github.com/luxfi/puppetmaster/core/source"
	"github.com/luxfi/puppetmaster/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestSetTracksStatesAndParallelism(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := metrics.NewSet(reg)

	st := pmtypes.NewMachineState(source.NewFixed(), sets.IdealMaker{}, 4)
	s.StateExplored(st)
	require.Equal(t, float64(1), counterValue(t, s.StatesExplored))
	require.Equal(t, float64(0), gaugeValue(t, s.Parallelism))

	rs, _ := sets.NewIdeal(nil)
	ws, _ := sets.NewIdeal(nil)
	st.Scheduled.Add(pmtypes.NewTransaction(rs, ws, 1))
	s.StateExplored(st)
	require.Equal(t, float64(2), counterValue(t, s.StatesExplored))
}

func TestSetBatchScheduledOnlyCountsNonEmptyBatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := metrics.NewSet(reg)

	s.BatchScheduled(nil, 0)
	require.Equal(t, float64(0), counterValue(t, s.BatchesScheduled))

	s.BatchScheduled(nil, 2)
	require.Equal(t, float64(1), counterValue(t, s.BatchesScheduled))
}

func TestSetCapacityDeferred(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := metrics.NewSet(reg)

	s.CapacityDeferred(nil)
	s.CapacityDeferred(nil)
	require.Equal(t, float64(2), counterValue(t, s.CapacityDeferrals))
}
