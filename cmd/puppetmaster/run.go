package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/puppetmaster/cmd/puppetmaster/config"
	"github.com/luxfi/puppetmaster/core/executors"
	"github.com/luxfi/puppetmaster/core/model"
	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/schedulers"
	"github.com/luxfi/puppetmaster/core/sets"
	"github.com/luxfi/puppetmaster/core/simulator"
	"github.com/luxfi/puppetmaster/core/source"
	"github.com/luxfi/puppetmaster/metrics"
)

// defaultTemplates is the built-in template mix used when no template file
// is supplied -- loading one from disk is an external-collaborator concern
// §1 places out of scope.
var defaultTemplates = map[string]source.TxTemplate{
	"small-read": {Reads: 2, Writes: 1, Time: 1, Weight: 3},
	"write-heavy": {Reads: 1, Writes: 3, Time: 2, Weight: 1},
}

// buildMakerFactory selects an AddressSetMaker factory per cfg.SetKind.
func buildMakerFactory(cfg *config.SimulationConfig) (sets.MakerFactory, error) {
	switch cfg.SetKind {
	case "ideal":
		return sets.IdealFactory{}, nil
	case "approximate":
		return sets.ApproximateFactory{Size: cfg.Size, NFuncs: cfg.NHashFuncs}, nil
	case "renaming":
		return sets.RenamingFactory{Size: cfg.Size, NFuncs: cfg.NHashFuncs}, nil
	default:
		return nil, &model.IllegalConfigurationError{Reason: "unknown set kind " + cfg.SetKind}
	}
}

func buildScheduler(cfg *config.SimulationConfig) (simulator.Scheduler, error) {
	switch cfg.Scheduler {
	case "greedy":
		return schedulers.NewGreedy(cfg.OpTime, cfg.PoolSize, cfg.QueueSize), nil
	case "maximal":
		return schedulers.NewMaximal(cfg.OpTime, cfg.PoolSize, cfg.QueueSize, cfg.NSchedules), nil
	case "tournament":
		return schedulers.NewTournament(cfg.OpTime, cfg.PoolSize, cfg.QueueSize, cfg.IsPipelined), nil
	default:
		return nil, &model.IllegalConfigurationError{Reason: "unknown scheduler " + cfg.Scheduler}
	}
}

func buildExecutor(cfg *config.SimulationConfig) (simulator.Executor, error) {
	switch cfg.Executor {
	case "random":
		return executors.Random{}, nil
	case "optimal":
		return executors.Optimal{}, nil
	default:
		return nil, &model.IllegalConfigurationError{Reason: "unknown executor " + cfg.Executor}
	}
}

// runOnce executes a single repeat of cfg end to end and returns its
// result. repeatIdx offsets cfg.Seed so distinct repeats draw distinct address
// sequences.
func runOnce(cfg *config.SimulationConfig, repeatIdx int) (*simulator.Result, error) {
	makerFactory, err := buildMakerFactory(cfg)
	if err != nil {
		return nil, err
	}
	maker, err := makerFactory.New()
	if err != nil {
		return nil, err
	}

	src, err := source.NewTemplateSource(defaultTemplates, cfg.N, cfg.MemSize, cfg.ZipfParam, cfg.Seed+int64(repeatIdx))
	if err != nil {
		return nil, err
	}

	scheduler, err := buildScheduler(cfg)
	if err != nil {
		return nil, err
	}
	executor, err := buildExecutor(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	obs := metrics.NewSet(reg)

	driver := simulator.NewDriver(scheduler, executor, obs)
	initial := pmtypes.NewMachineState(src, maker, cfg.CoreCount)
	return driver.Run(initial)
}

func formatResult(repeatIdx int, res *simulator.Result) string {
	return fmt.Sprintf("repeat=%d final_clock=%d states_explored=%d", repeatIdx, res.FinalClock, res.StatesExplored)
}
