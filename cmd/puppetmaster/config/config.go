// Package config builds the SimulationConfig a puppetmaster run is driven
// by, following the same flag/viper pipeline as the teacher's own
// cmd/simulator/config package: BuildFlagSet defines the recognized keys,
// BuildViper binds them to CLI args and environment variables (no config
// file is read), BuildConfig coerces the bound values into a typed struct.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luxfi/puppetmaster/core/model"
)

// Flag keys, exactly §6's Simulation parameters plus the scheduler/executor
// selection and logging knobs every run needs.
const (
	MemSizeKey     = "mem-size"
	NKey           = "n"
	PoolSizeKey    = "pool-size"
	QueueSizeKey   = "queue-size"
	CoreCountKey   = "core-count"
	OpTimeKey      = "op-time"
	ZipfParamKey   = "zipf-param"
	RepeatsKey     = "repeats"
	IsPipelinedKey = "is-pipelined"
	NSchedulesKey  = "n-schedules"
	SizeKey        = "size"
	NHashFuncsKey  = "n-hash-funcs"
	SeedKey        = "seed"

	SchedulerKey = "scheduler" // greedy | maximal | tournament
	ExecutorKey  = "executor"  // random | optimal
	SetKindKey   = "set-kind"  // ideal | approximate | renaming

	LogLevelKey = "log-level"
	LogFileKey  = "log-file"

	VersionKey = "version"
)

// Version is the module's reported CLI version.
const Version = "0.1.0"

// BuildFlagSet declares every recognized flag with its default.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("puppetmaster", pflag.ContinueOnError)

	fs.Int(MemSizeKey, 1<<16, "address space size addresses are drawn from")
	fs.Int(NKey, 1000, "number of transactions to generate")
	fs.Int(PoolSizeKey, 0, "pending-pool capacity (0 = unbounded)")
	fs.Int(QueueSizeKey, 0, "execution-queue capacity (0 = unbounded)")
	fs.Int(CoreCountKey, 4, "number of cores")
	fs.Int(OpTimeKey, 1, "cycles charged per scheduling decision")
	fs.Float64(ZipfParamKey, 1.5, "Zipf skew parameter for address draws (>= 0; 0 = uniform)")
	fs.Int(RepeatsKey, 1, "number of independent repeats to run")
	fs.Bool(IsPipelinedKey, true, "tournament scheduler: overlap merge rounds")
	fs.Int(NSchedulesKey, 1, "maximal scheduler: number of top batches to keep")
	fs.Uint(SizeKey, 1<<12, "approximate/renaming set width in bits/slots")
	fs.Uint(NHashFuncsKey, 4, "approximate/renaming hash-function count")
	fs.Int64(SeedKey, 1, "PRNG seed for address generation")

	fs.String(SchedulerKey, "greedy", "greedy | maximal | tournament")
	fs.String(ExecutorKey, "random", "random | optimal")
	fs.String(SetKindKey, "ideal", "ideal | approximate | renaming")

	fs.String(LogLevelKey, "info", "trace | debug | info | warn | error")
	fs.String(LogFileKey, "", "optional log file path (rotated via lumberjack)")

	fs.Bool(VersionKey, false, "print version and exit")

	return fs
}

// BuildViper parses args against fs and layers in PUPPETMASTER_-prefixed
// environment variables.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix("puppetmaster")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

// SimulationConfig is the typed form of §6's Simulation parameters.
type SimulationConfig struct {
	MemSize     int
	N           int
	PoolSize    *int
	QueueSize   *int
	CoreCount   int
	OpTime      int
	ZipfParam   float64
	Repeats     int
	IsPipelined bool
	NSchedules  int
	Size        uint
	NHashFuncs  uint
	Seed        int64

	Scheduler string
	Executor  string
	SetKind   string

	LogLevel string
	LogFile  string
}

// BuildConfig coerces v's bound values into a SimulationConfig, validating
// every field spec §7 calls IllegalConfiguration territory.
func BuildConfig(v *viper.Viper) (*SimulationConfig, error) {
	cfg := &SimulationConfig{
		MemSize:     v.GetInt(MemSizeKey),
		N:           v.GetInt(NKey),
		CoreCount:   v.GetInt(CoreCountKey),
		OpTime:      v.GetInt(OpTimeKey),
		ZipfParam:   v.GetFloat64(ZipfParamKey),
		Repeats:     v.GetInt(RepeatsKey),
		IsPipelined: v.GetBool(IsPipelinedKey),
		NSchedules:  v.GetInt(NSchedulesKey),
		Size:        cast.ToUint(v.Get(SizeKey)),
		NHashFuncs:  cast.ToUint(v.Get(NHashFuncsKey)),
		Seed:        v.GetInt64(SeedKey),
		Scheduler:   v.GetString(SchedulerKey),
		Executor:    v.GetString(ExecutorKey),
		SetKind:     v.GetString(SetKindKey),
		LogLevel:    v.GetString(LogLevelKey),
		LogFile:     v.GetString(LogFileKey),
	}

	if v.GetInt(PoolSizeKey) < 0 {
		return nil, &model.IllegalConfigurationError{Reason: "pool-size must be >= 0"}
	}
	if v.GetInt(QueueSizeKey) < 0 {
		return nil, &model.IllegalConfigurationError{Reason: "queue-size must be >= 0"}
	}
	if poolSize := v.GetInt(PoolSizeKey); poolSize > 0 {
		cfg.PoolSize = &poolSize
	}
	if queueSize := v.GetInt(QueueSizeKey); queueSize > 0 {
		cfg.QueueSize = &queueSize
	}

	if cfg.CoreCount < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "core-count must be >= 1"}
	}
	if cfg.Repeats < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "repeats must be >= 1"}
	}
	if cfg.NSchedules < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "n-schedules must be >= 1"}
	}
	switch cfg.Scheduler {
	case "greedy", "maximal", "tournament":
	default:
		return nil, &model.IllegalConfigurationError{Reason: fmt.Sprintf("unknown scheduler %q", cfg.Scheduler)}
	}
	switch cfg.Executor {
	case "random", "optimal":
	default:
		return nil, &model.IllegalConfigurationError{Reason: fmt.Sprintf("unknown executor %q", cfg.Executor)}
	}
	switch cfg.SetKind {
	case "ideal", "approximate", "renaming":
	default:
		return nil, &model.IllegalConfigurationError{Reason: fmt.Sprintf("unknown set kind %q", cfg.SetKind)}
	}

	return cfg, nil
}
