// Command puppetmaster runs the conflict-detection/scheduling simulator
// end to end: build a SimulationConfig from flags, construct the chosen
// AddressSet/Scheduler/Executor combination, and drive it to a terminal
// state, optionally repeating the sweep in parallel.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/puppetmaster/cmd/puppetmaster/config"
)

func main() {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Printf("couldn't build viper: %s\n", err)
		os.Exit(1)
	}

	if v.GetBool(config.VersionKey) {
		fmt.Println(config.Version)
		os.Exit(0)
	}

	setupLogging(v.GetString(config.LogLevelKey), v.GetString(config.LogFileKey))

	cfg, err := config.BuildConfig(v)
	if err != nil {
		luxlog.Root().Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:  "puppetmaster",
		Usage: "run the transactional-memory scheduling simulator",
		Action: func(c *cli.Context) error {
			return sweep(c.Context, cfg)
		},
	}
	// Flags were already parsed by pflag above; the app defines none of its
	// own, so it is given only the program name.
	if err := app.RunContext(context.Background(), os.Args[:1]); err != nil {
		luxlog.Root().Error("run failed", "err", err)
		os.Exit(1)
	}
}

// setupLogging mirrors the teacher's terminal-handler setup: wrap stderr
// with go-colorable only when it is actually a terminal (the slog text
// handler itself emits no color codes), and write to a rotated file instead
// of stderr when --log-file is set.
func setupLogging(level, logFile string) {
	var writer io.Writer
	if isatty.IsTerminal(os.Stderr.Fd()) {
		writer = colorable.NewColorableStderr()
	} else {
		writer = os.Stderr
	}
	if logFile != "" {
		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
		}
	}

	slogLevel := slog.LevelInfo
	if lvl, err := luxlog.ToLevel(level); err == nil {
		slogLevel = slog.Level(lvl)
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slogLevel})
	luxlog.SetDefault(luxlog.New(handler))
}

// sweep runs cfg.Repeats independent repeats, in parallel via errgroup when
// more than one is requested -- each goroutine owns one Driver/MachineState
// end to end, per §5's "independent simulation configurations may run
// embarrassingly parallel" guarantee.
func sweep(ctx context.Context, cfg *config.SimulationConfig) error {
	results := make([]string, cfg.Repeats)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Repeats; i++ {
		i := i
		g.Go(func() error {
			res, err := runOnce(cfg, i)
			if err != nil {
				return fmt.Errorf("repeat %d: %w", i, err)
			}
			results[i] = formatResult(i, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, line := range results {
		fmt.Println(line)
	}
	return nil
}
