package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	asuite "github.com/TinkerBoard2-Android/tools-asuite"
	"github.com/TinkerBoard2-Android/tools-asuite/exitcodes"
	"github.com/TinkerBoard2-Android/tools-asuite/flags"
	"github.com/TinkerBoard2-Android/tools-asuite/logging"
	"github.com/TinkerBoard2-Android/tools-asuite/reporter"
	"github.com/TinkerBoard2-Android/tools-asuite/runner"
	"github.com/TinkerBoard2-Android/tools-asuite/service"
)

var (
	Version   = "v1.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "atest"
	app.Usage = "Android test result aggregator"
	app.Description = "atest consumes a test outcome event stream and reports per-runner results"
	app.Flags = flags.AtestFlags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if asuite.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger, err := logging.NewLogger(os.Stderr, ctx.String(flags.LogLevel.Name), ctx.Bool(flags.Verbose.Name))
	if err != nil {
		return asuite.NewRuntimeError(err)
	}

	stream, closeStream, err := openStream(ctx.String(flags.Results.Name))
	if err != nil {
		return asuite.NewRuntimeError(err)
	}
	defer closeStream()

	runID := uuid.New().String()
	fileLogger, err := logging.NewFileLogger(ctx.String(flags.LogDir.Name), runID)
	if err != nil {
		return asuite.NewRuntimeError(err)
	}
	defer fileLogger.Close()
	logger.Info("Logging test run", "dir", fileLogger.RunDir())

	opts := []reporter.Option{
		reporter.WithOutput(io.MultiWriter(os.Stdout, fileLogger.Writer())),
		reporter.WithLogger(logger),
	}
	if ctx.Bool(flags.ErrorCountsAsFailure.Name) {
		opts = append(opts, reporter.WithErrorPolicy(reporter.ErrorCountsAsFailure))
	}
	rep := reporter.New(opts...)
	for _, name := range ctx.StringSlice(flags.UnsupportedRunner.Name) {
		rep.RegisterUnsupportedRunner(name)
	}

	if addr := ctx.String(flags.MetricsAddr.Name); addr != "" {
		svc := service.New(addr)
		svc.Start(ctx.Context)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			svc.Shutdown(shutdownCtx)
		}()
	}

	driver := runner.NewDriverWithID(rep, logger, runID)
	if err := driver.Run(ctx.Context, stream); err != nil {
		return asuite.NewRuntimeError(fmt.Errorf("failed to process outcome stream: %w", err))
	}

	code := rep.PrintSummary()
	stats := rep.Stats()
	if err := fileLogger.WriteSummary(fmt.Sprintf(
		"run_id=%s passed=%d failed=%d run_errors=%v exit=%d\n",
		runID, stats.Passed, stats.Failed, stats.RunErrors, code)); err != nil {
		logger.Warn("Failed to write summary log", "err", err)
	}

	switch code {
	case exitcodes.Success:
		return nil
	case exitcodes.TestFailure:
		return asuite.NewTestFailureError(fmt.Sprintf("%d test(s) failed", stats.Failed))
	default:
		return asuite.NewRuntimeError(errors.New("test run reported runner-level errors"))
	}
}

// openStream resolves the --results flag: '-' reads the event stream from
// stdin, anything else is a file path.
func openStream(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open outcome stream %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
