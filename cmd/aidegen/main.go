package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	asuite "github.com/TinkerBoard2-Android/tools-asuite"
	"github.com/TinkerBoard2-Android/tools-asuite/exitcodes"
	"github.com/TinkerBoard2-Android/tools-asuite/flags"
	"github.com/TinkerBoard2-Android/tools-asuite/logging"
)

var (
	Version   = "v1.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "aidegen"
	app.Usage = "Android IDE project file generator"
	app.Description = "aidegen generates IntelliJ, Android Studio or Eclipse project files for source tree modules"
	app.ArgsUsage = "[targets...]"
	app.Flags = flags.AidegenFlags
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

	// Telemetry export is opt-in through the OTEL environment; without it
	// the spans stay local and this is a no-op.
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Warn("Failed to set up telemetry", "err", err)
	} else {
		defer otelShutdown()
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
		return err
	}

	cfg, err := asuite.NewConfig(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	gen, err := asuite.NewGenerator(cfg)
	if err != nil {
		return asuite.NewRuntimeError(err)
	}
	return gen.Run(ctx.Context)
}
