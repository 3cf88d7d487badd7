package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "ASUITE"

// prefixEnvVars names the environment variable backing a flag.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

// atest flags
var (
	Results = &cli.StringFlag{
		Name:    "results",
		Value:   "-",
		EnvVars: prefixEnvVars("RESULTS"),
		Usage:   "Path to the outcome event stream, or '-' for stdin",
	}
	UnsupportedRunner = &cli.StringSliceFlag{
		Name:    "unsupported-runner",
		EnvVars: prefixEnvVars("UNSUPPORTED_RUNNER"),
		Usage:   "Runner to pre-register as unsupported (repeatable)",
	}
	LogDir = &cli.StringFlag{
		Name:    "log-dir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOG_DIR"),
		Usage:   "Directory to store the per-run log files",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics-addr",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Serve /healthz and /metrics on this address during the run (e.g. '127.0.0.1:7300')",
	}
	ErrorCountsAsFailure = &cli.BoolFlag{
		Name:    "error-counts-as-failure",
		Value:   false,
		EnvVars: prefixEnvVars("ERROR_COUNTS_AS_FAILURE"),
		Usage:   "Also count test-scoped ERROR outcomes as failed tests",
	}
)

// aidegen flags
var (
	Depth = &cli.IntFlag{
		Name:    "depth",
		Aliases: []string{"d"},
		Value:   0,
		EnvVars: prefixEnvVars("DEPTH"),
		Usage:   "The depth of module referenced by source (0-9)",
	}
	IDE = &cli.StringFlag{
		Name:    "ide",
		Aliases: []string{"i"},
		Value:   "j",
		EnvVars: prefixEnvVars("IDE"),
		Usage:   "IDE type to generate for, j: IntelliJ, s: Android Studio, e: Eclipse",
	}
	IDEPath = &cli.StringFlag{
		Name:    "ide-path",
		Aliases: []string{"p"},
		EnvVars: prefixEnvVars("IDE_PATH"),
		Usage:   "Exact IDE executable path, skipping discovery",
	}
	NoLaunch = &cli.BoolFlag{
		Name:    "no-launch",
		Aliases: []string{"n"},
		EnvVars: prefixEnvVars("NO_LAUNCH"),
		Usage:   "Generate project files only, do not launch the IDE",
	}
	SkipBuild = &cli.BoolFlag{
		Name:    "skip-build",
		Aliases: []string{"s"},
		EnvVars: prefixEnvVars("SKIP_BUILD"),
		Usage:   "Skip rebuilding the module metadata and reuse the existing snapshot",
	}
	ConfigReset = &cli.BoolFlag{
		Name:    "config-reset",
		Aliases: []string{"r"},
		EnvVars: prefixEnvVars("CONFIG_RESET"),
		Usage:   "Reset saved aidegen preferences",
	}
	AndroidTree = &cli.BoolFlag{
		Name:    "android-tree",
		Aliases: []string{"a"},
		EnvVars: prefixEnvVars("ANDROID_TREE"),
		Usage:   "Generate a project for the whole source tree instead of individual modules",
	}
	ModuleInfo = &cli.StringFlag{
		Name:    "module-info",
		EnvVars: prefixEnvVars("MODULE_INFO"),
		Usage:   "Path to module-info.json, overriding the out-dir default",
	}
)

// shared flags
var (
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		EnvVars: prefixEnvVars("VERBOSE"),
		Usage:   "Display DEBUG level logging",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (trace, debug, info, warn, error)",
	}
)

// AtestFlags is the flag set of the atest binary.
var AtestFlags = []cli.Flag{
	Results,
	UnsupportedRunner,
	LogDir,
	MetricsAddr,
	ErrorCountsAsFailure,
	Verbose,
	LogLevel,
}

// AidegenFlags is the flag set of the aidegen binary.
var AidegenFlags = []cli.Flag{
	Depth,
	IDE,
	IDEPath,
	NoLaunch,
	SkipBuild,
	ConfigReset,
	AndroidTree,
	ModuleInfo,
	Verbose,
	LogLevel,
}

// CheckAidegen validates flag combinations that urfave/cli cannot express.
func CheckAidegen(ctx *cli.Context) error {
	depth := ctx.Int(Depth.Name)
	if depth < 0 || depth > 9 {
		return fmt.Errorf("flag %s must be within 0-9, got %d", Depth.Name, depth)
	}
	switch ide := ctx.String(IDE.Name); ide {
	case "j", "s", "e":
	default:
		return fmt.Errorf("flag %s must be one of j, s, e, got %q", IDE.Name, ide)
	}
	return nil
}
