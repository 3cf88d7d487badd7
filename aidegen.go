package asuite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/TinkerBoard2-Android/tools-asuite/project"
	"github.com/TinkerBoard2-Android/tools-asuite/registry"
	"github.com/TinkerBoard2-Android/tools-asuite/sdk"
)

const tracerName = "aidegen"

// Generator runs the aidegen pipeline: registry load, project model build,
// file emission, jdk.table.xml patch and IDE launch.
type Generator struct {
	cfg    *Config
	logger log.Logger
	tracer trace.Tracer
}

// NewGenerator validates the config and creates the pipeline.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}
	return &Generator{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Run generates project files for every target and launches the IDE unless
// configured otherwise. Returns a RuntimeError for environment problems so
// the CLI maps them to exit code 2.
func (g *Generator) Run(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "aidegen.generate",
		trace.WithAttributes(
			attribute.StringSlice("targets", g.cfg.Targets),
			attribute.String("ide", g.cfg.IDE.String()),
			attribute.Int("depth", g.cfg.Depth),
		))
	defer span.End()

	if _, err := os.Stat(g.cfg.ModuleInfoFile); err != nil {
		if g.cfg.SkipBuild {
			return NewRuntimeError(fmt.Errorf(
				"module metadata %s not found and --skip-build is set; run the build first",
				g.cfg.ModuleInfoFile))
		}
		return NewRuntimeError(fmt.Errorf(
			"module metadata %s not found; build the tree (or pass --module-info) first: %w",
			g.cfg.ModuleInfoFile, err))
	}

	reg, err := registry.NewRegistry(registry.Config{
		Log:            g.logger,
		ModuleInfoFile: g.cfg.ModuleInfoFile,
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	projects, err := g.buildProjects(reg)
	if err != nil {
		return err
	}

	for _, p := range projects {
		if err := g.emit(p); err != nil {
			return NewRuntimeError(err)
		}
		g.logger.Info("Generated project files", "module", p.ModuleName, "dir", p.ModulePath)
	}

	if g.cfg.IDE != IDEEclipse {
		g.configureSDK()
	}

	if !g.cfg.NoLaunch && len(projects) > 0 {
		g.launch(ctx, projects[0].ModulePath)
	}
	return nil
}

// buildProjects resolves every target into a project model. Target
// resolution failures are user errors, not runtime errors.
func (g *Generator) buildProjects(reg *registry.Registry) ([]*project.Project, error) {
	if g.cfg.AndroidTree {
		return []*project.Project{g.wholeTreeProject()}, nil
	}

	builder := project.NewBuilder(reg, g.cfg.AndroidRoot, g.cfg.Depth, g.logger)
	projects := make([]*project.Project, 0, len(g.cfg.Targets))
	for _, target := range g.cfg.Targets {
		if target == "." {
			target = g.relativeCwd()
		}
		p, err := builder.Build(target)
		if err != nil {
			return nil, fmt.Errorf("cannot generate project for %q: %w", target, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// wholeTreeProject mounts the entire source tree as one content root.
func (g *Generator) wholeTreeProject() *project.Project {
	root := g.cfg.AndroidRoot
	return &project.Project{
		ModuleName:  filepath.Base(root),
		AndroidRoot: root,
		ModulePath:  root,
		SourceDirs:  map[string]bool{".": false},
	}
}

// relativeCwd maps the working directory onto a tree-relative target path.
func (g *Generator) relativeCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	rel, err := filepath.Rel(g.cfg.AndroidRoot, cwd)
	if err != nil {
		return "."
	}
	return rel
}

func (g *Generator) emit(p *project.Project) error {
	switch g.cfg.IDE {
	case IDEEclipse:
		return project.GenerateEclipse(p)
	default:
		imlPath, depsPath, err := project.GenerateIML(p)
		if err != nil {
			return err
		}
		return project.GenerateIdeaDir(p, imlPath, depsPath)
	}
}

// configureSDK patches the IDE's jdk.table.xml so the Android debugger
// works. Failures are logged, not fatal: the generated project is still
// usable without the debugger entries.
func (g *Generator) configureSDK() {
	tablePath := g.jdkTablePath()
	if tablePath == "" {
		g.logger.Warn("No jdk.table.xml found, skipping JDK/SDK setup",
			"ide", g.cfg.IDE.String())
		return
	}

	table := sdk.NewJDKTable(tablePath, g.jdkPath(), g.androidSDKPath(), g.logger)
	ok, err := table.Config()
	if err != nil {
		g.logger.Warn("Failed to configure jdk.table.xml", "file", tablePath, "err", err)
		return
	}
	if ok {
		g.logger.Info("Android SDK configured", "version", table.AndroidSDKVersion())
	}
}

// jdkTableGlobs are the per-IDE config locations scanned for the existing
// jdk.table.xml, newest install first by glob order.
var jdkTableGlobs = map[IDEType][]string{
	IDEIntelliJ: {
		".config/JetBrains/IdeaIC*/options/jdk.table.xml",
		".IdeaIC*/config/options/jdk.table.xml",
	},
	IDEAndroidStudio: {
		".config/Google/AndroidStudio*/options/jdk.table.xml",
		".AndroidStudio*/config/options/jdk.table.xml",
	},
}

func (g *Generator) jdkTablePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, glob := range jdkTableGlobs[g.cfg.IDE] {
		matches, err := filepath.Glob(filepath.Join(home, glob))
		if err != nil || len(matches) == 0 {
			continue
		}
		return matches[len(matches)-1]
	}
	return ""
}

func (g *Generator) jdkPath() string {
	if g.cfg.Preferences.JDKPath != "" {
		return g.cfg.Preferences.JDKPath
	}
	return filepath.Join(g.cfg.AndroidRoot, "prebuilts/jdk/jdk8/linux-x86")
}

func (g *Generator) androidSDKPath() string {
	if g.cfg.Preferences.AndroidSDKPath != "" {
		return g.cfg.Preferences.AndroidSDKPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Android/Sdk")
}

// launch starts the IDE; discovery or launch failures only advise the
// user, matching the "generate files even when the IDE is missing" flow.
func (g *Generator) launch(ctx context.Context, projectDir string) {
	_, span := g.tracer.Start(ctx, "aidegen.launch")
	defer span.End()

	idePath, err := FindIDE(g.cfg.IDE, g.cfg.IDEPath, g.logger)
	if err != nil {
		g.logger.Warn("IDE not launched", "err", err)
		fmt.Printf("Project files generated. %v\n", err)
		return
	}
	if err := LaunchIDE(idePath, projectDir, g.logger); err != nil {
		g.logger.Warn("IDE launch failed", "err", err)
	}
}
