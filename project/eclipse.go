package project

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

var eclipseProjectTemplate = template.Must(template.New("project").Parse(
	`<?xml version="1.0" encoding="UTF-8"?>
<projectDescription>
  <name>{{.Name}}</name>
  <comment></comment>
  <projects></projects>
  <buildSpec>
    <buildCommand>
      <name>org.eclipse.jdt.core.javabuilder</name>
      <arguments></arguments>
    </buildCommand>
  </buildSpec>
  <natures>
    <nature>org.eclipse.jdt.core.javanature</nature>
  </natures>
</projectDescription>
`))

var eclipseClasspathTemplate = template.Must(template.New("classpath").Parse(
	`<?xml version="1.0" encoding="UTF-8"?>
<classpath>
{{- range .Sources}}
  <classpathentry kind="src" path="{{.}}" />
{{- end}}
{{- range .Jars}}
  <classpathentry kind="lib" path="{{.}}" />
{{- end}}
  <classpathentry kind="con" path="org.eclipse.jdt.launching.JRE_CONTAINER" />
  <classpathentry kind="output" path="bin" />
</classpath>
`))

// GenerateEclipse writes the .project and .classpath files for the module.
// Source and jar paths are emitted absolute so the project works from any
// Eclipse workspace location.
func GenerateEclipse(p *Project) error {
	projectFile := filepath.Join(p.ModulePath, ".project")
	f, err := os.Create(projectFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", projectFile, err)
	}
	if err := eclipseProjectTemplate.Execute(f, struct{ Name string }{Name: p.ModuleName}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", projectFile, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	sources := make([]string, 0, len(p.SourceDirs))
	for _, src := range p.SourceList() {
		sources = append(sources, filepath.Join(p.AndroidRoot, src))
	}
	jars := make([]string, 0, len(p.JarDeps))
	for _, jar := range p.JarDeps {
		jars = append(jars, filepath.Join(p.AndroidRoot, jar))
	}

	classpathFile := filepath.Join(p.ModulePath, ".classpath")
	f, err = os.Create(classpathFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", classpathFile, err)
	}
	defer f.Close()
	return eclipseClasspathTemplate.Execute(f, struct {
		Sources []string
		Jars    []string
	}{Sources: sources, Jars: jars})
}
