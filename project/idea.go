package project

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const ideaDirName = ".idea"

var modulesXMLTemplate = template.Must(template.New("modules").Parse(
	`<?xml version="1.0" encoding="UTF-8"?>
<project version="4">
  <component name="ProjectModuleManager">
    <modules>
{{- range .Modules}}
      <module fileurl="file://{{.}}" filepath="{{.}}" />
{{- end}}
    </modules>
  </component>
</project>
`))

var vcsXMLTemplate = template.Must(template.New("vcs").Parse(
	`<?xml version="1.0" encoding="UTF-8"?>
<project version="4">
  <component name="VcsDirectoryMappings">
    <mapping directory="{{.GitDir}}" vcs="Git" />
  </component>
</project>
`))

var miscXML = `<?xml version="1.0" encoding="UTF-8"?>
<project version="4">
  <component name="ProjectRootManager" version="2" languageLevel="JDK_1_8" project-jdk-name="JDK18" project-jdk-type="JavaSDK" />
</project>
`

var compilerXML = `<?xml version="1.0" encoding="UTF-8"?>
<project version="4">
  <component name="CompilerConfiguration">
    <option name="BUILD_PROCESS_HEAP_SIZE" value="2000" />
  </component>
</project>
`

var copyrightProfileXML = `<component name="CopyrightManager">
  <copyright>
    <option name="notice" value="Copyright (C) &amp;#36;today.year The Android Open Source Project&#10;&#10;Licensed under the Apache License, Version 2.0 (the &quot;License&quot;);&#10;you may not use this file except in compliance with the License.&#10;You may obtain a copy of the License at&#10;&#10;     http://www.apache.org/licenses/LICENSE-2.0&#10;&#10;Unless required by applicable law or agreed to in writing, software&#10;distributed under the License is distributed on an &quot;AS IS&quot; BASIS,&#10;WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.&#10;See the License for the specific language governing permissions and&#10;limitations under the License." />
    <option name="myName" value="Apache 2" />
  </copyright>
</component>
`

var copyrightSettingsXML = `<component name="CopyrightManager">
  <settings default="Apache 2" />
</component>
`

// GenerateIdeaDir writes the .idea project directory next to the module's
// iml files: modules.xml, vcs.xml, misc.xml, compiler.xml, the copyright
// profile and the display-name file.
func GenerateIdeaDir(p *Project, imlPaths ...string) error {
	ideaDir := filepath.Join(p.ModulePath, ideaDirName)
	if err := os.MkdirAll(ideaDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", ideaDir, err)
	}

	if err := writeModulesXML(ideaDir, imlPaths); err != nil {
		return err
	}
	if err := writeVcsXML(ideaDir, p); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(ideaDir, "misc.xml"), []byte(miscXML), 0644); err != nil {
		return fmt.Errorf("failed to write misc.xml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(ideaDir, "compiler.xml"), []byte(compilerXML), 0644); err != nil {
		return fmt.Errorf("failed to write compiler.xml: %w", err)
	}
	if err := writeCopyrightDir(ideaDir); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(ideaDir, ".name"), []byte(p.ModuleName), 0644); err != nil {
		return fmt.Errorf("failed to write .name: %w", err)
	}
	return nil
}

// writeCopyrightDir installs the AOSP copyright profile as the project
// default so new files get the Apache 2 header.
func writeCopyrightDir(ideaDir string) error {
	dir := filepath.Join(ideaDir, "copyright")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Apache_2.xml"), []byte(copyrightProfileXML), 0644); err != nil {
		return fmt.Errorf("failed to write copyright profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profiles_settings.xml"), []byte(copyrightSettingsXML), 0644); err != nil {
		return fmt.Errorf("failed to write copyright settings: %w", err)
	}
	return nil
}

func writeModulesXML(ideaDir string, imlPaths []string) error {
	path := filepath.Join(ideaDir, "modules.xml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return modulesXMLTemplate.Execute(f, struct{ Modules []string }{Modules: imlPaths})
}

// writeVcsXML maps the project to the git repository that owns the module
// directory, falling back to the module directory itself.
func writeVcsXML(ideaDir string, p *Project) error {
	gitDir := p.ModulePath
	for dir := p.ModulePath; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			gitDir = dir
			break
		}
		if dir == p.AndroidRoot {
			break
		}
	}

	path := filepath.Join(ideaDir, "vcs.xml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return vcsXMLTemplate.Execute(f, struct{ GitDir string }{GitDir: gitDir})
}
