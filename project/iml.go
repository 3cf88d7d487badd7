package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template tokens replaced during iml generation, matching the layout the
// IDE expects section by section.
const (
	facetToken     = "@FACETS@"
	sourceToken    = "@SOURCES@"
	moduleDepToken = "@MODULE_DEPENDENCIES@"
)

const imlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<module type="JAVA_MODULE" version="4">
@FACETS@  <component name="NewModuleRootManager" inherit-compiler-output="true">
    <exclude-output />
@SOURCES@    <orderEntry type="sourceFolder" forTests="false" />
@MODULE_DEPENDENCIES@    <orderEntry type="inheritedJdk" />
  </component>
</module>
`

const androidFacet = `  <component name="FacetManager">
    <facet type="android" name="Android">
      <configuration>
        <option name="GEN_FOLDER_RELATIVE_PATH_APT" value="/gen" />
        <option name="GEN_FOLDER_RELATIVE_PATH_AIDL" value="/gen" />
        <option name="MANIFEST_FILE_RELATIVE_PATH" value="/AndroidManifest.xml" />
        <option name="RES_FOLDER_RELATIVE_PATH" value="/res" />
        <option name="ASSETS_FOLDER_RELATIVE_PATH" value="/assets" />
      </configuration>
    </facet>
  </component>
`

// DependenciesModuleName names the shared iml holding jar dependencies so
// the main module file stays readable.
const DependenciesModuleName = "dependencies"

// GenerateIML writes <module>.iml and dependencies.iml into the module's
// directory and returns their paths.
func GenerateIML(p *Project) (imlPath string, depsPath string, err error) {
	content := imlTemplate

	content = strings.Replace(content, facetToken, handleFacet(p.ModulePath), 1)
	content = strings.Replace(content, sourceToken, handleSourceFolders(p), 1)
	content = strings.Replace(content, moduleDepToken, handleModuleDependencies(), 1)

	imlPath = filepath.Join(p.ModulePath, p.ModuleName+".iml")
	if err = os.WriteFile(imlPath, []byte(content), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", imlPath, err)
	}

	depsPath = filepath.Join(p.ModulePath, DependenciesModuleName+".iml")
	if err = os.WriteFile(depsPath, []byte(dependenciesIML(p)), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", depsPath, err)
	}
	return imlPath, depsPath, nil
}

// handleFacet emits the Android facet when the module directory carries an
// AndroidManifest.xml, otherwise nothing.
func handleFacet(modulePath string) string {
	manifest := filepath.Join(modulePath, "AndroidManifest.xml")
	if _, err := os.Stat(manifest); err != nil {
		return ""
	}
	return androidFacet
}

// handleSourceFolders renders one content root per content URL with its
// sourceFolder children nested inside.
func handleSourceFolders(p *Project) string {
	var sb strings.Builder
	sources := p.SourceList()
	for _, url := range p.ContentURLs() {
		sb.WriteString(fmt.Sprintf("    <content url=\"%s\">\n", fileURL(p.AndroidRoot, url)))
		for _, src := range sources {
			if src != url && !strings.HasPrefix(src, url+"/") {
				continue
			}
			sb.WriteString(fmt.Sprintf(
				"      <sourceFolder url=\"%s\" isTestSource=\"%t\" />\n",
				fileURL(p.AndroidRoot, src), p.SourceDirs[src]))
		}
		sb.WriteString("    </content>\n")
	}
	return sb.String()
}

// fileURL joins a tree-relative dir onto the root; "." addresses the root
// itself (whole-tree projects).
func fileURL(root, rel string) string {
	if rel == "." || rel == "" {
		return "file://" + root
	}
	return "file://" + root + "/" + rel
}

// handleModuleDependencies links the shared dependencies module.
func handleModuleDependencies() string {
	return fmt.Sprintf("    <orderEntry type=\"module\" module-name=\"%s\" />\n",
		DependenciesModuleName)
}

// dependenciesIML renders the jar-only module the main iml links against.
func dependenciesIML(p *Project) string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<module type=\"JAVA_MODULE\" version=\"4\">\n")
	sb.WriteString("  <component name=\"NewModuleRootManager\" inherit-compiler-output=\"true\">\n")
	sb.WriteString("    <exclude-output />\n")
	for _, jar := range p.JarDeps {
		sb.WriteString("    <orderEntry type=\"module-library\" exported=\"\">\n")
		sb.WriteString("      <library>\n")
		sb.WriteString("        <CLASSES>\n")
		sb.WriteString(fmt.Sprintf("          <root url=\"jar://%s/%s!/\" />\n", p.AndroidRoot, jar))
		sb.WriteString("        </CLASSES>\n")
		sb.WriteString("        <JAVADOC />\n")
		sb.WriteString("        <SOURCES />\n")
		sb.WriteString("      </library>\n")
		sb.WriteString("    </orderEntry>\n")
	}
	sb.WriteString("    <orderEntry type=\"inheritedJdk\" />\n")
	sb.WriteString("  </component>\n")
	sb.WriteString("</module>\n")
	return sb.String()
}
