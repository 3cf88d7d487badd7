package sdk

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

const (
	jdkVersionName   = "JDK18"
	javaSDKType      = "JavaSDK"
	androidSDKType   = "Android SDK"
	componentName    = "ProjectJdkTable"
	componentCloser  = "</component>"
	lastEntryIndent  = "\n    "
	closingTagIndent = "\n  "
)

// defaultJDKContent is the <jdk> entry appended when no JDK18 entry exists.
// %[1]s is the JDK home path.
const defaultJDKContent = `<jdk version="2">
      <name value="JDK18" />
      <type value="JavaSDK" />
      <version value="java version &quot;1.8.0&quot;" />
      <homePath value="%[1]s" />
      <additional />
    </jdk>`

// defaultAndroidSDKContent is the <jdk> entry appended when no valid
// Android SDK entry exists. %[1]s is the SDK home path, %[2]s the platform
// (e.g. android-29), %[3]d the API level.
const defaultAndroidSDKContent = `<jdk version="2">
      <name value="Android API %[3]d Platform" />
      <type value="Android SDK" />
      <homePath value="%[1]s" />
      <additional jdk="JDK18" sdk="%[2]s" />
    </jdk>`

// jdkEntry mirrors one <jdk> element for scanning. Pointer fields tell a
// missing child apart from an empty one.
type jdkEntry struct {
	Name       *attrValue      `xml:"name"`
	Type       *attrValue      `xml:"type"`
	HomePath   *attrValue      `xml:"homePath"`
	Additional *additionalElem `xml:"additional"`
}

type attrValue struct {
	Value string `xml:"value,attr"`
}

type additionalElem struct {
	SDK string `xml:"sdk,attr"`
}

type componentElem struct {
	Name string     `xml:"name,attr"`
	JDKs []jdkEntry `xml:"jdk"`
}

type applicationElem struct {
	XMLName    xml.Name        `xml:"application"`
	Components []componentElem `xml:"component"`
}

// JDKTable performs the idempotent "ensure entry exists" patch on the IDE's
// jdk.table.xml: parse, scan for the JDK18 and Android SDK entries, append
// whichever is missing, and rewrite the file only when something changed.
type JDKTable struct {
	configFile     string
	jdkPath        string
	androidSDKPath string
	logger         log.Logger

	raw               string
	parsed            *applicationElem
	androidSDKVersion string
	platformVersion   string
	modified          bool
}

// NewJDKTable creates a patcher for configFile. jdkPath is the JDK home to
// register; androidSDKPath is the default SDK location used when no valid
// Android SDK entry is present yet.
func NewJDKTable(configFile, jdkPath, androidSDKPath string, logger log.Logger) *JDKTable {
	return &JDKTable{
		configFile:     configFile,
		jdkPath:        jdkPath,
		androidSDKPath: androidSDKPath,
		logger:         logger,
	}
}

// AndroidSDKVersion returns the display name of the Android SDK entry
// (e.g. "Android API 29 Platform") once Config has succeeded.
func (j *JDKTable) AndroidSDKVersion() string {
	return j.androidSDKVersion
}

// Config runs the patch. It returns true when an Android SDK entry (existing
// or newly written) is available for debugger configuration.
func (j *JDKTable) Config() (bool, error) {
	if err := j.load(); err != nil {
		return false, err
	}
	if err := j.checkStructure(); err != nil {
		return false, err
	}

	j.ensureJDKConfig()
	j.ensureAndroidSDKConfig()

	if j.modified {
		if err := os.WriteFile(j.configFile, []byte(j.raw), 0644); err != nil {
			return false, fmt.Errorf("failed to write %s: %w", j.configFile, err)
		}
		j.logger.Debug("Updated jdk.table.xml", "file", j.configFile)
	}
	return j.androidSDKVersion != "", nil
}

func (j *JDKTable) load() error {
	data, err := os.ReadFile(j.configFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", j.configFile, err)
	}
	j.raw = string(data)

	var app applicationElem
	if err := xml.Unmarshal(data, &app); err != nil {
		return fmt.Errorf("failed to parse %s: %w", j.configFile, err)
	}
	j.parsed = &app
	return nil
}

// checkStructure verifies the expected skeleton: a root <application> with
// a <component name="ProjectJdkTable"> child.
func (j *JDKTable) checkStructure() error {
	for _, c := range j.parsed.Components {
		if c.Name == componentName {
			return nil
		}
	}
	return fmt.Errorf("%s has no <component name=%q> element", j.configFile, componentName)
}

func (j *JDKTable) projectJdkComponent() *componentElem {
	for i := range j.parsed.Components {
		if j.parsed.Components[i].Name == componentName {
			return &j.parsed.Components[i]
		}
	}
	return nil
}

// ensureJDKConfig appends the JDK18 entry when it is absent.
func (j *JDKTable) ensureJDKConfig() {
	for _, entry := range j.projectJdkComponent().JDKs {
		if entry.Name == nil || entry.Type == nil {
			continue
		}
		if entry.Type.Value == javaSDKType && entry.Name.Value == jdkVersionName {
			return
		}
	}
	j.appendConfig(fmt.Sprintf(defaultJDKContent, j.jdkPath))
}

// ensureAndroidSDKConfig records the existing Android SDK entry when one is
// valid, otherwise appends one pointing at the default SDK path.
func (j *JDKTable) ensureAndroidSDKConfig() {
	for _, entry := range j.projectJdkComponent().JDKs {
		if entry.Name == nil || entry.Type == nil || entry.HomePath == nil || entry.Additional == nil {
			continue
		}
		if entry.Type.Value != androidSDKType {
			continue
		}
		homePath := strings.Replace(entry.HomePath.Value, "$USER_HOME$", os.Getenv("HOME"), 1)
		sdk, ok := NewAndroidSDK(homePath)
		if !ok {
			continue
		}
		if _, exists := sdk.PlatformMapping[entry.Additional.SDK]; !exists {
			continue
		}
		j.androidSDKVersion = entry.Name.Value
		j.platformVersion = entry.Additional.SDK
		return
	}

	sdk, ok := NewAndroidSDK(j.androidSDKPath)
	if !ok {
		j.logger.Warn("No valid Android SDK found, skipping SDK entry",
			"path", j.androidSDKPath)
		return
	}
	platform := sdk.MaxPlatform()
	level := sdk.MaxAPILevel()
	j.appendConfig(fmt.Sprintf(defaultAndroidSDKContent, j.androidSDKPath, platform, level))
	j.androidSDKVersion = fmt.Sprintf("Android API %d Platform", level)
	j.platformVersion = platform
}

// appendConfig splices a new <jdk> entry in front of the component's
// closing tag, preserving the rest of the document byte for byte.
func (j *JDKTable) appendConfig(entry string) {
	idx := strings.LastIndex(j.raw, componentCloser)
	if idx < 0 {
		return
	}
	head := strings.TrimRight(j.raw[:idx], " \t\n")
	j.raw = head + lastEntryIndent + entry + closingTagIndent + j.raw[idx:]
	j.modified = true

	// Keep the parsed view in sync so a second ensure pass sees the entry.
	var added jdkEntry
	if err := xml.Unmarshal([]byte(entry), &added); err == nil {
		c := j.projectJdkComponent()
		c.JDKs = append(c.JDKs, added)
	}
}
