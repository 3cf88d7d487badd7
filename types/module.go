package types

import "path/filepath"

// ModuleInfo describes one Android build module as reported by the build
// system's module-info.json. The metadata is treated as a read-only source;
// aidegen only ever inspects it to assemble a project model.
type ModuleInfo struct {
	Name         string   `json:"module_name"`
	Path         []string `json:"path,omitempty"`
	Srcs         []string `json:"srcs,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Installed    []string `json:"installed,omitempty"`
	Class        []string `json:"class,omitempty"`
}

// RelPath returns the module's primary path relative to the tree root, or
// an empty string when the build system reported no path for it.
func (m *ModuleInfo) RelPath() string {
	if len(m.Path) == 0 {
		return ""
	}
	return m.Path[0]
}

// AbsPath resolves the module's primary path against the tree root.
func (m *ModuleInfo) AbsPath(root string) string {
	rel := m.RelPath()
	if rel == "" {
		return ""
	}
	return filepath.Join(root, rel)
}

// HasClass reports whether the build system tagged the module with the
// given class (e.g. "APPS", "JAVA_LIBRARIES").
func (m *ModuleInfo) HasClass(class string) bool {
	for _, c := range m.Class {
		if c == class {
			return true
		}
	}
	return false
}
