package project

import (
	"sort"
	"strings"
)

// CollectContentURLs reduces a list of source directories to the content
// roots an IDE should mount. Paths sharing a common ancestor directory are
// folded into that ancestor, so sibling source trees end up under one root.
//
// e.g. [a/b/c/d, a/b/c/d/e, e/f/a, e/f/b/c] -> [a/b/c/d, e/f]
func CollectContentURLs(sources []string) []string {
	if len(sources) == 0 {
		return nil
	}
	sorted := make([]string, len(sources))
	copy(sorted, sources)
	sort.Strings(sorted)

	var urls []string
	candidate := sorted[0]
	for _, path := range sorted[1:] {
		common := commonDir(candidate, path)
		if common == "" {
			urls = append(urls, candidate)
			candidate = path
			continue
		}
		candidate = common
	}
	return append(urls, candidate)
}

// TrimSameRootSource drops every source directory that has a strict
// ancestor elsewhere in the list, keeping only the shortest roots.
//
// e.g. [a/b/c/d, a/b/c/d/e, a/b/c/d/e/f] -> [a/b/c/d]
func TrimSameRootSource(sources []string) []string {
	if len(sources) == 0 {
		return nil
	}
	sorted := make([]string, len(sources))
	copy(sorted, sources)
	sort.Strings(sorted)

	trimmed := []string{sorted[0]}
	for _, path := range sorted[1:] {
		last := trimmed[len(trimmed)-1]
		if strings.HasPrefix(path, last+"/") {
			continue
		}
		trimmed = append(trimmed, path)
	}
	return trimmed
}

// commonDir returns the deepest directory prefix shared by both paths, or
// an empty string when they diverge at the first element.
func commonDir(a, b string) string {
	aParts := strings.Split(a, "/")
	bParts := strings.Split(b, "/")
	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}
	var common []string
	for i := 0; i < n; i++ {
		if aParts[i] != bParts[i] {
			break
		}
		common = append(common, aParts[i])
	}
	return strings.Join(common, "/")
}
