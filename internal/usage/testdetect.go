package usage

import (
	"strings"

	"pysort/internal/sorting"
)

// TestDetection configures which modules count as test-like. Test
// modules reach into internals and do not indicate a public API, so the
// usage graph ignores them.
type TestDetection struct {
	// ExcludeDirs marks every module under these directories as test-like.
	ExcludeDirs []string
	// ExcludePatterns are glob patterns matched against the module's
	// file path and filename.
	ExcludePatterns []string
	// AdditionalTestPatterns extend the built-in filename heuristics.
	AdditionalTestPatterns []string
	// OverrideTestDetection disables the built-in heuristics entirely,
	// leaving only the configured rules above.
	OverrideTestDetection bool
}

// IsTestModule reports whether a dotted module name looks like a test
// module, using the configured rules plus built-in heuristics (tests/
// directories, test_* and *_test filenames, conftest).
func IsTestModule(moduleName string, cfg TestDetection) bool {
	lower := strings.ToLower(moduleName)
	parts := strings.Split(lower, ".")

	for _, dir := range cfg.ExcludeDirs {
		if containsPart(parts, strings.ToLower(dir)) {
			return true
		}
	}

	for _, pattern := range cfg.ExcludePatterns {
		if matchesFilePattern(moduleName, pattern) {
			return true
		}
	}

	for _, pattern := range cfg.AdditionalTestPatterns {
		if matchesFilePattern(moduleName, pattern) {
			return true
		}
	}

	if cfg.OverrideTestDetection {
		return false
	}

	// Built-in heuristics
	if containsPart(parts, "tests") || containsPart(parts, "test") {
		return true
	}

	if len(parts) > 0 {
		filename := parts[len(parts)-1]
		if strings.HasPrefix(filename, "test_") ||
			strings.HasSuffix(filename, "_test") ||
			filename == "conftest" {
			return true
		}
	}

	// Permissive fallback: better to drop a test module's edges than to
	// count them as public API usage.
	return strings.Contains(lower, "test")
}

// matchesFilePattern matches a dotted module name against a file glob,
// checking both the full slash path and the bare filename, each with a
// .py suffix restored.
func matchesFilePattern(moduleName string, pattern string) bool {
	filePath := strings.ReplaceAll(moduleName, ".", "/") + ".py"
	if sorting.NameMatchesPattern(filePath, pattern) {
		return true
	}

	parts := strings.Split(moduleName, ".")
	filename := parts[len(parts)-1] + ".py"
	return sorting.NameMatchesPattern(filename, pattern)
}

func containsPart(parts []string, want string) bool {
	for _, part := range parts {
		if part == want {
			return true
		}
	}
	return false
}
