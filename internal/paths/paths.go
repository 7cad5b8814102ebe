// Package paths provides project-relative path canonicalization and
// Python module name derivation.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CanonicalizePath converts a path to a project-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the project root
// - Converts backslashes to forward slashes
func CanonicalizePath(path string, projectRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = path
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(projectRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = projectRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// ModuleName derives the dotted Python module name for a file relative to
// the project root: "src/pkg/mod.py" becomes "src.pkg.mod".
func ModuleName(path string, projectRoot string) (string, error) {
	canonical, err := CanonicalizePath(path, projectRoot)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(canonical, "..") {
		return "", fmt.Errorf("path %s is outside project root %s", path, projectRoot)
	}

	canonical = strings.TrimSuffix(canonical, ".py")
	return strings.ReplaceAll(canonical, "/", "."), nil
}

// IsWithinProject checks if a path is within the project root
func IsWithinProject(path string, projectRoot string) bool {
	canonical, err := CanonicalizePath(path, projectRoot)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(canonical, "..")
}
