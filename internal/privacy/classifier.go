// Package privacy classifies declaration visibility from cross-module
// usage and performs conservative automatic renames.
package privacy

import (
	"pysort/internal/pyast"
	"pysort/internal/sorting"
	"pysort/internal/usage"
)

// DefaultPublicPatterns are names always treated as public API. Entry
// points and framework callbacks are invoked from outside the project
// and never show up in import analysis.
var DefaultPublicPatterns = []string{
	"main",
	"run",
	"execute",
	"start",
	"stop",
	"setup",
	"teardown",
}

// Classifier recommends visibility changes from a usage graph snapshot.
// It is a pure read of the graph and performs no mutation.
type Classifier struct {
	graph  usage.Graph
	exempt map[string]struct{}
}

// NewClassifier creates a classifier over a graph snapshot. An empty
// publicPatterns list selects the defaults.
func NewClassifier(graph usage.Graph, publicPatterns []string) *Classifier {
	if len(publicPatterns) == 0 {
		publicPatterns = DefaultPublicPatterns
	}
	exempt := make(map[string]struct{}, len(publicPatterns))
	for _, name := range publicPatterns {
		exempt[name] = struct{}{}
	}
	return &Classifier{graph: graph, exempt: exempt}
}

// ShouldBePrivate reports whether a public declaration is consumed by no
// module other than its own and should be renamed with a leading
// underscore. Already-private names, dunder methods, and exempted names
// are never flagged.
func (c *Classifier) ShouldBePrivate(decl *pyast.Declaration, moduleName string) bool {
	if sorting.IsPrivateName(decl.Name) || sorting.IsDunderName(decl.Name) {
		return false
	}
	if _, ok := c.exempt[decl.Name]; ok {
		return false
	}
	return !c.graph.UsedOutside(decl.Name, moduleName)
}

// ShouldBePublic reports whether a private declaration is consumed by at
// least one other module and should lose its underscore prefix.
func (c *Classifier) ShouldBePublic(decl *pyast.Declaration, moduleName string) bool {
	if !sorting.IsPrivateName(decl.Name) {
		return false
	}
	return c.graph.UsedOutside(decl.Name, moduleName)
}
