// Package usage builds the cross-module usage graph for a Python
// project: which symbols are imported or referenced by which modules.
package usage

import "sort"

// Graph maps symbol names to the set of modules that consume them.
// A graph is a snapshot for one analysis run; it is never mutated
// concurrently and is discarded when the run ends.
type Graph map[string]map[string]struct{}

// Add records that module consumes symbol.
func (g Graph) Add(symbol string, module string) {
	consumers, ok := g[symbol]
	if !ok {
		consumers = map[string]struct{}{}
		g[symbol] = consumers
	}
	consumers[module] = struct{}{}
}

// UsedOutside reports whether symbol is consumed by any module other
// than the given one.
func (g Graph) UsedOutside(symbol string, module string) bool {
	for consumer := range g[symbol] {
		if consumer != module {
			return true
		}
	}
	return false
}

// Consumers returns the sorted module names consuming symbol.
func (g Graph) Consumers(symbol string) []string {
	consumers := make([]string, 0, len(g[symbol]))
	for module := range g[symbol] {
		consumers = append(consumers, module)
	}
	sort.Strings(consumers)
	return consumers
}
