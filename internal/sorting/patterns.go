package sorting

import (
	"sync"

	"github.com/gobwas/glob"
)

var globCache = struct {
	sync.Mutex
	compiled map[string]glob.Glob
}{compiled: map[string]glob.Glob{}}

// NameMatchesPattern reports whether a declaration name matches a glob
// pattern (fnmatch semantics: * and ? match any characters, including
// underscores and dots).
func NameMatchesPattern(name string, pattern string) bool {
	g, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return g.Match(name)
}

func compilePattern(pattern string) (glob.Glob, error) {
	globCache.Lock()
	defer globCache.Unlock()

	if g, ok := globCache.compiled[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	globCache.compiled[pattern] = g
	return g, nil
}
