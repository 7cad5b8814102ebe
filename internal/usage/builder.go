package usage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"pysort/internal/logging"
	"pysort/internal/paths"
	"pysort/internal/pyast"
)

// cacheSize bounds the per-file memoization so very large trees cannot
// grow memory without limit.
const cacheSize = 256

// builtinSkipDirs are directories never scanned: build artifacts,
// virtual environments, caches, vendor trees.
var builtinSkipDirs = map[string]struct{}{
	"__pycache__":   {},
	".git":          {},
	".tox":          {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	"node_modules":  {},
}

type fileKey struct {
	path  string
	mtime int64
}

type fileImports struct {
	symbols  []pyast.ImportedSymbol
	accesses []pyast.ImportedSymbol
}

// Builder scans a project tree and builds the usage graph. Per-file
// import extraction is memoized in a bounded LRU keyed by path and
// modification time, so repeated builds re-parse only changed files.
// A Builder is not safe for concurrent use.
type Builder struct {
	parser  *pyast.Parser
	cache   *lru.Cache[fileKey, fileImports]
	detect  TestDetection
	exclude []string
	logger  *logging.Logger
}

// NewBuilder creates a usage graph builder. excludeDirs extends the
// built-in directory skip list.
func NewBuilder(detect TestDetection, excludeDirs []string, logger *logging.Logger) *Builder {
	cache, _ := lru.New[fileKey, fileImports](cacheSize)
	return &Builder{
		parser:  pyast.NewParser(),
		cache:   cache,
		detect:  detect,
		exclude: excludeDirs,
		logger:  logger,
	}
}

// Build walks all Python files under projectRoot and returns the usage
// graph. Files that cannot be read or parsed contribute no edges and
// never abort the scan.
func (b *Builder) Build(projectRoot string) (Graph, error) {
	files, err := FindPythonFiles(projectRoot, b.exclude)
	if err != nil {
		return nil, err
	}

	graph := Graph{}
	scanned := 0

	for _, file := range files {
		moduleName, err := paths.ModuleName(file, projectRoot)
		if err != nil {
			continue
		}

		// __init__ modules re-export for API organization, they do not
		// indicate usage. Test modules reach into internals.
		if strings.HasSuffix(moduleName, "__init__") || IsTestModule(moduleName, b.detect) {
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		imports, ok := b.extract(file, info.ModTime().UnixNano())
		if !ok {
			continue
		}
		scanned++

		for _, symbol := range imports.symbols {
			graph.Add(symbol.Name, moduleName)
		}
		for _, access := range imports.accesses {
			graph.Add(access.Name, moduleName)
		}
	}

	b.logger.Debug("usage graph built", map[string]interface{}{
		"projectRoot": projectRoot,
		"files":       scanned,
		"symbols":     len(graph),
	})

	return graph, nil
}

// extract returns the cached import surface of a file, parsing it on a
// cache miss.
func (b *Builder) extract(path string, mtime int64) (fileImports, bool) {
	key := fileKey{path: path, mtime: mtime}
	if cached, ok := b.cache.Get(key); ok {
		return cached, true
	}

	source, err := os.ReadFile(path)
	if err != nil {
		b.logger.Debug("skipping unreadable file", map[string]interface{}{
			"file":  path,
			"error": err.Error(),
		})
		return fileImports{}, false
	}

	module, err := b.parser.Parse(context.Background(), source)
	if err != nil {
		b.logger.Debug("skipping unparseable file", map[string]interface{}{
			"file":  path,
			"error": err.Error(),
		})
		return fileImports{}, false
	}

	imports := pyast.ExtractImports(module)
	value := fileImports{symbols: imports.Symbols, accesses: imports.AttributeAccesses}
	b.cache.Add(key, value)
	return value, true
}

// FindPythonFiles returns all .py files under root, skipping the
// built-in directory list plus extraExclude, sorted for deterministic
// scan order.
func FindPythonFiles(root string, extraExclude []string) ([]string, error) {
	excluded := map[string]struct{}{}
	for _, dir := range extraExclude {
		excluded[dir] = struct{}{}
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries contribute nothing
		}
		if info.IsDir() {
			name := info.Name()
			if path == root {
				return nil
			}
			if _, skip := builtinSkipDirs[name]; skip {
				return filepath.SkipDir
			}
			if _, skip := excluded[name]; skip {
				return filepath.SkipDir
			}
			if strings.HasSuffix(name, ".egg-info") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".py" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
