package usage

import (
	"os"
	"path/filepath"
	"testing"

	"pysort/internal/logging"
)

func writeProjectFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func quietLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
}

func TestBuildGraph(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/utils.py", `def helper():
    return 1


def _internal():
    return 2
`)
	writeProjectFile(t, root, "fmtutil.py", "def format_row():\n    return \"row\"\n")
	writeProjectFile(t, root, "src/api.py", `from src.utils import helper

import fmtutil


def handle():
    return helper() + fmtutil.format_row()
`)
	writeProjectFile(t, root, "src/__init__.py", "from src.utils import helper\n")
	writeProjectFile(t, root, "tests/test_utils.py", "from src.utils import _internal\n")

	builder := NewBuilder(TestDetection{}, nil, quietLogger())
	graph, err := builder.Build(root)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !graph.UsedOutside("helper", "src.utils") {
		t.Error("helper is imported by src.api, expected an edge")
	}
	if !graph.UsedOutside("format_row", "fmtutil") {
		t.Error("format_row is reached through module attribute access")
	}

	// Only the test module touches _internal, and test modules are skipped.
	if graph.UsedOutside("_internal", "src.utils") {
		t.Errorf("_internal consumers = %v, test modules must not count", graph.Consumers("_internal"))
	}

	// __init__ re-exports do not count as usage either.
	for _, consumer := range graph.Consumers("helper") {
		if consumer == "src.__init__" || consumer == "src" {
			t.Errorf("helper consumers include re-exporting module: %v", graph.Consumers("helper"))
		}
	}
}

func TestBuildSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/utils.py", "def helper():\n    return 1\n")
	writeProjectFile(t, root, "legacy/old.py", "from src.utils import helper\n")

	builder := NewBuilder(TestDetection{}, []string{"legacy"}, quietLogger())
	graph, err := builder.Build(root)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if graph.UsedOutside("helper", "src.utils") {
		t.Errorf("excluded directory still contributed edges: %v", graph.Consumers("helper"))
	}
}

func TestBuildToleratesBrokenFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/utils.py", "def helper():\n    return 1\n")
	writeProjectFile(t, root, "src/broken.py", "def broken(:\n")
	writeProjectFile(t, root, "src/api.py", "from src.utils import helper\n")

	builder := NewBuilder(TestDetection{}, nil, quietLogger())
	graph, err := builder.Build(root)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !graph.UsedOutside("helper", "src.utils") {
		t.Error("parse failure in one file must not drop edges from others")
	}
}

func TestFindPythonFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/api.py", "")
	writeProjectFile(t, root, "src/__pycache__/api.cpython-312.py", "")
	writeProjectFile(t, root, "venv/lib/site.py", "")
	writeProjectFile(t, root, "README.md", "")

	files, err := FindPythonFiles(root, nil)
	if err != nil {
		t.Fatalf("FindPythonFiles() error = %v", err)
	}

	if len(files) != 1 || filepath.Base(files[0]) != "api.py" {
		t.Errorf("FindPythonFiles() = %v, want only src/api.py", files)
	}
}
