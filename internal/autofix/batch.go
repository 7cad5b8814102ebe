package autofix

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
)

// Outcome records what happened to one file during a batch run.
type Outcome struct {
	Path     string
	Modified bool
	Err      error
}

// Summary aggregates a batch run. RunID ties log lines from one
// invocation together.
type Summary struct {
	RunID     string
	Processed int
	Modified  int
	Errored   int
	Outcomes  []Outcome
}

// SortFiles runs the sorter over each path. Non-Python files are skipped
// and a failure on one file never aborts the rest of the batch.
func (s *Sorter) SortFiles(ctx context.Context, paths []string) Summary {
	summary := Summary{RunID: uuid.NewString()}

	for _, path := range paths {
		if filepath.Ext(path) != ".py" {
			continue
		}

		modified, err := s.SortFile(ctx, path)
		summary.Processed++
		outcome := Outcome{Path: path, Modified: modified, Err: err}
		if err != nil {
			summary.Errored++
			s.logger.Warn("skipping file after error", map[string]interface{}{
				"run":   summary.RunID,
				"file":  path,
				"error": err.Error(),
			})
		} else if modified {
			summary.Modified++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	s.logger.Info("batch complete", map[string]interface{}{
		"run":       summary.RunID,
		"processed": summary.Processed,
		"modified":  summary.Modified,
		"errors":    summary.Errored,
	})
	return summary
}
