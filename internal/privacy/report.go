package privacy

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RenderReport writes a human-readable summary of privacy candidates for
// one file. Safe renames print green, vetoed ones yellow with their
// reasons.
func RenderReport(w io.Writer, path string, candidates []Candidate) {
	if len(candidates) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", path)
	safe := color.New(color.FgGreen)
	unsafe := color.New(color.FgYellow)

	for _, cand := range candidates {
		if cand.IsSafe {
			safe.Fprintf(w, "  %s → %s (%d references)\n",
				cand.OldName, cand.NewName, len(cand.References))
			continue
		}
		unsafe.Fprintf(w, "  %s: cannot rename automatically\n", cand.OldName)
		for _, issue := range cand.SafetyIssues {
			fmt.Fprintf(w, "    - %s\n", issue)
		}
	}
}

// RenderEmpty writes the nothing-to-do message for a whole run.
func RenderEmpty(w io.Writer) {
	fmt.Fprintln(w, "No functions found that need privacy fixes.")
}
