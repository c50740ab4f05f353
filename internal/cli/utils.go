// Package cli provides CLI output utilities for wikiport.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wikiport/wikiport/internal/importer"
	"github.com/wikiport/wikiport/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteResult writes one import result to w in the given format.
func WriteResult(w io.Writer, result *importer.Result, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		writeResultText(w, result)
		return nil
	}
}

func writeResultText(w io.Writer, result *importer.Result) {
	if result.Skipped {
		fmt.Fprintf(w, "%q already imported, skipped (use -force to re-import)\n", result.Title)
		return
	}
	fmt.Fprintf(w, "Imported %q: %d blocks across %d page(s)\n", result.Title, result.Blocks, result.Pages)
	fmt.Fprintf(w, "  collection: %s\n", result.CollectionID)
	fmt.Fprintf(w, "  primary:    %s\n", result.PrimaryID)
	fmt.Fprintf(w, "  status:     %s\n", result.Status)
}

// WriteRuns writes a run listing to w in the given format, newest first.
func WriteRuns(w io.Writer, runs []*models.Run, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	default:
		writeRunsText(w, runs)
		return nil
	}
}

func writeRunsText(w io.Writer, runs []*models.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No imports recorded")
		return
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-9s  %q (%d blocks, %d pages)\n",
			run.UpdatedAt.Format("2006-01-02 15:04:05"), run.Status, run.Title, run.Blocks, run.Pages)
		if run.Error != "" {
			fmt.Fprintf(w, "    error: %s\n", run.Error)
		}
	}
}
