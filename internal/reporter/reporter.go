// Package reporter renders scan results for consumption outside the engine.
// The engine itself mandates no on-disk format; these are the formats the CLI
// and web API expose.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
)

// Report is the serialized result of one similarity scan.
type Report struct {
	Root      string                   `json:"root"`
	Threshold int                      `json:"threshold"`
	Scanned   int                      `json:"scanned"`
	Groups    []dedupe.SimilarityGroup `json:"groups"`
	CreatedAt time.Time                `json:"created_at"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteText writes a human-readable report: one block per group, members with
// their similarity score and file size.
func WriteText(w io.Writer, report Report) error {
	if len(report.Groups) == 0 {
		_, err := fmt.Fprintln(w, "No similar images found.")
		return err
	}

	for i, group := range report.Groups {
		if _, err := fmt.Fprintf(w, "Group %d (hash %s, %d images)\n", i+1, group.ReferenceHash, len(group.Members)); err != nil {
			return err
		}
		for _, m := range group.Members {
			if _, err := fmt.Fprintf(w, "  %6.2f%%  %9d B  %s\n", m.Similarity, m.Size, m.Path); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d images scanned, %d groups found.\n", report.Scanned, len(report.Groups))
	return err
}
