package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jpickens/crosscheck/internal/groupdb"
	"github.com/jpickens/crosscheck/internal/model"
)

// Renderer writes run outputs to disk.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderDatabase writes the full serialized group database, the structure
// the persistence collaborators round-trip.
func (r *Renderer) RenderDatabase(db *groupdb.Database, path string) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable run summary.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reconciliation Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if report.InputPath != "" {
		fmt.Fprintf(&b, "- Input: `%s`\n", report.InputPath)
	}
	fmt.Fprintf(&b, "- Entities: %d, Groups: %d, Merged: %d\n\n", report.Entities, report.Groups, report.Merged)

	fmt.Fprintf(&b, "## Phases\n\n")
	fmt.Fprintf(&b, "| Phase | Source | Kind | Processed | Founded | Joined | Near misses |\n")
	fmt.Fprintf(&b, "|-------|--------|------|-----------|---------|--------|-------------|\n")
	for _, s := range report.PhaseStats {
		kind := s.Kind
		if kind == "" {
			kind = "(remainder)"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %d | %d |\n",
			s.Phase, s.Source, kind, s.Processed, s.Founded, s.Joined, s.NearMisses)
	}
	b.WriteString("\n")

	merged := 0
	fmt.Fprintf(&b, "## Merged groups\n\n")
	for _, g := range report.Summary {
		if !g.HasConsensus {
			continue
		}
		merged++
		fmt.Fprintf(&b, "- **group %d** (%d members", g.Index, len(g.MemberKeys))
		if g.Prospect {
			b.WriteString(", prospect")
		}
		fmt.Fprintf(&b, "): %s\n", g.ConsensusName)
	}
	if merged == 0 {
		b.WriteString("No groups required a merge.\n")
	}

	if r.includeFooter {
		b.WriteString("\n---\nGenerated by crosscheck.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}
