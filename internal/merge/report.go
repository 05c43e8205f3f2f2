package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Report is the structured account of one concatenation run: one block
// per candidate, accepted or not, with the four sub-verdicts and the
// diagnostics behind them.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	MasterPath  string
	Candidates  []Verdict
}

// Lines renders the report as ordered text lines, one paragraph per
// candidate.
func (r Report) Lines() []string {
	lines := []string{
		"File merge report",
		fmt.Sprintf("run id: %s", r.RunID),
		fmt.Sprintf("generated: %s", r.GeneratedAt.Format(time.RFC3339)),
		fmt.Sprintf("master: %s", r.MasterPath),
		fmt.Sprintf("candidates: %d", len(r.Candidates)),
	}
	for _, v := range r.Candidates {
		lines = append(lines, "")
		lines = append(lines, v.lines()...)
	}
	return lines
}

// String renders the report as a single newline-joined text block.
func (r Report) String() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}

// Write writes the textual report to path, creating parent directories
// as needed.
func (r Report) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (v Verdict) lines() []string {
	status := "REJECTED"
	if v.FileLegal {
		status = "accepted"
	}
	lines := []string{
		fmt.Sprintf("candidate: %s [%s]", v.CandidatePath, status),
		fmt.Sprintf("  dates:     %s", legality(v.DateLegal)),
		fmt.Sprintf("  interval:  %s", legality(v.IntervalLegal)),
		fmt.Sprintf("  variables: %s", legality(v.VariableLegal)),
		fmt.Sprintf("  units:     %s", legality(v.UnitsLegal)),
		fmt.Sprintf("  common variables: %s", joinOrNone(v.CommonVariables)),
		fmt.Sprintf("  master only:      %s", joinOrNone(v.MasterOnly)),
		fmt.Sprintf("  candidate only:   %s", joinOrNone(v.CandidateOnly)),
	}
	if len(v.AliasedByVariable) > 0 {
		pairs := make([]string, 0, len(v.AliasedByVariable))
		for name, candidateUnit := range v.AliasedByVariable {
			pairs = append(pairs, fmt.Sprintf("%s (%s -> %s)", name, candidateUnit, v.AliasedUnits[candidateUnit]))
		}
		sort.Strings(pairs)
		lines = append(lines, fmt.Sprintf("  unit aliases:     %s", strings.Join(pairs, ", ")))
	}
	if len(v.UnitsMismatch) > 0 {
		lines = append(lines, fmt.Sprintf("  unit mismatches:  %s", strings.Join(v.UnitsMismatch, ", ")))
	}
	return lines
}

func legality(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
