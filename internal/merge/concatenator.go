package merge

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fluxkit/internal/source"
	"fluxkit/internal/timeseries"
)

// Concatenator orchestrates a one-master-to-many-candidates merge. Each
// candidate is analysed independently; only candidates whose verdict is
// fully legal contribute data. Illegal candidates are excluded silently
// and stay visible in the verdict list, so a batch merge never aborts
// because one candidate is unusable.
type Concatenator struct {
	master     *source.DataSource
	candidates []*source.DataSource
	accepted   []*source.DataSource
	verdicts   []Verdict
	runID      string
	logger     *slog.Logger
}

// NewConcatenator analyses every candidate against the master and
// retains the legal ones. The per-candidate analysis runs concurrently
// (analyzers are pure functions of two immutable sources); acceptance
// order follows input order so header precedence stays deterministic.
// The only construction error is a self-merge in the candidate list.
func NewConcatenator(master *source.DataSource, candidates []*source.DataSource, aliases UnitAliases, logger *slog.Logger) (*Concatenator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Concatenator{
		master:     master,
		candidates: candidates,
		verdicts:   make([]Verdict, len(candidates)),
		runID:      uuid.NewString(),
		logger:     logger.With(slog.String("component", "concatenator"), slog.String("master", master.Path())),
	}

	var g errgroup.Group
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			analyzer, err := NewAnalyzer(master, candidate, aliases)
			if err != nil {
				return err
			}
			c.verdicts[i] = analyzer.Verdict()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, candidate := range candidates {
		if c.verdicts[i].FileLegal {
			c.accepted = append(c.accepted, candidate)
		} else {
			c.logger.Info("candidate excluded from merge",
				slog.String("candidate", candidate.Path()),
				slog.Bool("dates", c.verdicts[i].DateLegal),
				slog.Bool("interval", c.verdicts[i].IntervalLegal),
				slog.Bool("variables", c.verdicts[i].VariableLegal),
				slog.Bool("units", c.verdicts[i].UnitsLegal))
		}
	}
	c.logger.Info("merge analysis complete",
		slog.String("run_id", c.runID),
		slog.Int("candidates", len(candidates)),
		slog.Int("accepted", len(c.accepted)))
	return c, nil
}

// RunID returns the identifier stamped into logs and the report.
func (c *Concatenator) RunID() string { return c.runID }

// Accepted returns the candidates judged fully legal, in input order.
func (c *Concatenator) Accepted() []*source.DataSource {
	return append([]*source.DataSource(nil), c.accepted...)
}

// Verdicts returns one verdict per candidate, accepted or not, in input
// order.
func (c *Concatenator) Verdicts() []Verdict {
	return append([]Verdict(nil), c.verdicts...)
}

// Header returns the union of the master's header with each accepted
// candidate's header. Candidate unit strings are rewritten through that
// candidate's alias map first; the master's entries take precedence on
// name collision, and the final order is master order followed by
// first-seen new variables.
func (c *Concatenator) Header() timeseries.Header {
	out := c.master.Header()
	for i, candidate := range c.candidates {
		v := c.verdicts[i]
		if !v.FileLegal {
			continue
		}
		candidateHeader := candidate.Header()
		for _, name := range candidateHeader.Names {
			info := candidateHeader.Info[name]
			if master, ok := v.AliasedUnits[info.Units]; ok {
				info.Units = master
			}
			out.Append(name, info)
		}
	}
	return out
}

// Data concatenates the master's data with each accepted candidate's
// data, restricts the result to Header()'s variable order, and sorts by
// timestamp. Columns a source does not carry are filled with that
// source's missing marker. No de-duplication happens here; that is a
// subsequent Handler pass over the result.
func (c *Concatenator) Data() timeseries.Table {
	header := c.Header()
	out := timeseries.Table{Columns: append([]string(nil), header.Names...)}

	appendRows := func(src *source.DataSource) {
		table := src.Table()
		marker := src.Kind().MissingMarker()
		index := make([]int, len(out.Columns))
		for i, name := range out.Columns {
			index[i] = table.ColumnIndex(name)
		}
		for _, row := range table.Rows {
			values := make([]string, len(out.Columns))
			for i, idx := range index {
				if idx >= 0 && idx < len(row.Values) {
					values[i] = row.Values[idx]
				} else {
					values[i] = marker
				}
			}
			out.Rows = append(out.Rows, timeseries.Row{Time: row.Time, Values: values})
		}
	}

	appendRows(c.master)
	for _, candidate := range c.accepted {
		appendRows(candidate)
	}
	out.SortByTime()
	return out
}

// Report returns the structured merge report for this run.
func (c *Concatenator) Report() Report {
	return Report{
		RunID:       c.runID,
		GeneratedAt: time.Now().UTC(),
		MasterPath:  c.master.Path(),
		Candidates:  c.Verdicts(),
	}
}

// ReportText renders the report as human-readable text.
func (c *Concatenator) ReportText() string {
	r := c.Report()
	return r.String()
}

// WriteReport writes the textual report to path.
func (c *Concatenator) WriteReport(path string) error {
	r := c.Report()
	return r.Write(path)
}
