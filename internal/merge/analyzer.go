package merge

import (
	"path/filepath"
	"sort"

	"fluxkit/internal/errors"
	"fluxkit/internal/source"
)

// Verdict is the immutable outcome of analysing one (master, candidate)
// pair: the four legality flags, their conjunction, and the diagnostics
// behind them.
type Verdict struct {
	MasterPath    string
	CandidatePath string

	CommonVariables   []string
	MasterOnly        []string
	CandidateOnly     []string
	UnitsMismatch     []string
	AliasedUnits      map[string]string
	AliasedByVariable map[string]string

	DateLegal     bool
	IntervalLegal bool
	VariableLegal bool
	UnitsLegal    bool
	FileLegal     bool
}

// Analyzer answers the four merge-legality questions for exactly one
// (master, candidate) pair. It never mutates its inputs; it only
// classifies.
type Analyzer struct {
	master    *source.DataSource
	candidate *source.DataSource
	aliases   UnitAliases
}

// NewAnalyzer builds an analyzer for the pair. Construction fails
// immediately when master and candidate resolve to the same file:
// self-merge is never legal and is a hard error, not a soft verdict. A
// nil aliases table falls back to the default one.
func NewAnalyzer(master, candidate *source.DataSource, aliases UnitAliases) (*Analyzer, error) {
	if samePath(master.Path(), candidate.Path()) {
		return nil, errors.NewPreconditionError("cannot merge a file with itself", nil).
			WithContext("file", master.Path())
	}
	if aliases == nil {
		aliases = DefaultUnitAliases()
	}
	return &Analyzer{master: master, candidate: candidate, aliases: aliases}, nil
}

// CompareDates is legal iff the candidate contributes at least one
// calendar date the master does not already have. Full containment in
// the master is illegal; partial overlap with new dates is fine.
func (a *Analyzer) CompareDates() bool {
	masterDates := a.master.Dates()
	for d := range a.candidate.Dates() {
		if _, ok := masterDates[d]; !ok {
			return true
		}
	}
	return false
}

// CompareInterval is legal iff the declared sampling intervals are
// equal, including both being unset.
func (a *Analyzer) CompareInterval() bool {
	mi, mok := a.master.Interval()
	ci, cok := a.candidate.Interval()
	if mok != cok {
		return false
	}
	return !mok || mi == ci
}

// CompareVariables partitions the two headers' variable names. The
// check is legal iff at least one variable is common to both; the
// one-sided lists are diagnostics only, never a legality blocker.
func (a *Analyzer) CompareVariables() (common, masterOnly, candidateOnly []string) {
	candidateHeader := a.candidate.Header()
	for _, name := range a.master.Header().Names {
		if candidateHeader.Has(name) {
			common = append(common, name)
		} else {
			masterOnly = append(masterOnly, name)
		}
	}
	masterHeader := a.master.Header()
	for _, name := range candidateHeader.Names {
		if !masterHeader.Has(name) {
			candidateOnly = append(candidateOnly, name)
		}
	}
	return common, masterOnly, candidateOnly
}

// CompareUnits checks unit equality for every variable common to both
// sources. Mismatches tolerated by the alias table are recorded as
// aliases, both as unit pairs (candidate unit → master unit) and per
// variable (variable → its candidate unit, for report rendering); the
// rest are hard mismatches, reported as the offending variable names.
// The check is legal iff no hard mismatches remain.
func (a *Analyzer) CompareUnits() (mismatch []string, aliased map[string]string, aliasedByVariable map[string]string) {
	aliased = make(map[string]string)
	aliasedByVariable = make(map[string]string)
	masterHeader := a.master.Header()
	candidateHeader := a.candidate.Header()

	common, _, _ := a.CompareVariables()
	for _, name := range common {
		mu := masterHeader.Units(name)
		cu := candidateHeader.Units(name)
		if mu == cu {
			continue
		}
		if a.aliases.Accepts(mu, cu) {
			aliased[cu] = mu
			aliasedByVariable[name] = cu
			continue
		}
		mismatch = append(mismatch, name)
	}
	return mismatch, aliased, aliasedByVariable
}

// Verdict runs the four checks and aggregates them. The overall file
// legality is the conjunction of the four flags.
func (a *Analyzer) Verdict() Verdict {
	common, masterOnly, candidateOnly := a.CompareVariables()
	mismatch, aliased, aliasedByVariable := a.CompareUnits()

	v := Verdict{
		MasterPath:        a.master.Path(),
		CandidatePath:     a.candidate.Path(),
		CommonVariables:   common,
		MasterOnly:        masterOnly,
		CandidateOnly:     candidateOnly,
		UnitsMismatch:     mismatch,
		AliasedUnits:      aliased,
		AliasedByVariable: aliasedByVariable,
		DateLegal:         a.CompareDates(),
		IntervalLegal:     a.CompareInterval(),
		VariableLegal:     len(common) > 0,
		UnitsLegal:        len(mismatch) == 0,
	}
	v.FileLegal = v.DateLegal && v.IntervalLegal && v.VariableLegal && v.UnitsLegal
	sort.Strings(v.UnitsMismatch)
	return v
}

// samePath reports whether two paths name the same file once cleaned and
// made absolute. Absolutization failures fall back to a lexical compare.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
