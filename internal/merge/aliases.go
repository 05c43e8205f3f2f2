package merge

// UnitAliases maps a master unit string to the candidate unit strings
// accepted as equivalent to it. The relation is deliberately directional:
// lookups are keyed by the master's unit only, so "degC" tolerating "C"
// does not imply "C" tolerating "degC". The table is an immutable value
// passed to each Analyzer, never a process-wide singleton.
type UnitAliases map[string][]string

// Accepts reports whether candidateUnit is a listed synonym of
// masterUnit.
func (a UnitAliases) Accepts(masterUnit, candidateUnit string) bool {
	for _, synonym := range a[masterUnit] {
		if synonym == candidateUnit {
			return true
		}
	}
	return false
}

// DefaultUnitAliases returns the fixed unit-equivalence table. Keys are
// master units; values are the candidate spellings tolerated for them.
func DefaultUnitAliases() UnitAliases {
	return UnitAliases{
		"arb":        {"n"},
		"degC":       {"C"},
		"frac":       {"1"},
		"%":          {"percent"},
		"W/m^2":      {"W/m2"},
		"umol/m^2/s": {"umol/m2/s"},
		"m/s":        {"m s-1"},
	}
}
