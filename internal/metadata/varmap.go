package metadata

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"fluxkit/internal/errors"
	"fluxkit/internal/timeseries"
)

// VariableEntry maps one raw variable name to its standard name and
// units.
type VariableEntry struct {
	Rename string `yaml:"rename" validate:"required"`
	Units  string `yaml:"units"`
}

// VariableMap holds per-site variable mappings keyed by site name, then
// by the raw variable name as it appears in the file header.
type VariableMap map[string]map[string]VariableEntry

// LoadVariableMap reads a variable-map YAML file.
func LoadVariableMap(path string) (VariableMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read variable map", err).
			WithContext("file", path)
	}

	var vm VariableMap
	if err := yaml.Unmarshal(data, &vm); err != nil {
		return nil, errors.NewParsingError("failed to parse variable map", err).
			WithContext("file", path)
	}

	v := validator.New()
	for site, entries := range vm {
		for raw, entry := range entries {
			if err := v.Struct(entry); err != nil {
				return nil, errors.NewValidationError(
					fmt.Sprintf("variable map entry %s/%s failed validation: %v", site, raw, err)).
					WithContext("file", path)
			}
		}
	}
	return vm, nil
}

// SelectorFor builds a rename column selector for the named site, or nil
// when the map has no entries for it.
func (vm VariableMap) SelectorFor(site string) *timeseries.ColumnSelector {
	entries, ok := vm[site]
	if !ok || len(entries) == 0 {
		return nil
	}
	rename := make(map[string]string, len(entries))
	for raw, entry := range entries {
		rename[raw] = entry.Rename
	}
	return &timeseries.ColumnSelector{Rename: rename}
}
