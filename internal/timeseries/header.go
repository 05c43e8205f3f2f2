package timeseries

import (
	"fmt"

	"fluxkit/internal/errors"
)

// Variable holds the per-variable metadata carried by a file header.
type Variable struct {
	Units     string
	Statistic string
}

// Header is an ordered variable list with per-variable metadata. Order
// matters for final output shaping; the merge layer preserves the
// master's order.
type Header struct {
	Names []string
	Info  map[string]Variable
}

// NewHeader builds a header from parallel name/units/statistic slices.
// Units and statistics shorter than names are padded with empty strings.
func NewHeader(names, units, statistics []string) Header {
	h := Header{
		Names: append([]string(nil), names...),
		Info:  make(map[string]Variable, len(names)),
	}
	for i, name := range names {
		v := Variable{}
		if i < len(units) {
			v.Units = units[i]
		}
		if i < len(statistics) {
			v.Statistic = statistics[i]
		}
		h.Info[name] = v
	}
	return h
}

// Clone returns a deep copy of the header.
func (h Header) Clone() Header {
	out := Header{
		Names: append([]string(nil), h.Names...),
		Info:  make(map[string]Variable, len(h.Info)),
	}
	for k, v := range h.Info {
		out.Info[k] = v
	}
	return out
}

// Has reports whether the header declares the named variable.
func (h Header) Has(name string) bool {
	_, ok := h.Info[name]
	return ok
}

// Units returns the unit string declared for the named variable, or "".
func (h Header) Units(name string) string {
	return h.Info[name].Units
}

// Append adds a variable at the end of the header. Existing entries are
// left untouched, so the first declaration wins on name collision.
func (h *Header) Append(name string, v Variable) {
	if h.Info == nil {
		h.Info = make(map[string]Variable)
	}
	if _, ok := h.Info[name]; ok {
		return
	}
	h.Names = append(h.Names, name)
	h.Info[name] = v
}

// Select applies a column selector with the same semantics as
// Table.Select: Names subsets and reorders, Rename subsets in header
// order and renames.
func (h Header) Select(sel *ColumnSelector) (Header, error) {
	if err := sel.Validate(); err != nil {
		return Header{}, err
	}
	if sel == nil || (len(sel.Names) == 0 && len(sel.Rename) == 0) {
		return h.Clone(), nil
	}

	out := Header{Info: make(map[string]Variable)}
	if len(sel.Names) > 0 {
		for _, name := range sel.Names {
			v, ok := h.Info[name]
			if !ok {
				return Header{}, errors.NewPreconditionError(
					fmt.Sprintf("selected variable %q not present in header", name), nil)
			}
			out.Append(name, v)
		}
		return out, nil
	}
	for _, name := range h.Names {
		if newName, ok := sel.Rename[name]; ok {
			out.Append(newName, h.Info[name])
		}
	}
	if len(out.Names) != len(sel.Rename) {
		for old := range sel.Rename {
			if !h.Has(old) {
				return Header{}, errors.NewPreconditionError(
					fmt.Sprintf("renamed variable %q not present in header", old), nil)
			}
		}
	}
	return out, nil
}

// Drop returns the header without the named variables.
func (h Header) Drop(names []string) Header {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := Header{Info: make(map[string]Variable)}
	for _, name := range h.Names {
		if !drop[name] {
			out.Append(name, h.Info[name])
		}
	}
	return out
}
