// internal/expid/filter.go
package expid

import (
	"strconv"
	"strings"
)

// Filter selects identities by topology, slot count and application combo.
// An empty field places no constraint.
type Filter struct {
	Sizes []string // topology strings, e.g. "2x2"
	Slots []string
	Apps  []string // '-'-joined combos, in any tag order
}

// ParseList splits a comma-separated flag value, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// NewFilter builds a Filter from the raw comma-separated flag values.
func NewFilter(sizes, slots, apps string) Filter {
	f := Filter{
		Sizes: ParseList(sizes),
		Slots: ParseList(slots),
	}
	for _, a := range ParseList(apps) {
		f.Apps = append(f.Apps, NormalizeCombo(a))
	}
	return f
}

// Empty reports whether the filter accepts everything.
func (f Filter) Empty() bool {
	return len(f.Sizes) == 0 && len(f.Slots) == 0 && len(f.Apps) == 0
}

// Match reports whether id passes every constraint.
func (f Filter) Match(id Identity) bool {
	if len(f.Sizes) > 0 && !contains(f.Sizes, id.Topology()) {
		return false
	}
	if len(f.Slots) > 0 && !contains(f.Slots, strconv.Itoa(id.Slots)) {
		return false
	}
	if len(f.Apps) > 0 && !contains(f.Apps, id.AppCombo()) {
		return false
	}
	return true
}

// Apply returns the identities that pass the filter, in input order.
func (f Filter) Apply(ids []Identity) []Identity {
	if f.Empty() {
		return ids
	}
	var out []Identity
	for _, id := range ids {
		if f.Match(id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
