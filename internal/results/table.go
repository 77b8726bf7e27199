package results

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/sdf"
)

// Column names, in report order. They double as sort keys.
const (
	ColPlatform   = "platform"
	ColP          = "P"
	ColMesh       = "mesh"
	ColSlots      = "TDN-slots"
	ColApps       = "apps"
	ColActors     = "actors"
	ColChannels   = "channels"
	ColBranches   = "branches"
	ColReductions = "reductions"
	ColRun        = "run"
	ColSolutions  = "sols-found"
	ColRuntime    = "runtime"
	ColTimeout    = "timeout"
	ColFirst      = "first"
	ColLast       = "last"
)

// Columns lists every column in report order.
var Columns = []string{
	ColPlatform, ColP, ColMesh, ColSlots, ColApps,
	ColActors, ColChannels, ColBranches, ColReductions,
	ColRun, ColSolutions, ColRuntime, ColTimeout, ColFirst, ColLast,
}

// DefaultSort is the report order when none is given.
var DefaultSort = []string{ColP, ColSlots, ColMesh, ColSolutions}

// Row is one completed run joined with its experiment's identity and metrics.
type Row struct {
	ID expid.Identity `json:"-" yaml:"-"`

	Platform   string `json:"platform" yaml:"platform"`
	P          int    `json:"P" yaml:"P"`
	Mesh       string `json:"mesh" yaml:"mesh"`
	Slots      int    `json:"TDN-slots" yaml:"TDN-slots"`
	Apps       string `json:"apps" yaml:"apps"`
	Actors     int    `json:"actors" yaml:"actors"`
	Channels   int    `json:"channels" yaml:"channels"`
	Branches   int    `json:"branches" yaml:"branches"`
	Reductions int    `json:"reductions" yaml:"reductions"`
	Run        int    `json:"run" yaml:"run"`
	Solutions  int    `json:"sols-found" yaml:"sols-found"`
	Runtime    string `json:"runtime" yaml:"runtime"`
	Timeout    bool   `json:"timeout" yaml:"timeout"`
	First      string `json:"first" yaml:"first"`
	Last       string `json:"last" yaml:"last"`

	RuntimeMillis int64 `json:"-" yaml:"-"`
	FirstMillis   int64 `json:"-" yaml:"-"`
	LastMillis    int64 `json:"-" yaml:"-"`
}

// Cells renders the row in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.Platform, strconv.Itoa(r.P), r.Mesh, strconv.Itoa(r.Slots), r.Apps,
		strconv.Itoa(r.Actors), strconv.Itoa(r.Channels), strconv.Itoa(r.Branches), strconv.Itoa(r.Reductions),
		strconv.Itoa(r.Run), strconv.Itoa(r.Solutions), r.Runtime, strconv.FormatBool(r.Timeout), r.First, r.Last,
	}
}

// Table is an ordered set of rows.
type Table struct {
	Rows []Row
}

// Filter keeps rows whose identity passes f.
func (t *Table) Filter(f expid.Filter) {
	if f.Empty() {
		return
	}
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		if f.Match(r.ID) {
			kept = append(kept, r)
		}
	}
	t.Rows = kept
}

// Sort orders rows ascending by the named columns, earlier names taking
// precedence. Numeric columns compare as numbers and time columns by their
// underlying milliseconds.
func (t *Table) Sort(columns []string) error {
	cmps := make([]func(a, b Row) int, 0, len(columns))
	for _, name := range columns {
		name = strings.TrimSpace(name)
		c, ok := comparators[name]
		if !ok {
			return fmt.Errorf("unknown sort column %q (valid: %s)", name, strings.Join(Columns, ","))
		}
		cmps = append(cmps, c)
	}
	slices.SortStableFunc(t.Rows, func(a, b Row) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	})
	return nil
}

var comparators = map[string]func(a, b Row) int{
	ColPlatform:   func(a, b Row) int { return cmp.Compare(a.Platform, b.Platform) },
	ColP:          func(a, b Row) int { return cmp.Compare(a.P, b.P) },
	ColMesh:       func(a, b Row) int { return cmp.Or(cmp.Compare(a.ID.X, b.ID.X), cmp.Compare(a.ID.Y, b.ID.Y)) },
	ColSlots:      func(a, b Row) int { return cmp.Compare(a.Slots, b.Slots) },
	ColApps:       func(a, b Row) int { return cmp.Compare(a.Apps, b.Apps) },
	ColActors:     func(a, b Row) int { return cmp.Compare(a.Actors, b.Actors) },
	ColChannels:   func(a, b Row) int { return cmp.Compare(a.Channels, b.Channels) },
	ColBranches:   func(a, b Row) int { return cmp.Compare(a.Branches, b.Branches) },
	ColReductions: func(a, b Row) int { return cmp.Compare(a.Reductions, b.Reductions) },
	ColRun:        func(a, b Row) int { return cmp.Compare(a.Run, b.Run) },
	ColSolutions:  func(a, b Row) int { return cmp.Compare(a.Solutions, b.Solutions) },
	ColRuntime:    func(a, b Row) int { return cmp.Compare(a.RuntimeMillis, b.RuntimeMillis) },
	ColTimeout:    func(a, b Row) int { return cmp.Compare(boolInt(a.Timeout), boolInt(b.Timeout)) },
	ColFirst:      func(a, b Row) int { return cmp.Compare(a.FirstMillis, b.FirstMillis) },
	ColLast:       func(a, b Row) int { return cmp.Compare(a.LastMillis, b.LastMillis) },
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewRow joins an identity, its metrics and one run outcome.
func NewRow(id expid.Identity, m sdf.Metrics, run int, o *Outcome) Row {
	first, last := o.FirstMillis(), o.LastMillis()
	runtime := o.RuntimeSeconds * 1000
	return Row{
		ID:            id,
		Platform:      id.Platform,
		P:             id.Processors,
		Mesh:          id.Topology(),
		Slots:         id.Slots,
		Apps:          id.AppCombo(),
		Actors:        m.Actors,
		Channels:      m.Channels,
		Branches:      m.Branches,
		Reductions:    m.Reductions,
		Run:           run,
		Solutions:     o.Solutions,
		Runtime:       FormatMillis(runtime),
		Timeout:       o.TimedOut,
		First:         FormatMillis(first),
		Last:          FormatMillis(last),
		RuntimeMillis: runtime,
		FirstMillis:   first,
		LastMillis:    last,
	}
}
