// internal/expid/types.go
package expid

import (
	"path/filepath"
	"sort"
	"strings"
)

// PlatformTDNNoC is the only platform kind experiments are generated for.
const PlatformTDNNoC = "TDN-NoC"

// ConfigFile marks a directory as an experiment.
const ConfigFile = "config.cfg"

// Identity is the structured identity of one generated experiment.
type Identity struct {
	Platform   string
	Processors int
	X          int
	Y          int
	Slots      int
	Apps       []string // two-letter tags, kept sorted
}

// New builds an Identity, sorting a copy of apps.
func New(platform string, processors, x, y, slots int, apps []string) Identity {
	sorted := append([]string(nil), apps...)
	sort.Strings(sorted)
	return Identity{
		Platform:   platform,
		Processors: processors,
		X:          x,
		Y:          y,
		Slots:      slots,
		Apps:       sorted,
	}
}

// AppTag derives an application's tag from its descriptor filename: the first
// two letters after the last '_' and before the first '.'.
// "a_sobel.xml" yields "so".
func AppTag(filename string) string {
	base := filepath.Base(filename)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if i := strings.LastIndex(base, "_"); i >= 0 {
		base = base[i+1:]
	}
	if len(base) > 2 {
		base = base[:2]
	}
	return base
}

// NormalizeCombo sorts the tags of a '-'-joined combination, so "cy-so" and
// "so-cy" compare equal.
func NormalizeCombo(combo string) string {
	tags := strings.Split(strings.TrimSpace(combo), "-")
	sort.Strings(tags)
	return strings.Join(tags, "-")
}
