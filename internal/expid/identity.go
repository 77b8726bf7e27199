// internal/expid/identity.go
package expid

import (
	"fmt"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// Topology renders the mesh dimensions, e.g. "2x3".
func (id Identity) Topology() string {
	return fmt.Sprintf("%dx%d", id.X, id.Y)
}

// AppCombo renders the sorted application tags joined by '-'.
func (id Identity) AppCombo() string {
	return strings.Join(id.Apps, "-")
}

// RelPath serializes the identity into its canonical slash-separated path.
func (id Identity) RelPath() string {
	return path.Join(
		id.Platform,
		strconv.Itoa(id.Processors),
		id.Topology(),
		strconv.Itoa(id.Slots),
		id.AppCombo(),
	)
}

// Dir returns the experiment directory under the given workspace root.
func (id Identity) Dir(workspace string) string {
	return filepath.Join(workspace, filepath.FromSlash(id.RelPath()))
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return id.RelPath()
}

// Equal checks for deep equality between two identities.
func (id Identity) Equal(other Identity) bool {
	return reflect.DeepEqual(id, other)
}

// Parse decodes an Identity from its relative path. Both '/' and the OS
// separator are accepted.
func Parse(rel string) (Identity, error) {
	rel = filepath.ToSlash(filepath.Clean(rel))
	parts := strings.Split(rel, "/")
	if len(parts) != 5 {
		return Identity{}, fmt.Errorf("experiment path %q: expected 5 components, got %d", rel, len(parts))
	}

	platform := parts[0]
	if platform == "" || platform == "." {
		return Identity{}, fmt.Errorf("experiment path %q: empty platform", rel)
	}

	processors, err := strconv.Atoi(parts[1])
	if err != nil || processors < 1 {
		return Identity{}, fmt.Errorf("experiment path %q: invalid processor count %q", rel, parts[1])
	}

	x, y, err := parseTopology(parts[2])
	if err != nil {
		return Identity{}, fmt.Errorf("experiment path %q: %w", rel, err)
	}
	if x*y != processors {
		return Identity{}, fmt.Errorf("experiment path %q: topology %s does not match %d processors", rel, parts[2], processors)
	}

	slots, err := strconv.Atoi(parts[3])
	if err != nil || slots < 1 {
		return Identity{}, fmt.Errorf("experiment path %q: invalid slot count %q", rel, parts[3])
	}

	apps := strings.Split(parts[4], "-")
	for _, a := range apps {
		if a == "" {
			return Identity{}, fmt.Errorf("experiment path %q: empty application tag", rel)
		}
	}

	return New(platform, processors, x, y, slots, apps), nil
}

func parseTopology(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid topology %q", s)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil || x < 1 || y < 1 {
		return 0, 0, fmt.Errorf("invalid topology %q", s)
	}
	return x, y, nil
}
