package results

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Literal markers the solver prints.
const (
	CompletionMarker = "ended"
	TimeoutMarker    = "due to time-out"
)

// ErrMalformedOutput marks a completed log that lacks the expected summary lines.
var ErrMalformedOutput = errors.New("malformed solver output")

var (
	solutionsRegex = regexp.MustCompile(`(\d+) solutions found`)
	runtimeRegex   = regexp.MustCompile(`search ended after: (\d+) s`)
	solutionRegex  = regexp.MustCompile(`Solution number: (\d+), after (\d+) ms`)
)

// Outcome is what a single solver log says.
type Outcome struct {
	Completed      bool
	Solutions      int
	RuntimeSeconds int64
	TimedOut       bool
	SolutionMillis []int64 // elapsed time of each reported solution, in order
}

// FirstMillis is the elapsed time of the first reported solution, or 0.
func (o *Outcome) FirstMillis() int64 {
	if o.Solutions == 0 || len(o.SolutionMillis) == 0 {
		return 0
	}
	return o.SolutionMillis[0]
}

// LastMillis is the elapsed time of the last reported solution when more
// than one was reported, or 0.
func (o *Outcome) LastMillis() int64 {
	if o.Solutions == 0 || len(o.SolutionMillis) < 2 {
		return 0
	}
	return o.SolutionMillis[len(o.SolutionMillis)-1]
}

// ParseOutput extracts an Outcome from a solver log. A log without the
// completion marker is returned with Completed false and no other fields.
func ParseOutput(text string) (*Outcome, error) {
	out := &Outcome{}
	if !strings.Contains(text, CompletionMarker) {
		return out, nil
	}
	out.Completed = true

	m := solutionsRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("no solution count: %w", ErrMalformedOutput)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("solution count %q: %v: %w", m[1], err, ErrMalformedOutput)
	}
	out.Solutions = n

	m = runtimeRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("no search runtime: %w", ErrMalformedOutput)
	}
	if out.RuntimeSeconds, err = strconv.ParseInt(m[1], 10, 64); err != nil {
		return nil, fmt.Errorf("search runtime %q: %v: %w", m[1], err, ErrMalformedOutput)
	}

	out.TimedOut = strings.Contains(text, TimeoutMarker)

	for _, sm := range solutionRegex.FindAllStringSubmatch(text, -1) {
		ms, err := strconv.ParseInt(sm[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("solution %s time %q: %v: %w", sm[1], sm[2], err, ErrMalformedOutput)
		}
		out.SolutionMillis = append(out.SolutionMillis, ms)
	}
	return out, nil
}

// FormatMillis renders milliseconds as hours:minutes:seconds.millis with
// the fixed widths "%02d:%2d:%02d.%03d", e.g. 500 -> "00: 0:00.500".
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	millis := ms % 1000
	s := ms / 1000
	mins := s / 60
	s %= 60
	h := mins / 60
	mins %= 60
	return fmt.Sprintf("%02d:%2d:%02d.%03d", h, mins, s, millis)
}
