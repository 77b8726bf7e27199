package generator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SizeError reports an experiment size token that could not be parsed.
type SizeError struct {
	Token string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("Experiment argument %s cannot be parsed. Is it correct?", e.Token)
}

// ParseSizes turns tokens such as "4" and "5-8" (inclusive) into a sorted,
// deduplicated list of processor counts.
func ParseSizes(tokens []string) ([]int, error) {
	set := map[int]struct{}{}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if lo, hi, isRange := strings.Cut(tok, "-"); isRange {
			b, errB := strconv.Atoi(lo)
			e, errE := strconv.Atoi(hi)
			if errB != nil || errE != nil || b < 1 || e < b {
				return nil, &SizeError{Token: tok}
			}
			for n := b; n <= e; n++ {
				set[n] = struct{}{}
			}
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 {
			return nil, &SizeError{Token: tok}
		}
		set[n] = struct{}{}
	}

	sizes := make([]int, 0, len(set))
	for n := range set {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	return sizes, nil
}
