package combin

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"sync"
)

// MaxItems bounds NonEmptySubsets; 2^20 subsets is already far beyond what a
// template directory can sensibly hold.
const MaxItems = 20

// ErrTooMany is returned when more than MaxItems items are requested.
var ErrTooMany = errors.New("too many items to enumerate subsets")

var (
	maskCacheMu sync.Mutex
	maskCache   = map[int][]uint32{}
)

// NonEmptySubsets returns every non-empty subset of the indices 0..n-1.
// The full set comes first, followed by the remaining subsets in decreasing
// size and, within one size, in lexicographic index order. For n = 2 the
// result is [[0 1] [0] [1]].
func NonEmptySubsets(n int) ([][]int, error) {
	masks, err := subsetMasks(n)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(masks))
	for i, m := range masks {
		out[i] = maskIndices(m)
	}
	return out, nil
}

// Subset picks the items addressed by idx, preserving idx order.
func Subset[T any](items []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// subsetMasks is memoized per n; callers must not modify the returned slice.
func subsetMasks(n int) ([]uint32, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative item count %d", n)
	}
	if n > MaxItems {
		return nil, fmt.Errorf("%d items: %w", n, ErrTooMany)
	}

	maskCacheMu.Lock()
	defer maskCacheMu.Unlock()
	if masks, ok := maskCache[n]; ok {
		return masks, nil
	}

	total := uint32(1)<<uint(n) - 1
	masks := make([]uint32, 0, total)
	for m := uint32(1); m <= total && total > 0; m++ {
		masks = append(masks, m)
	}
	sort.Slice(masks, func(i, j int) bool {
		ci, cj := bits.OnesCount32(masks[i]), bits.OnesCount32(masks[j])
		if ci != cj {
			return ci > cj
		}
		return lexLess(masks[i], masks[j])
	})

	maskCache[n] = masks
	return masks, nil
}

// lexLess orders two equal-sized masks by their sorted index lists.
func lexLess(a, b uint32) bool {
	for a != 0 && b != 0 {
		la, lb := bits.TrailingZeros32(a), bits.TrailingZeros32(b)
		if la != lb {
			return la < lb
		}
		a &^= 1 << uint(la)
		b &^= 1 << uint(lb)
	}
	return a == 0 && b != 0
}

func maskIndices(m uint32) []int {
	idx := make([]int, 0, bits.OnesCount32(m))
	for m != 0 {
		i := bits.TrailingZeros32(m)
		idx = append(idx, i)
		m &^= 1 << uint(i)
	}
	return idx
}
