package combin

import "fmt"

// Pair is one factorization n = X*Y with X <= Y.
type Pair struct {
	X int
	Y int
}

// String renders the pair as a mesh topology, e.g. "2x3".
func (p Pair) String() string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}

// FactorPairs returns every (x, y) with x*y == n and x <= sqrt(n), ordered by
// x ascending. It uses plain trial division.
func FactorPairs(n int) []Pair {
	if n < 1 {
		return nil
	}
	var pairs []Pair
	for x := 1; x*x <= n; x++ {
		if n%x == 0 {
			pairs = append(pairs, Pair{X: x, Y: n / x})
		}
	}
	return pairs
}
