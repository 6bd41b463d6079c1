package testsupport

// FixedRandom is a random source that always returns the same values.
// IntN returns Int modulo n.
type FixedRandom struct {
	Float float64
	Int   int
}

func (r *FixedRandom) Float64() float64 { return r.Float }

func (r *FixedRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.Int % n
}
