// Package quad approximates π by midpoint-rule quadrature of 4/(1+x²) over
// [0,1]. Sample ownership is strided across the ranks of a group so that the
// partition needs no communication: every rank derives its slice from its
// rank and the group size alone.
package quad

// Kernel is the fixed integrand, 4/(1+x²). Integrated over [0,1] it yields π.
func Kernel(x float64) float64 {
	return 4.0 / (1.0 + x*x)
}

// OwnedIndices returns the 1-indexed sample centers owned by rank for a round
// of n subintervals: rank+1, rank+1+size, rank+1+2*size, ... up to and
// including n. Across all ranks of one group these sets partition {1..n}
// exactly, each index owned once.
func OwnedIndices(n, rank, size int) []int {
	var owned []int
	for i := rank + 1; i <= n; i += size {
		owned = append(owned, i)
	}
	return owned
}

// PartialSum computes one rank's contribution to the integral: for each owned
// index i it samples the kernel at the subinterval midpoint h*(i-0.5) with
// h = 1/n, and scales the accumulated sum by h. A rank owning no indices
// (n < size leaves the high ranks empty) contributes exactly 0.
func PartialSum(n, rank, size int) float64 {
	h := 1.0 / float64(n)
	sum := 0.0
	for i := rank + 1; i <= n; i += size {
		x := h * (float64(i) - 0.5)
		sum += Kernel(x)
	}
	return h * sum
}
