package riesz

import (
	"github.com/alvinkimbowa/mono/fmesh"
)

// Build constructs the packed riesz quadrature filter for the grid as a
// row-major complex matrix:
//
//	H = (i*u1 - u2) / radius
//
// The two monogenic filters i*u1/radius and i*u2/radius are packed into the
// real and imaginary parts of one complex filter, so a single complex
// multiply and inverse transform yields both convolution results: the real
// part of the inverse corresponds to the first kernel and the imaginary part
// to the second.  The zero frequency entry is set to its analytic limit, 0,
// directly -- no radius patching.
func Build(grid *fmesh.Grid) []complex128 {
	n := grid.Rows * grid.Cols
	h := make([]complex128, n)
	for i := 0; i < n; i++ {
		r := float64(grid.Radius.Values[i])
		if r == 0 {
			continue
		}
		u1 := float64(grid.U1.Values[i])
		u2 := float64(grid.U2.Values[i])
		h[i] = complex(-u2/r, u1/r)
	}
	return h
}
