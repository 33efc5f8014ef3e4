// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmesh

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// Grid holds the normalized 2D frequency coordinates for a given image size,
// quadrant shifted so the zero frequency element is at index [0,0] -- this is the
// layout of a forward fft, whose zero frequency bin is always first.
// U1 varies along columns and U2 along rows, both in roughly -0.5..0.5,
// and Radius = sqrt(U1^2 + U2^2).  Radius at [0,0] is the true value, 0 --
// consumers substitute their analytic zero-frequency limit directly rather
// than patching the grid.
type Grid struct {
	Rows   int             `inactive:"+" desc:"number of rows (image height) this grid was built for"`
	Cols   int             `inactive:"+" desc:"number of columns (image width) this grid was built for"`
	U1     etensor.Float32 `view:"no-inline" desc:"horizontal frequency coordinate, varies along columns"`
	U2     etensor.Float32 `view:"no-inline" desc:"vertical frequency coordinate, varies along rows"`
	Radius etensor.Float32 `view:"no-inline" desc:"frequency magnitude sqrt(U1^2 + U2^2)"`
}

// FreqRange returns the normalized frequency range for one axis of length n,
// centered at zero: odd n covers -(n-1)/2 .. (n-1)/2 divided by n-1, even n
// covers -n/2 .. n/2-1 divided by n.
func FreqRange(n int) []float32 {
	r := make([]float32, n)
	if n%2 == 1 {
		lo := -(n - 1) / 2
		for i := 0; i < n; i++ {
			r[i] = float32(lo+i) / float32(n-1)
		}
	} else {
		lo := -n / 2
		for i := 0; i < n; i++ {
			r[i] = float32(lo+i) / float32(n)
		}
	}
	return r
}

// Build computes the grid for the given size.  The grid is a pure function of
// rows and cols and is recomputed on every call -- no caching.
func (gr *Grid) Build(rows, cols int) {
	gr.Rows = rows
	gr.Cols = cols
	xrange := FreqRange(cols)
	yrange := FreqRange(rows)

	shp := []int{rows, cols}
	gr.U1.SetShape(shp, nil, []string{"Y", "X"})
	gr.U2.SetShape(shp, nil, []string{"Y", "X"})
	gr.Radius.SetShape(shp, nil, []string{"Y", "X"})

	// the quadrant shift is done with index arithmetic while writing, rather
	// than building a centered grid and rolling it after
	for y := 0; y < rows; y++ {
		v := yrange[(y+rows/2)%rows]
		for x := 0; x < cols; x++ {
			u := xrange[(x+cols/2)%cols]
			gr.U1.Set([]int{y, x}, u)
			gr.U2.Set([]int{y, x}, v)
			gr.Radius.Set([]int{y, x}, math32.Hypot(u, v))
		}
	}
}
