// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fft2 provides 2D complex fourier transforms over row-major
// complex128 buffers, the representation gonum's fourier package and fft
// spectra generally use.  All transform state lives in an explicit Ctx that
// the caller creates and threads through every step -- there is no ambient
// global transform context.
package fft2

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Ctx holds the per-length fft plans and scratch space for 2D transforms.
// Plans are reused across calls for the same axis lengths.  A Ctx is not safe
// for concurrent use; create one per goroutine.
type Ctx struct {
	plans   map[int]*fourier.CmplxFFT
	scratch []complex128
}

// NewCtx returns an empty transform context
func NewCtx() *Ctx {
	return &Ctx{plans: make(map[int]*fourier.CmplxFFT)}
}

func (cx *Ctx) plan(n int) *fourier.CmplxFFT {
	p, ok := cx.plans[n]
	if !ok {
		p = fourier.NewCmplxFFT(n)
		cx.plans[n] = p
	}
	return p
}

func (cx *Ctx) scratchFor(n int) []complex128 {
	if cap(cx.scratch) < n {
		cx.scratch = make([]complex128, n)
	}
	return cx.scratch[:n]
}

// Forward computes the in-place 2D forward transform of buf, a row-major
// rows x cols complex matrix, leaving the zero frequency bin at index 0.
func (cx *Ctx) Forward(buf []complex128, rows, cols int) {
	cx.transform(buf, rows, cols, false)
}

// Inverse computes the in-place 2D inverse transform of buf, scaled by
// 1/(rows*cols) so that Inverse(Forward(x)) == x.
func (cx *Ctx) Inverse(buf []complex128, rows, cols int) {
	cx.transform(buf, rows, cols, true)
	scale := complex(1.0/float64(rows*cols), 0)
	for i := range buf {
		buf[i] *= scale
	}
}

func (cx *Ctx) transform(buf []complex128, rows, cols int, inverse bool) {
	// rows first, then columns -- the 2D transform is separable
	rp := cx.plan(cols)
	src := cx.scratchFor(cols)
	for r := 0; r < rows; r++ {
		row := buf[r*cols : (r+1)*cols]
		copy(src, row)
		if inverse {
			rp.Sequence(row, src)
		} else {
			rp.Coefficients(row, src)
		}
	}

	cp := cx.plan(rows)
	col := make([]complex128, rows)
	dst := make([]complex128, rows)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			col[r] = buf[r*cols+c]
		}
		if inverse {
			cp.Sequence(dst, col)
		} else {
			cp.Coefficients(dst, col)
		}
		for r := 0; r < rows; r++ {
			buf[r*cols+c] = dst[r]
		}
	}
}
