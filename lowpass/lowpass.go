// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lowpass

import (
	"errors"
	"log"

	"github.com/alvinkimbowa/mono/fmesh"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// Params are the butterworth low-pass filter parameters.  The filter is as
// large as possible while still falling away to zero at the spectrum
// boundaries, so no frequencies at the corners of the fft are incorporated --
// corner frequencies upset the normalisation when computing phase measures.
type Params struct {
	CutOff float32 `def:"0.4" desc:"normalized cutoff frequency of the filter, 0 - 0.5 per nyquist -- the mask value at the cutoff radius is 0.5"`
	Order  int     `def:"10" desc:"order of the filter -- the higher the order the sharper the transition to zero -- doubled in the exponent so it is always even"`
}

// Defaults sets the standard cutoff and order
func (lp *Params) Defaults() {
	lp.CutOff = 0.4
	lp.Order = 10
}

// Build computes the low-pass mask over the grid radius into mask:
// 1 / (1 + (radius/cutoff)^(2*order)).  Parameter range checks are done by
// the caller at configuration time; this only guards against being handed
// out-of-range values directly.
func (lp *Params) Build(grid *fmesh.Grid, mask *etensor.Float32) error {
	if lp.CutOff < 0 || lp.CutOff > 0.5 {
		log.Printf("lowpass.Build: cutoff %v out of range 0 - 0.5", lp.CutOff)
		return errors.New("lowpass: cutoff frequency must be between 0 and 0.5")
	}
	if lp.Order < 1 {
		log.Printf("lowpass.Build: order %v must be >= 1", lp.Order)
		return errors.New("lowpass: order must be an integer >= 1")
	}
	mask.SetShape([]int{grid.Rows, grid.Cols}, nil, []string{"Y", "X"})
	ex := 2 * float32(lp.Order)
	for i, r := range grid.Radius.Values {
		if r == 0 {
			// zero frequency passes in full whatever the cutoff
			mask.Values[i] = 1
			continue
		}
		mask.Values[i] = 1.0 / (1.0 + math32.Pow(r/lp.CutOff, ex))
	}
	return nil
}
