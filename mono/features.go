// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mono

import "github.com/chewxy/math32"

const (
	// NoiseThreshold is subtracted from the symmetry measure before
	// rectification in the phase asymmetry feature.
	NoiseThreshold float32 = 0

	// Epsilon keeps the phase asymmetry denominator away from zero.
	Epsilon float32 = 1e-4
)

// phaseFeature writes atan(even / |odd|) into dst and min-max normalizes it.
// Where both the even and odd responses are exactly zero the phase is
// undefined and set to 0.
func phaseFeature(f, h1, h2, dst []float32) {
	for i := range dst {
		odd := math32.Sqrt(h1[i]*h1[i] + h2[i]*h2[i])
		if odd == 0 && f[i] == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = math32.Atan(f[i] / odd)
	}
	scaleMinMax(dst)
}

// orientFeature writes atan2(-h2, h1) into dst and min-max normalizes it.
func orientFeature(h1, h2, dst []float32) {
	for i := range dst {
		dst[i] = math32.Atan2(-h2[i], h1[i])
	}
	scaleMinMax(dst)
}

// asymFeature writes the rectified phase asymmetry max(sym-T, 0) / (An+eps)
// into dst.  Already bounded, so no normalization.
func asymFeature(sym, an, dst []float32) {
	for i := range dst {
		s := sym[i] - NoiseThreshold
		if s < 0 {
			s = 0
		}
		dst[i] = s / (an[i] + Epsilon)
	}
}

// scaleMinMax rescales vals into [0,1] in place.  A constant map maps to
// all zeros.
func scaleMinMax(vals []float32) {
	if len(vals) == 0 {
		return
	}
	mn, mx := vals[0], vals[0]
	for _, v := range vals {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	rng := mx - mn
	if rng == 0 {
		for i := range vals {
			vals[i] = 0
		}
		return
	}
	for i := range vals {
		vals[i] = (vals[i] - mn) / rng
	}
}
