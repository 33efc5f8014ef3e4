// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mono assembles the monogenic filter bank: a log-Gabor band-pass
// bank combined with a Riesz quadrature pair, applied per scale in the
// frequency domain, with the per-scale responses aggregated into local
// phase, orientation, and phase-asymmetry feature maps.
//
// Wavelength and bandwidth parameters are carried internally as
// unconstrained codes (see the reparam package) so an external optimizer can
// update them by gradient-free or gradient-based search while the decoded
// values always remain inside their valid ranges.
package mono

import (
	"log"
	"math/rand"

	"github.com/alvinkimbowa/mono/fft2"
	"github.com/alvinkimbowa/mono/fmesh"
	"github.com/alvinkimbowa/mono/lgabor"
	"github.com/alvinkimbowa/mono/lowpass"
	"github.com/alvinkimbowa/mono/reparam"
	"github.com/alvinkimbowa/mono/riesz"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/emer/vision/kwta"
	"github.com/goki/ki/kit"
)

// Mono is a multi-scale monogenic filter bank over 2D images.  Configure the
// public fields, call Init once, then Filter on each input batch.  Filters
// are rebuilt lazily from the current parameter codes on every Filter call,
// so parameter updates between calls take effect immediately.
type Mono struct {
	NScale      int       `def:"1" desc:"number of band-pass scales in the log-Gabor bank"`
	SigmaOnF    float32   `def:"0" desc:"shared log-Gabor bandwidth ratio in (0,1) -- 0 selects random initialization of the bandwidth code"`
	Wavelengths []float32 `desc:"initial center wavelengths in pixels, one per scale -- nil selects random initialization of the wavelength codes"`
	Trainable   bool      `def:"true" desc:"expose the parameter codes through Params and SetParams"`

	ReturnInput     bool `def:"false" desc:"include the input echo (sum over input channels) as an output channel"`
	ReturnPhase     bool `def:"true" desc:"include the normalized local phase map as an output channel"`
	ReturnOri       bool `def:"false" desc:"include the normalized local orientation map as an output channel"`
	ReturnPhaseAsym bool `def:"false" desc:"include the phase asymmetry map as an output channel"`

	LowPass lowpass.Params `view:"inline" desc:"Butterworth low-pass applied on top of every band-pass scale"`
	Kwta    kwta.KWTA      `view:"inline" desc:"optional k-winners-take-all sharpening of the feature maps (off by default)"`

	WlCodes []float32 `view:"-" desc:"unconstrained wavelength codes, one per scale"`
	SigCode float32   `view:"-" desc:"unconstrained bandwidth code shared across scales"`

	Grid        fmesh.Grid      `view:"-" desc:"frequency mesh for the current input size"`
	LowPassMask etensor.Float32 `view:"no-inline" desc:"current Butterworth mask [rows][cols]"`
	GaborMasks  etensor.Float32 `view:"no-inline" desc:"current log-Gabor masks [scale][rows][cols]"`
	ExtGi       etensor.Float32 `view:"-" desc:"zero external inhibition for kwta"`
}

var KiT_Mono = kit.Types.AddType(&Mono{}, nil)

func (mn *Mono) Defaults() {
	mn.NScale = 1
	mn.SigmaOnF = 0
	mn.Wavelengths = nil
	mn.Trainable = true
	mn.ReturnInput = false
	mn.ReturnPhase = true
	mn.ReturnOri = false
	mn.ReturnPhaseAsym = false
	mn.LowPass.Defaults()
	mn.Kwta.Defaults()
	mn.Kwta.On = false
}

// Init validates the configuration and initializes the parameter codes.
// Explicit Wavelengths / SigmaOnF values are encoded exactly; absent ones
// get random codes drawn from rnd (nil uses the global source).  Returns a
// *ConfigError describing the first invalid option found.
func (mn *Mono) Init(rnd *rand.Rand) error {
	if mn.NScale <= 0 {
		err := &ConfigError{Option: "NScale", Value: mn.NScale, Reason: "must be a positive number of scales"}
		log.Println(err)
		return err
	}
	if mn.SigmaOnF != 0 && (mn.SigmaOnF <= 0 || mn.SigmaOnF >= 1) {
		err := &ConfigError{Option: "SigmaOnF", Value: mn.SigmaOnF, Reason: "must be in the open interval (0,1)"}
		log.Println(err)
		return err
	}
	if mn.Wavelengths != nil && len(mn.Wavelengths) != mn.NScale {
		err := &ConfigError{Option: "Wavelengths", Value: mn.Wavelengths, Reason: "must list exactly one wavelength per scale"}
		log.Println(err)
		return err
	}
	for _, wl := range mn.Wavelengths {
		if wl <= 0 {
			err := &ConfigError{Option: "Wavelengths", Value: wl, Reason: "wavelengths must be positive"}
			log.Println(err)
			return err
		}
	}
	if mn.LowPass.CutOff <= 0 || mn.LowPass.CutOff > 0.5 {
		err := &ConfigError{Option: "LowPass.CutOff", Value: mn.LowPass.CutOff, Reason: "must be in (0, 0.5]"}
		log.Println(err)
		return err
	}
	if mn.LowPass.Order < 1 {
		err := &ConfigError{Option: "LowPass.Order", Value: mn.LowPass.Order, Reason: "must be at least 1"}
		log.Println(err)
		return err
	}
	if mn.NOut() == 0 {
		err := &ConfigError{Option: "Return*", Value: false, Reason: "at least one output channel must be enabled"}
		log.Println(err)
		return err
	}
	mn.WlCodes = reparam.WavelengthCodes(mn.Wavelengths, mn.NScale, rnd)
	mn.SigCode = reparam.BandwidthCode(mn.SigmaOnF, rnd)
	return nil
}

// NOut returns the number of output feature channels per sample.
func (mn *Mono) NOut() int {
	k := 0
	if mn.ReturnInput {
		k++
	}
	if mn.ReturnPhase {
		k++
	}
	if mn.ReturnOri {
		k++
	}
	if mn.ReturnPhaseAsym {
		k++
	}
	return k
}

// DecodedWavelengths returns the current per-scale wavelengths in pixels.
func (mn *Mono) DecodedWavelengths() []float32 {
	wls := make([]float32, len(mn.WlCodes))
	for i, c := range mn.WlCodes {
		wls[i] = reparam.DecodeWavelength(c)
	}
	return wls
}

// DecodedSigmaOnF returns the current shared bandwidth ratio in (0,1).
func (mn *Mono) DecodedSigmaOnF() float32 {
	return reparam.DecodeBandwidth(mn.SigCode)
}

// Params returns a copy of the unconstrained parameter codes, wavelength
// codes first and the bandwidth code last.  Returns nil when not Trainable.
func (mn *Mono) Params() []float32 {
	if !mn.Trainable {
		return nil
	}
	ps := make([]float32, len(mn.WlCodes)+1)
	copy(ps, mn.WlCodes)
	ps[len(ps)-1] = mn.SigCode
	return ps
}

// SetParams installs updated parameter codes in the layout Params returns.
// Ignored with a log message when not Trainable or when the length is wrong.
func (mn *Mono) SetParams(ps []float32) {
	if !mn.Trainable {
		log.Println("mono: SetParams ignored, layer is not trainable")
		return
	}
	if len(ps) != len(mn.WlCodes)+1 {
		log.Printf("mono: SetParams ignored, got %d values, want %d\n", len(ps), len(mn.WlCodes)+1)
		return
	}
	copy(mn.WlCodes, ps[:len(ps)-1])
	mn.SigCode = ps[len(ps)-1]
}

// Snapshot is a read-only record of the effective configuration, with the
// parameter codes decoded back to their natural units.
type Snapshot struct {
	NScale          int
	Wavelengths     []float32
	SigmaOnF        float32
	MinWavelength   float32
	MaxWavelength   float32
	CutOff          float32
	Order           int
	NoiseThreshold  float32
	Epsilon         float32
	Trainable       bool
	ReturnInput     bool
	ReturnPhase     bool
	ReturnOri       bool
	ReturnPhaseAsym bool
}

// Snapshot reports the effective configuration with decoded parameters.
func (mn *Mono) Snapshot() Snapshot {
	return Snapshot{
		NScale:          mn.NScale,
		Wavelengths:     mn.DecodedWavelengths(),
		SigmaOnF:        mn.DecodedSigmaOnF(),
		MinWavelength:   reparam.MinWavelength,
		MaxWavelength:   reparam.MaxWavelength,
		CutOff:          mn.LowPass.CutOff,
		Order:           mn.LowPass.Order,
		NoiseThreshold:  NoiseThreshold,
		Epsilon:         Epsilon,
		Trainable:       mn.Trainable,
		ReturnInput:     mn.ReturnInput,
		ReturnPhase:     mn.ReturnPhase,
		ReturnOri:       mn.ReturnOri,
		ReturnPhaseAsym: mn.ReturnPhaseAsym,
	}
}

// BuildFilters rebuilds the frequency mesh, the Butterworth mask, the
// log-Gabor masks, and the packed Riesz transfer function for the given
// image size, from the current parameter codes.
func (mn *Mono) BuildFilters(rows, cols int) ([]complex128, error) {
	mn.Grid.Build(rows, cols)
	if err := mn.LowPass.Build(&mn.Grid, &mn.LowPassMask); err != nil {
		return nil, err
	}
	lgabor.Build(&mn.Grid.Radius, mn.DecodedWavelengths(), mn.DecodedSigmaOnF(), &mn.GaborMasks)
	return riesz.Build(&mn.Grid), nil
}

// Filter runs the filter bank over a batch of images.  in must be shaped
// [batch][chan][rows][cols]; out is reshaped to [batch][feature][rows][cols]
// with the enabled feature channels in the order input, phase, orientation,
// phase asymmetry.  Per-scale responses are summed over scales and input
// channels before feature extraction, and phase and orientation maps are
// min-max normalized per sample.
func (mn *Mono) Filter(cx *fft2.Ctx, in, out *etensor.Float32) error {
	if len(mn.WlCodes) == 0 {
		err := &ConfigError{Option: "WlCodes", Value: nil, Reason: "Init must be called before Filter"}
		log.Println(err)
		return err
	}
	if in.NumDims() != 4 {
		err := &ConfigError{Option: "input", Value: in.NumDims(), Reason: "input tensor must be 4D [batch][chan][rows][cols]"}
		log.Println(err)
		return err
	}
	nb, nc, rows, cols := in.Dim(0), in.Dim(1), in.Dim(2), in.Dim(3)
	h, err := mn.BuildFilters(rows, cols)
	if err != nil {
		return err
	}
	nk := mn.NOut()
	out.SetShape([]int{nb, nk, rows, cols}, nil, []string{"Batch", "Feature", "Y", "X"})

	n := rows * cols
	im := make([]complex128, n)
	hbuf := make([]complex128, n)
	f := make([]float32, n)
	h1 := make([]float32, n)
	h2 := make([]float32, n)
	an := make([]float32, n)
	sym := make([]float32, n)

	for b := 0; b < nb; b++ {
		for i := 0; i < n; i++ {
			f[i], h1[i], h2[i], an[i], sym[i] = 0, 0, 0, 0, 0
		}
		for c := 0; c < nc; c++ {
			img := in.Values[(b*nc+c)*n : (b*nc+c+1)*n]
			ft := make([]complex128, n)
			for i, v := range img {
				ft[i] = complex(float64(v), 0)
			}
			cx.Forward(ft, rows, cols)
			for s := 0; s < mn.NScale; s++ {
				moff := s * n
				for i := range im {
					m := float64(mn.GaborMasks.Values[moff+i] * mn.LowPassMask.Values[i])
					im[i] = ft[i] * complex(m, 0)
				}
				im[0] = 0 // band-pass filters pass no zero-frequency energy
				for i := range hbuf {
					hbuf[i] = im[i] * h[i]
				}
				cx.Inverse(im, rows, cols)
				cx.Inverse(hbuf, rows, cols)
				for i := 0; i < n; i++ {
					fs := float32(real(im[i]))
					h1s := float32(real(hbuf[i]))
					h2s := float32(imag(hbuf[i]))
					odd2 := h1s*h1s + h2s*h2s
					f[i] += fs
					h1[i] += h1s
					h2[i] += h2s
					an[i] += math32.Sqrt(fs*fs + odd2)
					sym[i] += math32.Sqrt(odd2) - math32.Abs(fs)
				}
			}
		}
		ki := 0
		if mn.ReturnInput {
			dst := out.Values[(b*nk+ki)*n : (b*nk+ki+1)*n]
			for i := range dst {
				dst[i] = 0
			}
			for c := 0; c < nc; c++ {
				img := in.Values[(b*nc+c)*n : (b*nc+c+1)*n]
				for i, v := range img {
					dst[i] += v
				}
			}
			ki++
		}
		if mn.ReturnPhase {
			phaseFeature(f, h1, h2, out.Values[(b*nk+ki)*n:(b*nk+ki+1)*n])
			ki++
		}
		if mn.ReturnOri {
			orientFeature(h1, h2, out.Values[(b*nk+ki)*n:(b*nk+ki+1)*n])
			ki++
		}
		if mn.ReturnPhaseAsym {
			asymFeature(sym, an, out.Values[(b*nk+ki)*n:(b*nk+ki+1)*n])
		}
	}

	if mn.Kwta.On {
		mn.kwtaSharpen(out, nb, nk, rows, cols)
	}
	return nil
}

// kwtaSharpen applies kwta inhibition to each feature map in place, skipping
// the input echo channel when present.
func (mn *Mono) kwtaSharpen(out *etensor.Float32, nb, nk, rows, cols int) {
	mn.ExtGi.SetShape([]int{rows, cols}, nil, nil)
	mn.ExtGi.SetZeros()
	var kw etensor.Float32
	kw.SetShape([]int{rows, cols}, nil, nil)
	n := rows * cols
	for b := 0; b < nb; b++ {
		for ki := 0; ki < nk; ki++ {
			if mn.ReturnInput && ki == 0 {
				continue
			}
			raw := out.SubSpace([]int{b, ki}).(*etensor.Float32)
			kw.CopyFrom(raw)
			mn.Kwta.KWTALayer(raw, &kw, &mn.ExtGi)
			copy(out.Values[(b*nk+ki)*n:(b*nk+ki+1)*n], kw.Values)
		}
	}
}
