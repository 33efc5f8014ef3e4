// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mono

import (
	"math/rand"
	"testing"

	"github.com/alvinkimbowa/mono/fft2"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

func TestInitConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		mod  func(mn *Mono)
	}{
		{"nscale zero", func(mn *Mono) { mn.NScale = 0 }},
		{"nscale negative", func(mn *Mono) { mn.NScale = -2 }},
		{"sigmaonf negative", func(mn *Mono) { mn.SigmaOnF = -0.2 }},
		{"sigmaonf too large", func(mn *Mono) { mn.SigmaOnF = 1.5 }},
		{"wavelength count mismatch", func(mn *Mono) { mn.NScale = 2; mn.Wavelengths = []float32{6} }},
		{"negative wavelength", func(mn *Mono) { mn.Wavelengths = []float32{-3} }},
		{"cutoff zero", func(mn *Mono) { mn.LowPass.CutOff = 0 }},
		{"cutoff too large", func(mn *Mono) { mn.LowPass.CutOff = 0.6 }},
		{"order zero", func(mn *Mono) { mn.LowPass.Order = 0 }},
		{"no output channels", func(mn *Mono) { mn.ReturnPhase = false }},
	}
	for _, cs := range cases {
		var mn Mono
		mn.Defaults()
		cs.mod(&mn)
		err := mn.Init(rand.New(rand.NewSource(1)))
		if err == nil {
			t.Errorf("%s: expected an error from Init", cs.name)
			continue
		}
		if _, ok := err.(*ConfigError); !ok {
			t.Errorf("%s: got %T, want *ConfigError", cs.name, err)
		}
	}
}

func TestInitValid(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.NScale = 3
	if err := mn.Init(rand.New(rand.NewSource(7))); err != nil {
		t.Fatal(err)
	}
	if len(mn.WlCodes) != 3 {
		t.Errorf("got %d wavelength codes, want 3", len(mn.WlCodes))
	}
	for i, wl := range mn.DecodedWavelengths() {
		if wl <= 3.0 || wl >= 128.0 {
			t.Errorf("decoded wavelength %d = %v outside (3, 128)", i, wl)
		}
	}
	if s := mn.DecodedSigmaOnF(); s <= 0 || s >= 1 {
		t.Errorf("decoded sigma-on-f %v outside (0, 1)", s)
	}
}

func TestSnapshotExplicit(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.NScale = 2
	mn.Wavelengths = []float32{6, 30}
	mn.SigmaOnF = 0.55
	if err := mn.Init(nil); err != nil {
		t.Fatal(err)
	}
	snap := mn.Snapshot()
	if snap.NScale != 2 {
		t.Errorf("snapshot NScale = %d, want 2", snap.NScale)
	}
	want := []float32{6, 30}
	for i, wl := range snap.Wavelengths {
		if math32.Abs(wl-want[i]) > 1e-4 {
			t.Errorf("snapshot wavelength %d = %v, want %v", i, wl, want[i])
		}
	}
	if math32.Abs(snap.SigmaOnF-0.55) > 1e-4 {
		t.Errorf("snapshot sigma-on-f = %v, want 0.55", snap.SigmaOnF)
	}
	if snap.CutOff != 0.4 || snap.Order != 10 {
		t.Errorf("snapshot low-pass = (%v, %d), want (0.4, 10)", snap.CutOff, snap.Order)
	}
}

func TestParamsTrainableGate(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.NScale = 2
	mn.Wavelengths = []float32{6, 30}
	mn.SigmaOnF = 0.55
	if err := mn.Init(nil); err != nil {
		t.Fatal(err)
	}
	ps := mn.Params()
	if len(ps) != 3 {
		t.Fatalf("got %d params, want 3", len(ps))
	}
	upd := []float32{ps[0] + 0.5, ps[1] - 0.5, ps[2] + 0.1}
	mn.SetParams(upd)
	got := mn.Params()
	for i := range upd {
		if got[i] != upd[i] {
			t.Errorf("param %d = %v after SetParams, want %v", i, got[i], upd[i])
		}
	}

	mn.Trainable = false
	if mn.Params() != nil {
		t.Error("Params should return nil when not trainable")
	}
	mn.SetParams([]float32{0, 0, 0})
	mn.Trainable = true
	after := mn.Params()
	for i := range upd {
		if after[i] != upd[i] {
			t.Errorf("param %d changed by SetParams while not trainable", i)
		}
	}
}

func TestFilterNotInitialized(t *testing.T) {
	var mn Mono
	mn.Defaults()
	var in, out etensor.Float32
	in.SetShape([]int{1, 1, 8, 8}, nil, nil)
	err := mn.Filter(fft2.NewCtx(), &in, &out)
	if err == nil {
		t.Fatal("expected an error from Filter before Init")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("got %T, want *ConfigError", err)
	}
}

func TestFilterChannelsAndEcho(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.Wavelengths = []float32{6}
	mn.SigmaOnF = 0.55
	mn.ReturnInput = true
	mn.ReturnOri = true
	mn.ReturnPhaseAsym = true
	if err := mn.Init(nil); err != nil {
		t.Fatal(err)
	}
	if mn.NOut() != 4 {
		t.Fatalf("NOut = %d, want 4", mn.NOut())
	}

	rows, cols := 16, 16
	var in, out etensor.Float32
	in.SetShape([]int{2, 1, rows, cols}, nil, nil)
	rnd := rand.New(rand.NewSource(42))
	for i := range in.Values {
		in.Values[i] = rnd.Float32()
	}
	if err := mn.Filter(fft2.NewCtx(), &in, &out); err != nil {
		t.Fatal(err)
	}
	if out.Dim(0) != 2 || out.Dim(1) != 4 || out.Dim(2) != rows || out.Dim(3) != cols {
		t.Fatalf("output shape = %v, want [2 4 %d %d]", out.Shape.Shp, rows, cols)
	}
	// the echo channel repeats the single input channel exactly
	n := rows * cols
	for b := 0; b < 2; b++ {
		src := in.Values[b*n : (b+1)*n]
		echo := out.Values[b*4*n : b*4*n+n]
		for i := range src {
			if echo[i] != src[i] {
				t.Fatalf("sample %d echo[%d] = %v, want %v", b, i, echo[i], src[i])
			}
		}
	}
	// phase and orientation are normalized, asymmetry is a bounded ratio
	for b := 0; b < 2; b++ {
		for ki := 1; ki < 4; ki++ {
			ch := out.Values[(b*4+ki)*n : (b*4+ki+1)*n]
			for i, v := range ch {
				if v < 0 || v > 1 {
					t.Fatalf("sample %d channel %d value %d = %v outside [0,1]", b, ki, i, v)
				}
			}
		}
	}
}

func TestFilterConstantImage(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.Wavelengths = []float32{6}
	mn.SigmaOnF = 0.55
	mn.ReturnPhaseAsym = true
	if err := mn.Init(nil); err != nil {
		t.Fatal(err)
	}

	var in, out etensor.Float32
	in.SetShape([]int{1, 1, 16, 16}, nil, nil)
	for i := range in.Values {
		in.Values[i] = 0.5
	}
	if err := mn.Filter(fft2.NewCtx(), &in, &out); err != nil {
		t.Fatal(err)
	}
	// a flat image has no energy outside the excluded zero-frequency bin,
	// so the asymmetry ratio stays at the epsilon-guarded zero
	n := 16 * 16
	asym := out.Values[n : 2*n]
	for i, v := range asym {
		if math32.Abs(v) > 1e-3 {
			t.Errorf("asymmetry[%d] = %v for a constant image, want ~0", i, v)
		}
	}
}

func TestFilterKwta(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.Wavelengths = []float32{8}
	mn.SigmaOnF = 0.55
	mn.ReturnOri = true
	mn.Kwta.On = true
	if err := mn.Init(nil); err != nil {
		t.Fatal(err)
	}

	rows, cols := 16, 16
	var in, out etensor.Float32
	in.SetShape([]int{1, 1, rows, cols}, nil, nil)
	rnd := rand.New(rand.NewSource(11))
	for i := range in.Values {
		in.Values[i] = rnd.Float32()
	}
	if err := mn.Filter(fft2.NewCtx(), &in, &out); err != nil {
		t.Fatal(err)
	}
	if out.Dim(0) != 1 || out.Dim(1) != 2 || out.Dim(2) != rows || out.Dim(3) != cols {
		t.Fatalf("output shape = %v, want [1 2 %d %d]", out.Shape.Shp, rows, cols)
	}
	for i, v := range out.Values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			t.Fatalf("non-finite value %v at %d after kwta", v, i)
		}
	}
}

func TestFilterSinusoidPhase(t *testing.T) {
	var mn Mono
	mn.Defaults()
	mn.Wavelengths = []float32{10}
	mn.SigmaOnF = 0.55
	if err := mn.Init(nil); err != nil {
		t.Fatal(err)
	}

	rows, cols := 64, 64
	var in, out etensor.Float32
	in.SetShape([]int{1, 1, rows, cols}, nil, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			in.Values[y*cols+x] = math32.Cos(2 * math32.Pi * float32(x) / 10)
		}
	}
	if err := mn.Filter(fft2.NewCtx(), &in, &out); err != nil {
		t.Fatal(err)
	}
	// the stimulus varies only along x, so the phase map must be constant
	// down every column
	for x := 0; x < cols; x++ {
		ref := out.Values[x]
		for y := 1; y < rows; y++ {
			v := out.Values[y*cols+x]
			if math32.Abs(v-ref) > 1e-4 {
				t.Fatalf("phase[%d,%d] = %v, want %v (column not constant)", y, x, v, ref)
			}
		}
	}
}
