package reparam

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Wavelength bounds in pixels, shared by every scale of the filter bank.
// Per nyquist the smallest representable wavelength is 2 pixels -- 3 is used
// to stay clear of aliasing.  128 is a practical ceiling on the coarsest
// structure of interest.
const (
	MinWavelength = 3.0
	MaxWavelength = 128.0
)

// BandwidthCodeSigma is the std dev of the random bandwidth code init, which
// keeps the decoded starting bandwidth near 0.5.
const BandwidthCodeSigma = 0.05

// Sigmoid maps an unconstrained code to (0,1)
func Sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}

// Logit is the inverse of Sigmoid, mapping (0,1) back to an unconstrained code
func Logit(p float32) float32 {
	return math32.Log(p / (1.0 - p))
}

// DecodeWavelength maps an unconstrained code to a wavelength in
// (MinWavelength, MaxWavelength)
func DecodeWavelength(code float32) float32 {
	return MinWavelength + Sigmoid(code)*(MaxWavelength-MinWavelength)
}

// EncodeWavelength maps a wavelength in (MinWavelength, MaxWavelength) to its
// unconstrained code.  Wavelengths at or outside the bounds produce an
// infinite code; callers validate before encoding.
func EncodeWavelength(wl float32) float32 {
	return Logit((wl - MinWavelength) / (MaxWavelength - MinWavelength))
}

// DecodeBandwidth maps an unconstrained code to a relative bandwidth in (0,1)
func DecodeBandwidth(code float32) float32 {
	return Sigmoid(code)
}

// EncodeBandwidth maps a relative bandwidth in (0,1) to its unconstrained code
func EncodeBandwidth(bw float32) float32 {
	return Logit(bw)
}

// WavelengthCodes returns the initial unconstrained wavelength codes for
// nscale scales.  Explicit wavelengths are encoded one per scale; a nil slice
// draws each code from a standard normal.  rnd may be nil to use the global
// source.
func WavelengthCodes(wls []float32, nscale int, rnd *rand.Rand) []float32 {
	codes := make([]float32, nscale)
	if wls == nil {
		for i := range codes {
			codes[i] = float32(normFloat64(rnd))
		}
		return codes
	}
	for i, wl := range wls {
		codes[i] = EncodeWavelength(wl)
	}
	return codes
}

// BandwidthCode returns the initial unconstrained bandwidth code.  An
// explicit sigmaonf in (0,1) is encoded; zero draws a code from a normal with
// a small std dev, biasing the decoded bandwidth near 0.5.
func BandwidthCode(sigmaonf float32, rnd *rand.Rand) float32 {
	if sigmaonf == 0 {
		return float32(normFloat64(rnd)) * BandwidthCodeSigma
	}
	return EncodeBandwidth(sigmaonf)
}

func normFloat64(rnd *rand.Rand) float64 {
	if rnd == nil {
		return rand.NormFloat64()
	}
	return rnd.NormFloat64()
}
