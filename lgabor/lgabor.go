package lgabor

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// Build renders one log-Gabor mask per scale into masks, shaped
// (len(wls), rows, cols).  Each mask is a gaussian on the log frequency axis
// centered on fo = 1/wls[s] with relative bandwidth bw in (0,1):
//
//	mask = exp(-(log(radius/fo))^2 / (2*log(bw)^2))
//
// The zero frequency entry is computed against a radius of 1 so the log is
// defined; the physical log-Gabor response at zero frequency is zero, and the
// zero entry of the combined filter is forced to 0 downstream once the
// low-pass mask has been applied.
func Build(radius *etensor.Float32, wls []float32, bw float32, masks *etensor.Float32) {
	rows := radius.Dim(0)
	cols := radius.Dim(1)
	masks.SetShape([]int{len(wls), rows, cols}, nil, []string{"Scale", "Y", "X"})

	logBw := math32.Log(bw)
	denom := 2.0 * logBw * logBw
	n := rows * cols
	for s, wl := range wls {
		fo := 1.0 / wl
		off := s * n
		for i, r := range radius.Values[:n] {
			if r == 0 {
				r = 1
			}
			lg := math32.Log(r / fo)
			masks.Values[off+i] = math32.Exp(-(lg * lg) / denom)
		}
	}
}
