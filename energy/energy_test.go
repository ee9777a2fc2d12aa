// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"errors"
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
	"github.com/emer/motionenergy/gabor"
	"github.com/emer/motionenergy/stimulus"
	"gonum.org/v1/gonum/floats"
)

// difTol is the tolerance for values that agree up to rounding
const difTol = 1.0e-9

// phaseTol is the relative tolerance on frame-mean energy between stimulus phases
const phaseTol = 1.0e-6

// rmseTol bounds the frame-wise difference between phases, relative to the
// largest frame-mean energy, on the full-size display
const rmseTol = 1.0e-2

func newBank(t *testing.T, freqs, angles []float64, pitch float64) *gabor.Bank {
	t.Helper()
	gp := gabor.Params{}
	gp.Defaults()
	bk, err := gabor.NewBank(freqs, angles, pitch, gp)
	if err != nil {
		t.Fatal(err)
	}
	return bk
}

// smallGrating is a 3 x 3 deg grating drifting at 0.5 Hz for 1 sec on a
// 60 Hz, 0.1 deg / px display: 60 frames spanning one period of the squared
// response.
func smallGrating(t *testing.T, phase, dur float64) (*etensor.Float64, display.Params) {
	t.Helper()
	dp := display.Params{FrameRate: 60, PixelPitch: 0.1}
	gr := stimulus.Grating{Speed: 1, SizeX: 3, SizeY: 3, Angle: 45, Phase: phase, Freq: 0.5, Amplitude: 1, Duration: dur}
	stim, err := gr.Generate(dp)
	if err != nil {
		t.Fatal(err)
	}
	return stim, dp
}

func maxAbsDiff(a, b []float64) float64 {
	mx := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > mx {
			mx = d
		}
	}
	return mx
}

func TestReflectIdx(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0}, {4, 5, 4}, {-1, 5, 1}, {-4, 5, 4}, {-5, 5, 3},
		{5, 5, 3}, {8, 5, 0}, {9, 5, 1}, {-3, 1, 0}, {2, 2, 0}, {-1, 2, 1},
	}
	for _, tt := range tests {
		if got := reflectIdx(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectIdx(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	frame := []float64{1, 2, 3, 4, 5, 6} // 2 x 3
	g := newGeom(2, 3, 5)
	if g.p != 2 || g.py != 6 || g.px != 7 {
		t.Fatalf("geom %+v", g)
	}
	dst := make([]float64, g.py*g.px)
	for i := range dst {
		dst[i] = -1
	}
	g.pad(dst, frame, BorderZero)
	if dst[0] != 0 || dst[2*7+2] != 1 || dst[3*7+4] != 6 || dst[5*7+6] != 0 {
		t.Errorf("zero pad wrong: %v", dst)
	}
	if floats.Sum(dst) != 21 {
		t.Errorf("zero pad sum %v, want 21", floats.Sum(dst))
	}

	g.pad(dst, frame, BorderReflect)
	// padded row 1 is frame row 1, padded col 1 is frame col 1
	if got := dst[1*7+1]; got != 5 {
		t.Errorf("reflect corner %v, want 5", got)
	}
	// padded col 5 is frame col 1, padded row 4 is frame row 0
	if got := dst[4*7+5]; got != 2 {
		t.Errorf("reflect edge %v, want 2", got)
	}
}

func TestComputeShape(t *testing.T) {
	stim, dp := smallGrating(t, 0, 0.1)
	bk := newBank(t, []float64{0.5, 1}, []float64{0, 45, 90, 135}, dp.PixelPitch)
	for _, bm := range []BorderModes{BorderZero, BorderReflect} {
		ep := Params{}
		ep.Defaults()
		ep.Border = bm
		e, err := ep.Compute(stim, bk)
		if err != nil {
			t.Fatal(err)
		}
		if e.NumDims() != 2 || e.Dim(0) != stim.Dim(0) || e.Dim(1) != bk.Len() {
			t.Fatalf("%v: shape %v, want [%d %d]", bm, e.Shapes(), stim.Dim(0), bk.Len())
		}
		for _, v := range e.Values {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%v: energy %v not finite and non-negative", bm, v)
			}
		}
	}
}

func TestFFTMatchesDirect(t *testing.T) {
	stim, dp := smallGrating(t, 0.3, 0.1)
	// mixed kernel sizes exercise the centered window of the padded frame
	bk := newBank(t, []float64{1, 3}, []float64{0, 60, 120}, dp.PixelPitch)
	for _, bm := range []BorderModes{BorderZero, BorderReflect} {
		ep := Params{}
		ep.Defaults()
		ep.Border = bm
		ep.Method = ConvDirect
		de, err := ep.Compute(stim, bk)
		if err != nil {
			t.Fatal(err)
		}
		ep.Method = ConvFFT
		fe, err := ep.Compute(stim, bk)
		if err != nil {
			t.Fatal(err)
		}
		scale := floats.Max(de.Values)
		if d := maxAbsDiff(de.Values, fe.Values); d > difTol*scale {
			t.Errorf("%v: fft and direct differ by %g (scale %g)", bm, d, scale)
		}
	}
}

func TestWorkersAgree(t *testing.T) {
	stim, dp := smallGrating(t, 0, 0.2)
	bk := newBank(t, []float64{1}, []float64{0, 90}, dp.PixelPitch)
	ep := Params{}
	ep.Defaults()
	ep.Workers = 1
	e1, err := ep.Compute(stim, bk)
	if err != nil {
		t.Fatal(err)
	}
	ep.Workers = 5
	e5, err := ep.Compute(stim, bk)
	if err != nil {
		t.Fatal(err)
	}
	for i := range e1.Values {
		if e1.Values[i] != e5.Values[i] {
			t.Fatalf("index %d: 1 worker %v, 5 workers %v", i, e1.Values[i], e5.Values[i])
		}
	}
}

func TestUniformReflect(t *testing.T) {
	// a reflected constant frame stays constant, and every kernel has zero mean
	stim := etensor.NewFloat64([]int{2, 12, 9}, nil, []string{"Frame", "Y", "X"})
	for i := range stim.Values {
		stim.Values[i] = 0.7
	}
	bk := newBank(t, []float64{1, 2}, []float64{0, 45}, 0.1)
	for _, cm := range []ConvMethods{ConvDirect, ConvFFT} {
		ep := Params{}
		ep.Defaults()
		ep.Border = BorderReflect
		ep.Method = cm
		e, err := ep.Compute(stim, bk)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range e.Values {
			if math.Abs(v) > difTol {
				t.Errorf("%v: filter %d energy %v, want 0", cm, i, v)
			}
		}
	}
}

func TestComputeErrors(t *testing.T) {
	stim, dp := smallGrating(t, 0, 0.05)
	bk := newBank(t, []float64{1}, []float64{0, 90}, dp.PixelPitch)

	bad := *bk
	bad.Odd = bad.Odd[:1]
	if _, err := Compute(stim, &bad); !errors.Is(err, gabor.ErrMismatch) {
		t.Errorf("mismatched bank: err = %v, want ErrMismatch", err)
	}
	if _, err := Compute(stim, nil); !errors.Is(err, gabor.ErrMismatch) {
		t.Errorf("nil bank: err = %v, want ErrMismatch", err)
	}
	flat := etensor.NewFloat64([]int{10, 10}, nil, nil)
	if _, err := Compute(flat, bk); !errors.Is(err, ErrShape) {
		t.Errorf("2d stimulus: err = %v, want ErrShape", err)
	}
	ep := Params{}
	ep.Defaults()
	ep.Workers = -1
	if _, err := ep.Compute(stim, bk); !errors.Is(err, display.ErrDomain) {
		t.Errorf("negative workers: err = %v, want ErrDomain", err)
	}
}

func TestUseFFT(t *testing.T) {
	bk := &gabor.Bank{MaxSize: 15}
	ep := Params{}
	ep.Defaults()
	if ep.UseFFT(bk) {
		t.Error("auto should use direct at FFTMinSize")
	}
	bk.MaxSize = 17
	if !ep.UseFFT(bk) {
		t.Error("auto should use fft above FFTMinSize")
	}
	ep.Method = ConvDirect
	if ep.UseFFT(bk) {
		t.Error("direct method selected fft")
	}
}

func TestMemEstimate(t *testing.T) {
	bk := newBank(t, []float64{0.2, 0.5, 1}, []float64{0, 45, 90, 135}, 0.02)
	if bk.MaxSize != 751 {
		t.Fatalf("largest kernel %d, want 751", bk.MaxSize)
	}
	ep := Params{}
	ep.Defaults()
	ep.Workers = 1
	shp := []int{120, 250, 250}
	grid := int64(1000 * 1000)
	want := int64(120*12*8) + grid*8 + 12*grid*16 + 2*grid*16
	if got := ep.MemEstimate(shp, bk); got != want {
		t.Errorf("fft estimate %d, want %d", got, want)
	}
	ep.Method = ConvDirect
	if got := ep.MemEstimate(shp, bk); got != int64(120*12*8)+grid*8 {
		t.Errorf("direct estimate %d", got)
	}
}

// checkPhaseInvariant compares frame-mean energy between two stimulus phases.
// The boundary term that varies frame to frame cancels over whole periods of
// the squared response, so the means agree up to rounding. It returns the
// per-filter frame-wise rmse and the largest frame-mean energy.
func checkPhaseInvariant(t *testing.T, e0, e1 *etensor.Float64) ([]float64, float64) {
	t.Helper()
	m0, err := FrameMean(e0)
	if err != nil {
		t.Fatal(err)
	}
	m1, err := FrameMean(e1)
	if err != nil {
		t.Fatal(err)
	}
	scale := floats.Max(m0.Values)
	if d := maxAbsDiff(m0.Values, m1.Values); d > phaseTol*scale {
		t.Errorf("frame-mean energy differs by %g between phases (scale %g)", d, scale)
	}
	rmse, err := ColumnRMSE(e0, e1)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("per-filter frame-wise rmse: %v", rmse)
	return rmse, scale
}

func TestPhaseInvariance(t *testing.T) {
	s0, dp := smallGrating(t, 0, 1)
	s1, _ := smallGrating(t, math.Pi/2, 1)
	freqs := []float64{0.5, 1}
	angles := []float64{0, 45, 90, 135}
	bk := newBank(t, freqs, angles, dp.PixelPitch)
	for _, bm := range []BorderModes{BorderZero, BorderReflect} {
		ep := Params{}
		ep.Defaults()
		ep.Border = bm
		e0, err := ep.Compute(s0, bk)
		if err != nil {
			t.Fatal(err)
		}
		e1, err := ep.Compute(s1, bk)
		if err != nil {
			t.Fatal(err)
		}
		checkPhaseInvariant(t, e0, e1)
		if bm != BorderZero {
			continue
		}

		// the matched filter dominates the stimulus frequency row; mirrored
		// borders add content at other orientations, so only zero borders
		// are checked
		hm, err := Summarize(e0, freqs, angles)
		if err != nil {
			t.Fatal(err)
		}
		tc, _ := TuningCurve(hm, 0)
		if mi := floats.MaxIdx(tc); angles[mi] != 45 {
			t.Errorf("%v: preferred angle %v, want 45 (tuning %v)", bm, angles[mi], tc)
		}
	}
}

func TestEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size scenario: 250 x 250 px, 120 frames, 751 px kernels")
	}
	dp := display.Params{}
	dp.Defaults()
	freqs := []float64{0.2, 0.5, 1}
	angles := []float64{0, 45, 90, 135}
	bk := newBank(t, freqs, angles, dp.PixelPitch)
	var es [2]*etensor.Float64
	for i, ph := range []float64{0, math.Pi / 2} {
		gr := stimulus.Grating{}
		gr.Defaults()
		gr.Phase = ph
		stim, err := gr.Generate(dp)
		if err != nil {
			t.Fatal(err)
		}
		es[i], err = Compute(stim, bk)
		if err != nil {
			t.Fatal(err)
		}
		if es[i].Dim(0) != 120 || es[i].Dim(1) != 12 {
			t.Fatalf("shape %v, want [120 12]", es[i].Shapes())
		}
	}
	rmse, scale := checkPhaseInvariant(t, es[0], es[1])
	if mx := floats.Max(rmse); mx > rmseTol*scale {
		t.Errorf("frame-wise rmse %g between phases exceeds %g x max frame-mean energy %g", mx, rmseTol, scale)
	}
	hm, err := Summarize(es[0], freqs, angles)
	if err != nil {
		t.Fatal(err)
	}
	if hm.Dim(0) != 3 || hm.Dim(1) != 4 {
		t.Errorf("heatmap shape %v, want [3 4]", hm.Shapes())
	}
}

func TestEnumStrings(t *testing.T) {
	if BorderReflect.String() != "BorderReflect" || ConvFFT.String() != "ConvFFT" {
		t.Errorf("names %q %q", BorderReflect.String(), ConvFFT.String())
	}
	var bm BorderModes
	if err := bm.FromString("BorderReflect"); err != nil || bm != BorderReflect {
		t.Errorf("FromString: %v %v", bm, err)
	}
	var cm ConvMethods
	if err := cm.FromString("ConvDirect"); err != nil || cm != ConvDirect {
		t.Errorf("FromString: %v %v", cm, err)
	}
	if err := cm.FromString("Spectral"); err == nil {
		t.Error("unknown method name should fail")
	}
}
