// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// column copies filter column ci of a [Frame, Filter] tensor into dst
func column(dst []float64, e *etensor.Float64, ci int) []float64 {
	nf, nfilt := e.Dim(0), e.Dim(1)
	if len(dst) != nf {
		dst = make([]float64, nf)
	}
	for f := 0; f < nf; f++ {
		dst[f] = e.Values[f*nfilt+ci]
	}
	return dst
}

// FrameMean returns the mean energy over frames of each filter, shape [Filter]
func FrameMean(e *etensor.Float64) (*etensor.Float64, error) {
	if err := checkEnergy(e); err != nil {
		return nil, err
	}
	nfilt := e.Dim(1)
	mn := etensor.NewFloat64([]int{nfilt}, nil, []string{"Filter"})
	var col []float64
	for ci := 0; ci < nfilt; ci++ {
		col = column(col, e, ci)
		mn.Values[ci] = stat.Mean(col, nil)
	}
	return mn, nil
}

// Opponent returns the per-frame difference between filter columns a and b,
// shape [Frame]. With a and b tuned to opposite directions this is an opponent
// motion signal.
func Opponent(e *etensor.Float64, a, b int) (*etensor.Float64, error) {
	if err := checkEnergy(e); err != nil {
		return nil, err
	}
	nf, nfilt := e.Dim(0), e.Dim(1)
	if a < 0 || a >= nfilt || b < 0 || b >= nfilt {
		return nil, fmt.Errorf("opponent filters %d, %d outside [0, %d): %w", a, b, nfilt, ErrShape)
	}
	op := etensor.NewFloat64([]int{nf}, nil, []string{"Frame"})
	for f := 0; f < nf; f++ {
		op.Values[f] = e.Values[f*nfilt+a] - e.Values[f*nfilt+b]
	}
	return op, nil
}

// Normalize divides the energy of each frame by the summed energy of all
// filters in that frame plus eps, which must be > 0.
func Normalize(e *etensor.Float64, eps float64) (*etensor.Float64, error) {
	if err := checkEnergy(e); err != nil {
		return nil, err
	}
	if !(eps > 0) {
		return nil, fmt.Errorf("normalization eps %v must be > 0: %w", eps, display.ErrDomain)
	}
	nf, nfilt := e.Dim(0), e.Dim(1)
	ne := etensor.NewFloat64([]int{nf, nfilt}, nil, []string{"Frame", "Filter"})
	copy(ne.Values, e.Values)
	for f := 0; f < nf; f++ {
		row := ne.Values[f*nfilt : (f+1)*nfilt]
		floats.Scale(1/(floats.Sum(row)+eps), row)
	}
	return ne, nil
}

// TuningCurve returns the orientation tuning of one frequency row of a
// [Freq, Angle] heatmap
func TuningCurve(hm *etensor.Float64, freqIdx int) ([]float64, error) {
	if hm == nil || hm.NumDims() != 2 {
		return nil, fmt.Errorf("heatmap must be [Freq, Angle]: %w", ErrShape)
	}
	nfq, nang := hm.Dim(0), hm.Dim(1)
	if freqIdx < 0 || freqIdx >= nfq {
		return nil, fmt.Errorf("frequency index %d outside [0, %d): %w", freqIdx, nfq, ErrShape)
	}
	tc := make([]float64, nang)
	copy(tc, hm.Values[freqIdx*nang:(freqIdx+1)*nang])
	return tc, nil
}

// PopulationVector decodes a preferred angle (deg) from responses resp of units
// tuned to anglesDeg by summing unit vectors weighted by response. Strength is
// the length of the summed vector relative to the summed response, in [0, 1]
// for non-negative responses. If axial, angles are orientations with period
// 180: they are doubled before summing and the result is halved, in [0, 180).
// Otherwise the result is a direction in [0, 360).
func PopulationVector(resp, anglesDeg []float64, axial bool) (angle, strength float64, err error) {
	if len(resp) != len(anglesDeg) || len(resp) == 0 {
		return 0, 0, fmt.Errorf("%d responses for %d angles: %w", len(resp), len(anglesDeg), ErrShape)
	}
	mult := 1.0
	if axial {
		mult = 2
	}
	var sx, sy float64
	for i, r := range resp {
		th := mult * anglesDeg[i] * math.Pi / 180
		sx += r * math.Cos(th)
		sy += r * math.Sin(th)
	}
	per := 360.0
	if axial {
		per = 180
	}
	angle = math.Atan2(sy, sx) * 180 / math.Pi / mult
	angle = math.Mod(angle+per, per)
	if tot := floats.Sum(resp); tot != 0 {
		strength = math.Hypot(sx, sy) / tot
	}
	return angle, strength, nil
}

// ColumnRMSE returns the root mean square difference over frames of each filter
// column of two energy tensors of identical shape
func ColumnRMSE(a, b *etensor.Float64) ([]float64, error) {
	if err := checkEnergy(a); err != nil {
		return nil, err
	}
	if err := checkEnergy(b); err != nil {
		return nil, err
	}
	if a.Dim(0) != b.Dim(0) || a.Dim(1) != b.Dim(1) {
		return nil, fmt.Errorf("energy shapes %v and %v differ: %w", a.Shapes(), b.Shapes(), ErrShape)
	}
	nfilt := a.Dim(1)
	rmse := make([]float64, nfilt)
	var ca, cb []float64
	for ci := 0; ci < nfilt; ci++ {
		ca = column(ca, a, ci)
		cb = column(cb, b, ci)
		rmse[ci] = floats.Distance(ca, cb, 2) / math.Sqrt(float64(len(ca)))
	}
	return rmse, nil
}
