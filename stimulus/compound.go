// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stimulus

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
)

// Plaid sums the component gratings pointwise. All components are validated
// and must share SizeX, SizeY and Duration. Samples lie within the sum of the
// component amplitudes.
func Plaid(grs []Grating, dp display.Params) (*etensor.Float64, error) {
	if len(grs) == 0 {
		return nil, fmt.Errorf("plaid needs at least one grating: %w", display.ErrDomain)
	}
	g0 := &grs[0]
	for i := range grs {
		gr := &grs[i]
		if err := gr.Validate(dp); err != nil {
			return nil, fmt.Errorf("plaid component %d: %w", i, err)
		}
		if gr.SizeX != g0.SizeX || gr.SizeY != g0.SizeY || gr.Duration != g0.Duration {
			return nil, fmt.Errorf("plaid component %d extent %vx%v deg, %v sec differs from %vx%v deg, %v sec: %w",
				i, gr.SizeX, gr.SizeY, gr.Duration, g0.SizeX, g0.SizeY, g0.Duration, display.ErrDomain)
		}
	}
	stim := etensor.NewFloat64(g0.Shape(dp), nil, []string{"Frame", "Y", "X"})
	for i := range grs {
		grs[i].add(stim, dp, 1)
	}
	slog.Debug("plaid generated", "components", len(grs), "shape", stim.Shapes())
	return stim, nil
}

// Counterphase renders the standing wave obtained by averaging the grating with
// its mirror drifting the opposite way:
// A*cos(2*pi*fs*x_rot + phase) * cos(2*pi*ft*t).
// It carries no net motion, so opposite directions respond equally.
func Counterphase(gr Grating, dp display.Params) (*etensor.Float64, error) {
	if err := gr.Validate(dp); err != nil {
		return nil, err
	}
	stim := etensor.NewFloat64(gr.Shape(dp), nil, []string{"Frame", "Y", "X"})
	nf, ny, nx := stim.Dim(0), stim.Dim(1), stim.Dim(2)
	fs := display.CyclesPerPx(gr.Freq, dp.PixelPitch)
	ft := display.CyclesPerFrame(gr.TemporalFreq(), dp.FrameRate)
	angR := gr.Angle * math.Pi / 180
	kx := 2 * math.Pi * fs * math.Cos(angR)
	ky := 2 * math.Pi * fs * math.Sin(angR)

	// spatial profile once, scaled per frame
	prof := make([]float64, ny*nx)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			prof[y*nx+x] = gr.Amplitude * math.Cos(kx*float64(x)+ky*float64(y)+gr.Phase)
		}
	}
	for t := 0; t < nf; t++ {
		tc := math.Cos(2 * math.Pi * ft * float64(t))
		fr := stim.Values[t*ny*nx : (t+1)*ny*nx]
		for i, v := range prof {
			fr[i] = v * tc
		}
	}
	slog.Debug("counterphase generated", "shape", stim.Shapes(), "tfreq", gr.TemporalFreq())
	return stim, nil
}
