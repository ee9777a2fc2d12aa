// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stimulus generates spatiotemporal sinusoidal gratings from physical
// viewing units (deg, deg / sec, cycles / deg) sampled on a display.
// Generated stimuli are [Frame, Y, X] tensors.
package stimulus

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
)

// Grating is a drifting sinusoidal grating. Speed 0 gives a static grating
// and negative speeds drift opposite to Angle.
// The grating moves along the direction given by Angle, so the relation
// speed = temporal frequency / spatial frequency fixes the temporal frequency.
type Grating struct {
	Speed     float64 `def:"0.5" desc:"drift speed in deg / sec along the Angle direction -- 0 = static, < 0 = reverse"`
	SizeX     float64 `def:"5" desc:"horizontal extent in degrees of visual angle"`
	SizeY     float64 `def:"5" desc:"vertical extent in degrees of visual angle"`
	Angle     float64 `def:"45" desc:"direction of the carrier and of motion, in degrees"`
	Phase     float64 `def:"0" desc:"spatial starting phase in radians"`
	Freq      float64 `def:"0.5" desc:"spatial frequency in cycles / deg"`
	Amplitude float64 `def:"1" desc:"peak amplitude -- samples lie in [-Amplitude, Amplitude]"`
	Duration  float64 `def:"2" desc:"duration in seconds"`
}

// Defaults sets a 5x5 deg, 0.5 cycles / deg grating drifting at 0.5 deg / sec at 45 deg for 2 sec
func (gr *Grating) Defaults() {
	gr.Speed = 0.5
	gr.SizeX = 5
	gr.SizeY = 5
	gr.Angle = 45
	gr.Phase = 0
	gr.Freq = 0.5
	gr.Amplitude = 1
	gr.Duration = 2
}

// TemporalFreq returns the temporal frequency in Hz implied by speed and spatial frequency
func (gr *Grating) TemporalFreq() float64 {
	return gr.Speed * gr.Freq
}

// Shape returns the [Frame, Y, X] sample counts of the grating on display dp
func (gr *Grating) Shape(dp display.Params) []int {
	return []int{
		display.SecToFrames(gr.Duration, dp.FrameRate),
		display.DegToPx(gr.SizeY, dp.PixelPitch),
		display.DegToPx(gr.SizeX, dp.PixelPitch),
	}
}

// Validate checks the numeric domain and both Nyquist limits. It is called by
// Generate before anything is allocated.
func (gr *Grating) Validate(dp display.Params) error {
	if err := dp.Validate(); err != nil {
		return err
	}
	switch {
	case !(gr.Freq > 0):
		return fmt.Errorf("grating spatial frequency %v must be > 0: %w", gr.Freq, display.ErrDomain)
	case !(gr.SizeX > 0) || !(gr.SizeY > 0):
		return fmt.Errorf("grating size %v x %v must be > 0: %w", gr.SizeX, gr.SizeY, display.ErrDomain)
	case !(gr.Duration > 0):
		return fmt.Errorf("grating duration %v must be > 0: %w", gr.Duration, display.ErrDomain)
	case math.IsNaN(gr.Speed) || math.IsInf(gr.Speed, 0):
		return fmt.Errorf("grating speed %v must be finite: %w", gr.Speed, display.ErrDomain)
	case math.IsNaN(gr.Amplitude) || math.IsInf(gr.Amplitude, 0) || math.IsNaN(gr.Phase) || math.IsInf(gr.Phase, 0) || math.IsNaN(gr.Angle) || math.IsInf(gr.Angle, 0):
		return fmt.Errorf("grating amplitude, phase and angle must be finite: %w", display.ErrDomain)
	}
	if err := dp.CheckSpatial(gr.Freq); err != nil {
		return err
	}
	return dp.CheckTemporal(gr.TemporalFreq())
}

// Generate renders the grating on display dp as a [Frame, Y, X] tensor with
// sample A*cos(2*pi*fs*(x*cos(angle) + y*sin(angle)) - 2*pi*ft*t + phase),
// x, y in pixels, t in frames, fs in cycles / px and ft in cycles / frame.
func (gr *Grating) Generate(dp display.Params) (*etensor.Float64, error) {
	if err := gr.Validate(dp); err != nil {
		return nil, err
	}
	st := time.Now()
	shp := gr.Shape(dp)
	stim := etensor.NewFloat64(shp, nil, []string{"Frame", "Y", "X"})
	gr.add(stim, dp, 1)
	slog.Debug("stimulus generated", "shape", shp, "freq", gr.Freq, "fps", dp.FrameRate, "pitch", dp.PixelPitch, "elapsed", time.Since(st))
	return stim, nil
}

// add accumulates scale * grating into stim, which must already be shaped for dp
func (gr *Grating) add(stim *etensor.Float64, dp display.Params, scale float64) {
	nf, ny, nx := stim.Dim(0), stim.Dim(1), stim.Dim(2)
	// sampled units: cycles / px and cycles / frame
	fs := display.CyclesPerPx(gr.Freq, dp.PixelPitch)
	ft := display.CyclesPerFrame(gr.TemporalFreq(), dp.FrameRate)
	angR := gr.Angle * math.Pi / 180
	kx := 2 * math.Pi * fs * math.Cos(angR)
	ky := 2 * math.Pi * fs * math.Sin(angR)
	kt := 2 * math.Pi * ft
	amp := scale * gr.Amplitude

	for t := 0; t < nf; t++ {
		tph := gr.Phase - kt*float64(t)
		fr := stim.Values[t*ny*nx : (t+1)*ny*nx]
		for y := 0; y < ny; y++ {
			yph := tph + ky*float64(y)
			row := fr[y*nx : (y+1)*nx]
			for x := range row {
				row[x] += amp * math.Cos(kx*float64(x)+yph)
			}
		}
	}
}
