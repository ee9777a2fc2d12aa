// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display holds the sampling parameters of the display a stimulus is
// shown on: frame rate in time, pixel pitch in space, and the viewing geometry
// that produces the pixel pitch.
package display

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSampling is returned when a requested frequency would alias at the
	// current pixel pitch or frame rate.
	ErrSampling = errors.New("display: frequency above sampling limit")

	// ErrDomain is returned for non-positive pitches, rates, frequencies and
	// other values that would be used as divisors.
	ErrDomain = errors.New("display: value out of domain")
)

// NyquistMargin is the fraction of the Nyquist limit that stimulus
// frequencies may reach.
const NyquistMargin = 0.8

// Params are the display sampling parameters shared by every stage of the pipeline
type Params struct {
	FrameRate  float64 `def:"60" desc:"frames per second of the display -- temporal sampling rate"`
	PixelPitch float64 `def:"0.02" desc:"degrees of visual angle subtended by one pixel -- inverse of the spatial sampling rate"`
}

// Defaults sets a 60 Hz display at 0.02 deg / px
func (dp *Params) Defaults() {
	dp.FrameRate = 60
	dp.PixelPitch = 0.02
}

// Validate returns ErrDomain if either sampling rate is not positive
func (dp *Params) Validate() error {
	if !(dp.FrameRate > 0) {
		return fmt.Errorf("frame rate %v must be > 0: %w", dp.FrameRate, ErrDomain)
	}
	if !(dp.PixelPitch > 0) {
		return fmt.Errorf("pixel pitch %v must be > 0: %w", dp.PixelPitch, ErrDomain)
	}
	return nil
}

// SpatialNyquist returns the spatial Nyquist limit in cycles / deg
func (dp *Params) SpatialNyquist() float64 {
	return 0.5 / dp.PixelPitch
}

// TemporalNyquist returns the temporal Nyquist limit in Hz
func (dp *Params) TemporalNyquist() float64 {
	return 0.5 * dp.FrameRate
}

// CheckSpatial returns ErrSampling if freq (cycles / deg) exceeds
// NyquistMargin of the spatial Nyquist limit
func (dp *Params) CheckSpatial(freq float64) error {
	lim := dp.SpatialNyquist()
	if freq > NyquistMargin*lim {
		return fmt.Errorf("spatial frequency %v cycles/deg exceeds %v x nyquist limit %v -- select a lower frequency: %w", freq, NyquistMargin, lim, ErrSampling)
	}
	return nil
}

// CheckTemporal returns ErrSampling if the magnitude of freq (Hz) exceeds
// NyquistMargin of the temporal Nyquist limit. Negative frequencies are
// reverse drift.
func (dp *Params) CheckTemporal(freq float64) error {
	lim := dp.TemporalNyquist()
	if math.Abs(freq) > NyquistMargin*lim {
		return fmt.Errorf("temporal frequency %v Hz exceeds %v x nyquist limit %v -- select a lower speed or spatial frequency: %w", freq, NyquistMargin, lim, ErrSampling)
	}
	return nil
}

// DegToPx converts a length in degrees to a whole number of pixels, rounding up
func DegToPx(deg, pitch float64) int {
	pxPerDeg := 1.0 / pitch
	return int(math.Ceil(deg * pxPerDeg))
}

// PxToDeg converts pixels to degrees of visual angle
func PxToDeg(px int, pitch float64) float64 {
	return float64(px) * pitch
}

// SecToFrames converts a duration in seconds to a whole number of frames, rounding up
func SecToFrames(sec, fps float64) int {
	return int(math.Ceil(sec * fps))
}

// CyclesPerPx converts a spatial frequency in cycles / deg to cycles / px
func CyclesPerPx(cpd, pitch float64) float64 {
	return cpd * pitch
}

// CyclesPerFrame converts a temporal frequency in Hz to cycles / frame
func CyclesPerFrame(hz, fps float64) float64 {
	return hz / fps
}
