// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gabor renders banks of spatial Gabor filters in quadrature pairs:
// a 2d Gaussian envelope times a sinusoidal plane wave, in cosine (even) and
// sine (odd) phase, for each combination of spatial frequency and orientation.
package gabor

import (
	"errors"
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
	"gonum.org/v1/gonum/floats"
)

// ErrMismatch is returned when the even, odd and channel lists of a Bank disagree in length
var ErrMismatch = errors.New("gabor: filter bank structure mismatch")

// Params for rendering gabor filters from physical (degree) units
type Params struct {
	SigmaFactor float64 `def:"0.5" desc:"gaussian sigma in degrees is SigmaFactor / frequency -- a bandwidth rule of thumb giving about one cycle per sigma pair"`
	NSigmas     float64 `def:"3" desc:"half-width of the kernel support in sigmas -- 3 covers all but a negligible tail of the envelope"`
}

// Defaults sets the standard bandwidth heuristic
func (gp *Params) Defaults() {
	gp.SigmaFactor = 0.5
	gp.NSigmas = 3
}

// Sigma returns the envelope sigma in degrees for the given frequency in cycles / deg
func (gp *Params) Sigma(freq float64) float64 {
	return gp.SigmaFactor / freq
}

// Radius returns the kernel radius in pixels, never less than 1 so the
// smallest kernel is 3x3
func (gp *Params) Radius(freq, pitch float64) int {
	r := int(math.Ceil(gp.NSigmas * gp.Sigma(freq) / pitch))
	if r < 1 {
		r = 1
	}
	return r
}

// Size returns the side of the (square) kernel for the given frequency
func (gp *Params) Size(freq, pitch float64) int {
	return 2*gp.Radius(freq, pitch) + 1
}

func (gp *Params) validate(freq, pitch float64) error {
	switch {
	case !(freq > 0):
		return fmt.Errorf("gabor frequency %v must be > 0: %w", freq, display.ErrDomain)
	case !(pitch > 0):
		return fmt.Errorf("gabor pixel pitch %v must be > 0: %w", pitch, display.ErrDomain)
	case !(gp.SigmaFactor > 0) || !(gp.NSigmas > 0):
		return fmt.Errorf("gabor params %+v must be > 0: %w", *gp, display.ErrDomain)
	}
	return nil
}

// Kernel renders a single zero-mean, unit L2 norm gabor filter at frequency freq
// (cycles / deg), orientation angle (deg) and sine phase (radians), sampled at
// pitch deg / px. The result has shape [Y, X], with X varying fastest.
func (gp *Params) Kernel(freq, angle, phase, pitch float64) (*etensor.Float64, error) {
	if err := gp.validate(freq, pitch); err != nil {
		return nil, err
	}
	ker := gp.render(freq, angle, phase, pitch)
	vals := ker.Values
	floats.AddConst(-floats.Sum(vals)/float64(len(vals)), vals)
	nrm := floats.Norm(vals, 2)
	if nrm > 0 {
		floats.Scale(1/nrm, vals)
	}
	return ker, nil
}

// render fills the raw envelope * sinusoid on a lattice of degree coordinates one pixel apart
func (gp *Params) render(freq, angle, phase, pitch float64) *etensor.Float64 {
	rad := gp.Radius(freq, pitch)
	sz := 2*rad + 1
	sigma := gp.Sigma(freq)
	gnorm := 1.0 / (2.0 * sigma * sigma)
	twoPiF := 2.0 * math.Pi * freq
	angR := angle * math.Pi / 180
	cosA := math.Cos(angR)
	sinA := math.Sin(angR)

	ker := etensor.NewFloat64([]int{sz, sz}, nil, []string{"Y", "X"})
	for y := 0; y < sz; y++ {
		yd := float64(y-rad) * pitch
		for x := 0; x < sz; x++ {
			xd := float64(x-rad) * pitch
			xr := xd*cosA + yd*sinA
			yr := -xd*sinA + yd*cosA
			gauss := math.Exp(-(xr*xr + yr*yr) * gnorm)
			ker.Values[y*sz+x] = gauss * math.Cos(twoPiF*xr+phase)
		}
	}
	return ker
}

// Pair renders the even (cosine) and odd (sine) filters for one channel, each
// with its own mean removed, then scales both by the same factor so that
// sum(even^2) + sum(odd^2) == 1.
func (gp *Params) Pair(freq, angle, pitch float64) (even, odd *etensor.Float64, err error) {
	even, err = gp.Kernel(freq, angle, 0, pitch)
	if err != nil {
		return nil, nil, err
	}
	odd, err = gp.Kernel(freq, angle, math.Pi/2, pitch)
	if err != nil {
		return nil, nil, err
	}
	pnorm := math.Sqrt(floats.Dot(even.Values, even.Values) + floats.Dot(odd.Values, odd.Values))
	if pnorm > 0 {
		floats.Scale(1/pnorm, even.Values)
		floats.Scale(1/pnorm, odd.Values)
	}
	return even, odd, nil
}
