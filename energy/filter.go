// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"github.com/emer/motionenergy/dft"
	"github.com/emer/motionenergy/gabor"
	"gonum.org/v1/gonum/floats"
)

// filterer turns one padded frame into the pooled energy of every channel
type filterer interface {
	// worker returns a function writing the energy of each channel of a padded
	// frame into out. The function owns its scratch space and is used by a
	// single goroutine.
	worker() func(padded, out []float64)
}

// directFilter correlates in the spatial domain
type directFilter struct {
	geo geom
	bk  *gabor.Bank
}

func newDirectFilter(geo geom, bk *gabor.Bank) *directFilter {
	return &directFilter{geo: geo, bk: bk}
}

func (df *directFilter) worker() func(padded, out []float64) {
	return func(padded, out []float64) {
		for ci := range df.bk.Even {
			out[ci] = df.channel(padded, ci)
		}
	}
}

// channel returns the spatial mean of even^2 + odd^2 for channel ci. A kernel
// of side k reads the centered (ny+k-1) x (nx+k-1) window of the padded frame.
func (df *directFilter) channel(padded []float64, ci int) float64 {
	g := df.geo
	ev, od := df.bk.Even[ci].Values, df.bk.Odd[ci].Values
	k := df.bk.Even[ci].Dim(0)
	off := g.p - k/2
	sum := 0.0
	for y := 0; y < g.ny; y++ {
		for x := 0; x < g.nx; x++ {
			var re, im float64
			st := (off+y)*g.px + off + x
			for u := 0; u < k; u++ {
				row := padded[st+u*g.px : st+u*g.px+k]
				re += floats.Dot(row, ev[u*k:(u+1)*k])
				im += floats.Dot(row, od[u*k:(u+1)*k])
			}
			sum += re*re + im*im
		}
	}
	return sum / float64(g.ny*g.nx)
}

// fftFilter correlates in the frequency domain over the padded-frame grid.
// Each quadrature pair is one complex kernel even + i*odd, so a single inverse
// transform yields both responses, and |z|^2 is the local energy.
type fftFilter struct {
	geo     geom
	spectra [][]complex128 // flipped pair spectrum per channel
	offs    []int          // grid row and column of the first valid output per channel
}

func newFFTFilter(geo geom, bk *gabor.Bank) *fftFilter {
	ff := &fftFilter{geo: geo, spectra: make([][]complex128, bk.Len()), offs: make([]int, bk.Len())}
	pl := dft.NewPlan2D(geo.py, geo.px)
	for ci := range bk.Even {
		k := bk.Even[ci].Dim(0)
		ff.spectra[ci] = pl.FlippedForward(nil, bk.Even[ci].Values, bk.Odd[ci].Values, k)
		// window starts at p - k/2 and the valid outputs start k-1 later
		ff.offs[ci] = geo.p + k/2
	}
	return ff
}

func (ff *fftFilter) worker() func(padded, out []float64) {
	g := ff.geo
	pl := dft.NewPlan2D(g.py, g.px)
	var fsp []complex128
	prod := make([]complex128, pl.Len())
	pw := make([]float64, g.nx)
	norm := 1 / float64(g.ny*g.nx)
	return func(padded, out []float64) {
		fsp = pl.RealForward(fsp, padded, g.py, g.px)
		for ci, ks := range ff.spectra {
			for i, c := range fsp {
				prod[i] = c * ks[i]
			}
			o := ff.offs[ci]
			pl.InverseCols(prod, o, o+g.nx)
			sum := 0.0
			for y := 0; y < g.ny; y++ {
				st := (o+y)*g.px + o
				pw = dft.Power(pw, prod[st:st+g.nx])
				sum += floats.Sum(pw)
			}
			out[ci] = sum * norm
		}
	}
}
