// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dft does 2d discrete fourier transforms over row-major grids, for
// convolving images with kernels in the frequency domain.
package dft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan2D holds the row and column transforms for an NY x NX complex grid stored
// row-major (index y*NX + x). The gonum transforms keep internal work space, so
// a Plan2D must not be shared between goroutines.
type Plan2D struct {
	NY     int `inactive:"+" desc:"number of rows"`
	NX     int `inactive:"+" desc:"number of columns"`
	row    *fourier.CmplxFFT
	col    *fourier.CmplxFFT
	colBuf []complex128
}

// NewPlan2D returns a plan for an ny x nx grid
func NewPlan2D(ny, nx int) *Plan2D {
	return &Plan2D{
		NY:     ny,
		NX:     nx,
		row:    fourier.NewCmplxFFT(nx),
		col:    fourier.NewCmplxFFT(ny),
		colBuf: make([]complex128, ny),
	}
}

// Len returns the number of grid points
func (pl *Plan2D) Len() int {
	return pl.NY * pl.NX
}

// Forward transforms data in place: rows then columns
func (pl *Plan2D) Forward(data []complex128) {
	for y := 0; y < pl.NY; y++ {
		seg := data[y*pl.NX : (y+1)*pl.NX]
		pl.row.Coefficients(seg, seg)
	}
	for x := 0; x < pl.NX; x++ {
		pl.colTransform(data, x, true)
	}
}

// Inverse transforms data in place and normalizes by 1 / (NY * NX), so that
// Inverse(Forward(d)) == d up to rounding
func (pl *Plan2D) Inverse(data []complex128) {
	pl.InverseCols(data, 0, pl.NX)
}

// InverseCols is Inverse evaluated only at columns [x0, x1). Every row is
// transformed, but only the requested columns are finished, which saves work
// when only a sub-region of the result is needed. Values outside the column
// range are left as partial transforms.
func (pl *Plan2D) InverseCols(data []complex128, x0, x1 int) {
	for y := 0; y < pl.NY; y++ {
		seg := data[y*pl.NX : (y+1)*pl.NX]
		pl.row.Sequence(seg, seg)
	}
	norm := complex(1/float64(pl.NY*pl.NX), 0)
	for x := x0; x < x1; x++ {
		pl.colTransform(data, x, false)
		for y := 0; y < pl.NY; y++ {
			data[y*pl.NX+x] *= norm
		}
	}
}

func (pl *Plan2D) colTransform(data []complex128, x int, fwd bool) {
	buf := pl.colBuf
	for y := 0; y < pl.NY; y++ {
		buf[y] = data[y*pl.NX+x]
	}
	if fwd {
		pl.col.Coefficients(buf, buf)
	} else {
		pl.col.Sequence(buf, buf)
	}
	for y := 0; y < pl.NY; y++ {
		data[y*pl.NX+x] = buf[y]
	}
}

// RealForward loads an ny x nx real image into the top-left of the grid, zero
// fills the rest, and transforms. dst is reused if it has length Len().
func (pl *Plan2D) RealForward(dst []complex128, img []float64, ny, nx int) []complex128 {
	dst = pl.clear(dst)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			dst[y*pl.NX+x] = complex(img[y*nx+x], 0)
		}
	}
	pl.Forward(dst)
	return dst
}

// FlippedForward loads the 180 degree rotation of the k x k kernel re + i*im
// into the top-left of the grid and transforms. Multiplying an image spectrum by
// this one convolves with the flipped kernel, which is correlation with the
// unflipped kernel: output at grid index (y+k-1, x+k-1) is
// sum over u, v of img[y+u, x+v] * (re + i*im)[u, v].
// im may be nil for a purely real kernel.
func (pl *Plan2D) FlippedForward(dst []complex128, re, im []float64, k int) []complex128 {
	dst = pl.clear(dst)
	last := k - 1
	for u := 0; u < k; u++ {
		for v := 0; v < k; v++ {
			ki := u*k + v
			var c complex128
			if im != nil {
				c = complex(re[ki], im[ki])
			} else {
				c = complex(re[ki], 0)
			}
			dst[(last-u)*pl.NX+(last-v)] = c
		}
	}
	pl.Forward(dst)
	return dst
}

func (pl *Plan2D) clear(dst []complex128) []complex128 {
	if len(dst) != pl.Len() {
		return make([]complex128, pl.Len())
	}
	for i := range dst {
		dst[i] = 0
	}
	return dst
}

// Power writes the squared magnitude re^2 + im^2 of each value of src into dst
func Power(dst []float64, src []complex128) []float64 {
	if len(dst) != len(src) {
		dst = make([]float64, len(src))
	}
	for i, c := range src {
		rl := real(c)
		im := imag(c)
		dst[i] = rl*rl + im*im
	}
	return dst
}
