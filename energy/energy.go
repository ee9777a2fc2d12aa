// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package energy computes Adelson-Bergen motion energy: each frame of a
// stimulus is correlated with the even and odd kernels of every quadrature
// pair in a gabor.Bank, the two responses are squared and summed, and the
// result is pooled by its spatial mean. The output is a [Frame, Filter]
// tensor in bank channel order, which Summarize reduces to a [Freq, Angle]
// heatmap.
package energy

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
	"github.com/emer/motionenergy/gabor"
)

// ErrShape is returned when a stimulus, energy tensor or heatmap does not have
// the dimensions an operation requires.
var ErrShape = errors.New("energy: shape mismatch")

// Params control how energy is computed
type Params struct {
	Border     BorderModes `desc:"how frames are extended by half the largest kernel size before filtering"`
	Method     ConvMethods `desc:"spatial or frequency domain correlation"`
	Workers    int         `def:"0" min:"0" desc:"number of goroutines processing frames in parallel -- 0 = GOMAXPROCS"`
	FFTMinSize int         `def:"15" desc:"for ConvAuto, largest kernel side above which the FFT method is used"`
}

// Defaults sets zero borders, automatic method selection and one worker per processor
func (ep *Params) Defaults() {
	ep.Border = BorderZero
	ep.Method = ConvAuto
	ep.Workers = 0
	ep.FFTMinSize = 15
}

// Compute returns the motion energy of stim for every channel of bk using
// default Params
func Compute(stim *etensor.Float64, bk *gabor.Bank) (*etensor.Float64, error) {
	ep := Params{}
	ep.Defaults()
	return ep.Compute(stim, bk)
}

// UseFFT reports whether the frequency domain method will be used for bk
func (ep *Params) UseFFT(bk *gabor.Bank) bool {
	switch ep.Method {
	case ConvFFT:
		return true
	case ConvDirect:
		return false
	}
	return bk.MaxSize > ep.FFTMinSize
}

// NWorkers returns the number of goroutines used for nFrames frames
func (ep *Params) NWorkers(nFrames int) int {
	nw := ep.Workers
	if nw <= 0 {
		nw = runtime.GOMAXPROCS(0)
	}
	if nw > nFrames {
		nw = nFrames
	}
	if nw < 1 {
		nw = 1
	}
	return nw
}

// Compute returns the motion energy of stim, a [Frame, Y, X] tensor, for every
// channel of bk as a [Frame, Filter] tensor. The bank is validated first, so a
// hand-assembled bank with mismatched lists fails with gabor.ErrMismatch.
// Each frame is padded by bk.MaxSize/2 on every side, so every filter response
// covers exactly the Y x X extent of the frame.
func (ep *Params) Compute(stim *etensor.Float64, bk *gabor.Bank) (*etensor.Float64, error) {
	if bk == nil {
		return nil, fmt.Errorf("nil bank: %w", gabor.ErrMismatch)
	}
	if err := bk.Validate(); err != nil {
		return nil, err
	}
	if bk.Len() == 0 {
		return nil, fmt.Errorf("bank has no channels: %w", gabor.ErrMismatch)
	}
	if stim == nil || stim.NumDims() != 3 {
		return nil, fmt.Errorf("stimulus must be [Frame, Y, X]: %w", ErrShape)
	}
	if stim.Dim(0) < 1 || stim.Dim(1) < 1 || stim.Dim(2) < 1 {
		return nil, fmt.Errorf("stimulus shape %v has an empty dimension: %w", stim.Shapes(), ErrShape)
	}
	if ep.Border < 0 || ep.Border >= BorderModesN || ep.Method < 0 || ep.Method >= ConvMethodsN {
		return nil, fmt.Errorf("border mode %v or method %v out of range: %w", ep.Border, ep.Method, display.ErrDomain)
	}
	if ep.Workers < 0 {
		return nil, fmt.Errorf("workers %d must be >= 0: %w", ep.Workers, display.ErrDomain)
	}

	st := time.Now()
	nf := stim.Dim(0)
	geo := newGeom(stim.Dim(1), stim.Dim(2), bk.MaxSize)
	out := etensor.NewFloat64([]int{nf, bk.Len()}, nil, []string{"Frame", "Filter"})

	var flt filterer
	if ep.UseFFT(bk) {
		flt = newFFTFilter(geo, bk)
	} else {
		flt = newDirectFilter(geo, bk)
	}
	nw := ep.NWorkers(nf)
	slog.Debug("motion energy start", "frames", nf, "height", geo.ny, "width", geo.nx, "filters", bk.Len(),
		"fft", ep.UseFFT(bk), "border", ep.Border.String(), "workers", nw, "memBytes", ep.MemEstimate(stim.Shapes(), bk))

	ep.run(stim, out, geo, flt, nw)

	slog.Debug("motion energy done", "elapsed", time.Since(st))
	return out, nil
}

// frameChunk is a half-open range of frames handed to a worker
type frameChunk struct {
	start, end int
}

// run distributes frames over nw workers. Each worker owns its scratch space
// and writes only the output rows of the frames it processes.
func (ep *Params) run(stim, out *etensor.Float64, geo geom, flt filterer, nw int) {
	nf := stim.Dim(0)
	frSz := geo.ny * geo.nx
	nfilt := out.Dim(1)

	work := make(chan frameChunk, nw)
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filter := flt.worker()
			padded := make([]float64, geo.py*geo.px)
			for ch := range work {
				for fi := ch.start; fi < ch.end; fi++ {
					geo.pad(padded, stim.Values[fi*frSz:(fi+1)*frSz], ep.Border)
					filter(padded, out.Values[fi*nfilt:(fi+1)*nfilt])
				}
			}
		}()
	}
	// small chunks keep workers balanced when frame counts do not divide evenly
	csz := nf / (4 * nw)
	if csz < 1 {
		csz = 1
	}
	for s := 0; s < nf; s += csz {
		e := s + csz
		if e > nf {
			e = nf
		}
		work <- frameChunk{start: s, end: e}
	}
	close(work)
	wg.Wait()
}

// MemEstimate returns an estimate in bytes of the working memory Compute needs
// for a stimulus of shape [Frame, Y, X] and bank bk, excluding the stimulus
// itself: the output, one padded frame per worker, and for the FFT method the
// kernel spectra plus two spectra per worker.
func (ep *Params) MemEstimate(stimShape []int, bk *gabor.Bank) int64 {
	if len(stimShape) != 3 || bk == nil {
		return 0
	}
	nf := stimShape[0]
	geo := newGeom(stimShape[1], stimShape[2], bk.MaxSize)
	grid := int64(geo.py) * int64(geo.px)
	nw := int64(ep.NWorkers(nf))
	mem := int64(nf) * int64(bk.Len()) * 8
	mem += nw * grid * 8
	if ep.UseFFT(bk) {
		mem += int64(bk.Len()) * grid * 16
		mem += nw * 2 * grid * 16
	}
	return mem
}
