// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gabor

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/display"
)

// Channel labels one quadrature pair of a Bank
type Channel struct {
	Freq  float64 `desc:"spatial frequency in cycles / deg"`
	Angle float64 `desc:"orientation in degrees"`
}

// String returns a compact label, e.g., F0.50_A45
func (ch Channel) String() string {
	return fmt.Sprintf("F%.2f_A%g", ch.Freq, ch.Angle)
}

// Bank is a set of quadrature filter pairs, one per (frequency, orientation)
// combination, enumerated frequency-major, orientation-minor. Even[i], Odd[i]
// and Chans[i] always describe the same channel.
type Bank struct {
	Even    []*etensor.Float64 `view:"no-inline" desc:"cosine-phase kernels, shape [Y, X]"`
	Odd     []*etensor.Float64 `view:"no-inline" desc:"sine-phase kernels, shape [Y, X]"`
	Chans   []Channel          `desc:"channel labels in the same order as Even and Odd"`
	Freqs   []float64          `desc:"frequencies the bank was built from"`
	Angles  []float64          `desc:"orientations the bank was built from"`
	Pitch   float64            `desc:"pixel pitch the kernels were sampled at, deg / px"`
	MaxSize int                `inactive:"+" desc:"side of the largest kernel in the bank"`
}

// NewBank builds a quadrature pair for every combination of freqs (cycles / deg)
// and angles (deg), sampled at pitch (deg / px).
func NewBank(freqs, angles []float64, pitch float64, gp Params) (*Bank, error) {
	if len(freqs) == 0 || len(angles) == 0 {
		return nil, fmt.Errorf("gabor bank needs at least one frequency and one angle, got %d, %d: %w", len(freqs), len(angles), display.ErrDomain)
	}
	n := len(freqs) * len(angles)
	bk := &Bank{
		Even:   make([]*etensor.Float64, 0, n),
		Odd:    make([]*etensor.Float64, 0, n),
		Chans:  make([]Channel, 0, n),
		Freqs:  append([]float64(nil), freqs...),
		Angles: append([]float64(nil), angles...),
		Pitch:  pitch,
	}
	for _, f := range freqs {
		for _, a := range angles {
			even, odd, err := gp.Pair(f, a, pitch)
			if err != nil {
				return nil, err
			}
			bk.Even = append(bk.Even, even)
			bk.Odd = append(bk.Odd, odd)
			bk.Chans = append(bk.Chans, Channel{Freq: f, Angle: a})
			if sz := even.Dim(0); sz > bk.MaxSize {
				bk.MaxSize = sz
			}
		}
	}
	return bk, nil
}

// Len returns the number of quadrature pairs
func (bk *Bank) Len() int {
	return len(bk.Chans)
}

// Validate checks the structural invariants of a bank that may have been
// assembled by hand: matching list lengths, square odd-sided kernels of equal
// size within a pair, and a MaxSize covering every kernel.
func (bk *Bank) Validate() error {
	if len(bk.Even) != len(bk.Odd) || len(bk.Even) != len(bk.Chans) {
		return fmt.Errorf("even: %d, odd: %d, channels: %d: %w", len(bk.Even), len(bk.Odd), len(bk.Chans), ErrMismatch)
	}
	for i := range bk.Even {
		ev, od := bk.Even[i], bk.Odd[i]
		if ev == nil || od == nil || ev.NumDims() != 2 || od.NumDims() != 2 {
			return fmt.Errorf("channel %d kernels must be 2d: %w", i, ErrMismatch)
		}
		sz := ev.Dim(0)
		if ev.Dim(1) != sz || od.Dim(0) != sz || od.Dim(1) != sz || sz%2 == 0 {
			return fmt.Errorf("channel %d kernels must be square, odd-sided and equal: even %v odd %v: %w", i, ev.Shapes(), od.Shapes(), ErrMismatch)
		}
		if sz > bk.MaxSize {
			return fmt.Errorf("channel %d kernel size %d exceeds bank MaxSize %d: %w", i, sz, bk.MaxSize, ErrMismatch)
		}
	}
	return nil
}

// Stack returns the even and odd kernels of one channel stacked into a
// [Phase, Y, X] tensor, for viewing the pair side by side.
func (bk *Bank) Stack(ci int) *etensor.Float64 {
	ev, od := bk.Even[ci], bk.Odd[ci]
	sz := ev.Dim(0)
	st := etensor.NewFloat64([]int{2, sz, sz}, nil, []string{"Phase", "Y", "X"})
	copy(st.Values[:sz*sz], ev.Values)
	copy(st.Values[sz*sz:], od.Values)
	return st
}
