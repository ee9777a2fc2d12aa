// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// Summarize reduces a [Frame, Filter] energy tensor to a [Freq, Angle] heatmap
// of frame means. Filters must be in bank order (frequency-major), so cell
// (i, j) is the mean of filter column i*len(angles) + j.
func Summarize(e *etensor.Float64, freqs, angles []float64) (*etensor.Float64, error) {
	if err := checkEnergy(e); err != nil {
		return nil, err
	}
	nfq, nang := len(freqs), len(angles)
	if e.Dim(1) != nfq*nang {
		return nil, fmt.Errorf("energy has %d filters, want %d freqs x %d angles: %w", e.Dim(1), nfq, nang, ErrShape)
	}
	mn, err := FrameMean(e)
	if err != nil {
		return nil, err
	}
	hm := etensor.NewFloat64([]int{nfq, nang}, nil, []string{"Freq", "Angle"})
	copy(hm.Values, mn.Values)
	return hm, nil
}

// checkEnergy returns ErrShape unless e is a non-empty [Frame, Filter] tensor
func checkEnergy(e *etensor.Float64) error {
	if e == nil || e.NumDims() != 2 {
		return fmt.Errorf("energy must be [Frame, Filter]: %w", ErrShape)
	}
	if e.Dim(0) < 1 {
		return fmt.Errorf("energy has no frames: %w", ErrShape)
	}
	return nil
}
