// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"fmt"
	"math"
)

// CmPerInch converts monitor diagonals to the centimeter units of viewing distance
const CmPerInch = 2.54

// Geom is the physical viewing geometry: how far the eye is from a monitor of a
// given size and resolution. Pixels are assumed square.
type Geom struct {
	DistanceCm float64 `def:"57" desc:"viewing distance from eye to screen in cm -- at 57 cm, 1 cm on screen is ~1 deg"`
	ResX       int     `def:"1920" desc:"horizontal monitor resolution in pixels"`
	ResY       int     `def:"1080" desc:"vertical monitor resolution in pixels"`
	DiagonalIn float64 `def:"24" desc:"monitor diagonal in inches"`
}

// Defaults sets a 24" 1080p monitor viewed from 57 cm
func (gm *Geom) Defaults() {
	gm.DistanceCm = 57
	gm.ResX = 1920
	gm.ResY = 1080
	gm.DiagonalIn = 24
}

// PixelPitch returns the degrees of visual angle subtended by one pixel, and the
// monitor dots-per-inch along the diagonal. The visual angle comes from the
// triangle formed by the eye and one pixel: tan(angle/2) = (size/2) / distance.
func (gm *Geom) PixelPitch() (degPerPx float64, dpi int, err error) {
	if !(gm.DistanceCm > 0) || !(gm.DiagonalIn > 0) || gm.ResX <= 0 || gm.ResY <= 0 {
		return 0, 0, fmt.Errorf("geometry %+v must have positive distance, diagonal and resolution: %w", *gm, ErrDomain)
	}
	diagCm := gm.DiagonalIn * CmPerInch
	diagPx := math.Hypot(float64(gm.ResX), float64(gm.ResY))
	cmPerPx := diagCm / diagPx

	half := math.Atan((cmPerPx / 2) / gm.DistanceCm)
	degPerPx = 2 * half * 180 / math.Pi
	dpi = int(math.Round(diagPx / gm.DiagonalIn))
	return degPerPx, dpi, nil
}
