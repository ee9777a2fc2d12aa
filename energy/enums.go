// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import "github.com/goki/ki/kit"

// BorderModes determine how frames are extended beyond their edges before
// filtering. One mode applies to every filter of a computation.
type BorderModes int32

//go:generate stringer -type=BorderModes

var KiT_BorderModes = kit.Enums.AddEnum(BorderModesN, kit.NotBitFlag, nil)

func (ev BorderModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *BorderModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// BorderZero fills the border with zeros -- the canonical mode
	BorderZero BorderModes = iota

	// BorderReflect mirrors the frame about its edge pixels, without repeating them
	BorderReflect

	BorderModesN
)

// ConvMethods select how frames are correlated with the filter kernels.
// All methods give the same result up to rounding.
type ConvMethods int32

//go:generate stringer -type=ConvMethods

var KiT_ConvMethods = kit.Enums.AddEnum(ConvMethodsN, kit.NotBitFlag, nil)

func (ev ConvMethods) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ConvMethods) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ConvAuto uses ConvFFT when the largest kernel is bigger than FFTMinSize, else ConvDirect
	ConvAuto ConvMethods = iota

	// ConvDirect sums kernel x image products in the spatial domain
	ConvDirect

	// ConvFFT multiplies spectra, sharing one transform of each frame across all filters
	ConvFFT

	ConvMethodsN
)
