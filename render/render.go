// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render pushes the plain tensors produced by the pipeline (stimulus
// frames, filter kernels, heatmaps) to an image sink. Nothing here changes the
// data: a Renderer only sees 2d tensors and a name.
package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/gabor"
	"gonum.org/v1/gonum/floats"
)

// Renderer consumes named 2d [Y, X] tensors
type Renderer interface {
	Frame(name string, img *etensor.Float64) error
}

// GreyImage maps a 2d tensor onto an 8 bit grey image, scaling its min to
// black and its max to white. A constant tensor renders mid grey.
func GreyImage(t *etensor.Float64) (*image.Gray, error) {
	if t == nil || t.NumDims() != 2 {
		return nil, fmt.Errorf("render: image tensor must be 2d")
	}
	ny, nx := t.Dim(0), t.Dim(1)
	gi := image.NewGray(image.Rect(0, 0, nx, ny))
	if len(t.Values) == 0 {
		return gi, nil
	}
	mn, mx := floats.Min(t.Values), floats.Max(t.Values)
	rng := mx - mn
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			v := 0.5
			if rng > 0 {
				v = (t.Values[y*nx+x] - mn) / rng
			}
			gi.Pix[y*gi.Stride+x] = uint8(v*255 + 0.5)
		}
	}
	return gi, nil
}

// PNG writes each frame to Dir/<name>.png
type PNG struct {
	Dir   string `desc:"output directory -- created if missing"`
	Scale int    `def:"1" min:"1" desc:"integer upscaling factor, nearest neighbor, so single pixels stay visible"`
}

// Frame renders img as a grey PNG
func (pr *PNG) Frame(name string, img *etensor.Float64) error {
	gi, err := GreyImage(img)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := os.MkdirAll(pr.Dir, 0o755); err != nil {
		return err
	}
	var out image.Image = gi
	if pr.Scale > 1 {
		sz := gi.Bounds().Size()
		out = transform.Resize(gi, sz.X*pr.Scale, sz.Y*pr.Scale, transform.NearestNeighbor)
	}
	return imgio.Save(filepath.Join(pr.Dir, name+".png"), out, imgio.PNGEncoder())
}

// frame2D copies frame fi of a [Frame, Y, X] tensor into its own [Y, X] tensor
func frame2D(stim *etensor.Float64, fi int) *etensor.Float64 {
	ny, nx := stim.Dim(1), stim.Dim(2)
	fr := etensor.NewFloat64([]int{ny, nx}, nil, []string{"Y", "X"})
	copy(fr.Values, stim.Values[fi*ny*nx:(fi+1)*ny*nx])
	return fr
}

// Stimulus renders every every'th frame of a [Frame, Y, X] stimulus, named
// stim_<frame>
func Stimulus(r Renderer, stim *etensor.Float64, every int) error {
	if stim == nil || stim.NumDims() != 3 {
		return fmt.Errorf("render: stimulus must be [Frame, Y, X]")
	}
	if every < 1 {
		every = 1
	}
	for fi := 0; fi < stim.Dim(0); fi += every {
		if err := r.Frame(fmt.Sprintf("stim_%04d", fi), frame2D(stim, fi)); err != nil {
			return err
		}
	}
	return nil
}

// Bank renders the even and odd kernel of every channel, named
// even_<channel> and odd_<channel>
func Bank(r Renderer, bk *gabor.Bank) error {
	if err := bk.Validate(); err != nil {
		return err
	}
	for ci, ch := range bk.Chans {
		if err := r.Frame("even_"+ch.String(), bk.Even[ci]); err != nil {
			return err
		}
		if err := r.Frame("odd_"+ch.String(), bk.Odd[ci]); err != nil {
			return err
		}
	}
	return nil
}
