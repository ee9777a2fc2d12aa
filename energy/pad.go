// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

// geom is the frame and padded-frame geometry shared by all filters
type geom struct {
	ny, nx int // frame
	p      int // border width on every side
	py, px int // padded frame
}

func newGeom(ny, nx, maxSize int) geom {
	p := maxSize / 2
	return geom{ny: ny, nx: nx, p: p, py: ny + 2*p, px: nx + 2*p}
}

// pad writes frame, extended by g.p on every side according to mode, into
// dst, which must have length py * px
func (g geom) pad(dst, frame []float64, mode BorderModes) {
	if mode == BorderReflect {
		for y := 0; y < g.py; y++ {
			sy := reflectIdx(y-g.p, g.ny)
			src := frame[sy*g.nx : (sy+1)*g.nx]
			row := dst[y*g.px : (y+1)*g.px]
			for x := range row {
				row[x] = src[reflectIdx(x-g.p, g.nx)]
			}
		}
		return
	}
	for i := range dst {
		dst[i] = 0
	}
	for y := 0; y < g.ny; y++ {
		copy(dst[(y+g.p)*g.px+g.p:], frame[y*g.nx:(y+1)*g.nx])
	}
}

// reflectIdx maps index i onto [0, n) by mirroring about the first and last
// samples without repeating them: -1 -> 1, n -> n-2. Borders wider than the
// frame keep bouncing between the edges.
func reflectIdx(i, n int) int {
	if n == 1 {
		return 0
	}
	per := 2 * (n - 1)
	i %= per
	if i < 0 {
		i += per
	}
	if i >= n {
		i = per - i
	}
	return i
}
