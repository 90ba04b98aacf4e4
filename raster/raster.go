// seehuhn.de/go/maprender - a map rendering engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package raster converts paths into anti-aliased pixel coverage.
//
// The [Rasterizer] accumulates the signed area covered by a path in each
// pixel of a scanline and hands the resulting coverage values, between
// 0 and 1, to a callback one row at a time.  Paths can be filled using
// the nonzero or the even-odd rule, or stroked with caps, joins and a
// dash pattern.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one row of pixels.  The first entry
// of coverage belongs to pixel (xMin, y).  The slice is only valid
// during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates, oriented so that
// y0 < y1.  The original direction is kept in dir.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
	dir    float32 // +1 if the segment pointed downwards, -1 otherwise
}

// Rasterizer computes pixel coverage for filled and stroked paths.
// Internal buffers are reused between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip restricts the output to this integer-aligned rectangle in
	// device space.
	Clip rect.Rect

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	// Cap is the style used for the end points of open stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used for corners of stroked paths.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the ratio between miter length and stroke width.
	MiterLimit float64

	// Dash gives alternating on/off lengths in user space units.
	// Nil means solid.
	Dash []float64

	// DashPhase is the distance into the dash pattern at which each
	// subpath starts.
	DashPhase float64

	cover  []float32
	area   []float32
	edges  []edge
	active []int

	// stroker state
	lines   []polyline
	outline [][]vec.Vec2
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with
// an identity CTM and default stroke parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
	}
}

// Reset prepares the rasterizer for a new clip rectangle and restores
// the default parameters.  Buffers are kept.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
	r.Dash = nil
	r.DashPhase = 0
}

// FillNonZero fills p using the nonzero winding rule.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.fill(p, false, emit)
}

// FillEvenOdd fills p using the even-odd rule.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.fill(p, true, emit)
}

func (r *Rasterizer) fill(p *path.Data, evenOdd bool, emit EmitFunc) {
	r.edges = r.edges[:0]
	r.walk(p, nil, r.addEdge, func(start, cur vec.Vec2, _ bool) {
		if cur != start {
			r.addEdge(cur, start)
		}
	})
	r.scan(evenOdd, emit)
}

// walk flattens p into line segments in user space.  The begin callback
// (if not nil) is called at the start of every subpath.  The end
// callback is called at the end of every subpath, with closed set if the
// subpath ended with an explicit close command.  In this case the
// closing segment has already been reported.
func (r *Rasterizer) walk(p *path.Data, begin func(vec.Vec2), line func(a, b vec.Vec2), end func(start, cur vec.Vec2, closed bool)) {
	var cur, start vec.Vec2
	open := false
	reopen := func() {
		if !open {
			start = cur
			open = true
			if begin != nil {
				begin(cur)
			}
		}
	}
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				end(start, cur, false)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			if begin != nil {
				begin(cur)
			}
			k++
		case path.CmdLineTo:
			reopen()
			line(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			reopen()
			r.flattenQuadratic(cur, p.Coords[k], p.Coords[k+1], line)
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			reopen()
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], line)
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if !open {
				continue
			}
			if cur != start {
				line(cur, start)
			}
			cur = start
			end(start, cur, true)
			open = false
		}
	}
	if open {
		end(start, cur, false)
	}
}

// deviceLength returns the length of v after applying the linear part
// of the CTM.
func (r *Rasterizer) deviceLength(v vec.Vec2) float64 {
	x := r.CTM[0]*v.X + r.CTM[2]*v.Y
	y := r.CTM[1]*v.X + r.CTM[3]*v.Y
	return math.Hypot(x, y)
}

func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, q)
		prev = q
	}
}

func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	// Wang's formula
	m := max(r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)), r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)))
	n := 1
	if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
		n = int(math.Ceil(f))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).Add(p1.Mul(3 * s * s * t)).Add(p2.Mul(3 * s * t * t)).Add(p3.Mul(t * t * t))
		line(prev, q)
		prev = q
	}
}

// addEdge transforms a user space segment to device space and stores it.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	m := r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	if math.Abs(y1-y0) < horizontalEdgeThreshold {
		return
	}
	var dir float32 = 1
	if y1 < y0 {
		x0, y0, x1, y1 = x1, y1, x0, y0
		dir = -1
	}
	r.edges = append(r.edges, edge{
		x0: x0, y0: y0, x1: x1, y1: y1,
		dxdy: (x1 - x0) / (y1 - y0),
		dir:  dir,
	})
}

// scan converts the collected edges to coverage, using an active edge
// list over the scanlines of the clipped bounding box.
func (r *Rasterizer) scan(evenOdd bool, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	xLo, xHi := math.Inf(1), math.Inf(-1)
	yLo, yHi := math.Inf(1), math.Inf(-1)
	for i := range r.edges {
		e := &r.edges[i]
		xLo = min(xLo, e.x0, e.x1)
		xHi = max(xHi, e.x0, e.x1)
		yLo = min(yLo, e.y0)
		yHi = max(yHi, e.y1)
	}
	xMin := max(int(math.Floor(xLo)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(xHi))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(yLo)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(yHi))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.y0, b.y0)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		bot := top + 1

		for next < len(r.edges) && r.edges[next].y0 < bot {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			if next == len(r.edges) {
				break
			}
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.y1 <= top {
				r.active[i] = r.active[len(r.active)-1]
				r.active = r.active[:len(r.active)-1]
				continue
			}
			if r.accumulate(e, top, bot, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if evenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}
		if row, offset := trimZeros(r.cover); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// Each pixel stores two accumulators: cover is the signed vertical
// extent of all edge pieces inside the pixel column, area is the same
// quantity weighted by the fraction of the pixel to the right of the
// edge piece.  Integrating from left to right, the coverage of pixel i
// is area[i] plus the sum of cover[j] for j < i.

// accumulate adds the part of e between the scanlines top and bot to the
// row buffers.  It reports whether anything was added.
func (r *Rasterizer) accumulate(e *edge, top, bot float64, xMin, xMax int) bool {
	ya := max(top, e.y0)
	yb := min(bot, e.y1)
	if yb <= ya {
		return false
	}

	xa := e.x0 + e.dxdy*(ya-e.y0)
	xb := e.x0 + e.dxdy*(yb-e.y0)
	left, right := min(xa, xb), max(xa, xb)
	pl := int(math.Floor(left))
	pr := int(math.Floor(right))

	if pr < xMin {
		c := e.dir * float32(yb-ya)
		r.cover[0] += c
		r.area[0] += c
		return true
	}
	if pl >= xMax {
		return false
	}

	if pl == pr {
		r.addPiece(pl, ya, yb, (xa+xb)/2, e.dir, xMin, xMax)
		return true
	}

	// split the piece at pixel column boundaries
	dydx := 1 / e.dxdy
	for pix := pl; pix <= pr; pix++ {
		y0 := e.y0 + dydx*(float64(pix)-e.x0)
		y1 := e.y0 + dydx*(float64(pix+1)-e.x0)
		lo := max(min(y0, y1), ya)
		hi := min(max(y0, y1), yb)
		if hi <= lo {
			continue
		}
		xm := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		r.addPiece(pix, lo, hi, xm, e.dir, xMin, xMax)
	}
	return true
}

func (r *Rasterizer) addPiece(pix int, ya, yb, xMid float64, dir float32, xMin, xMax int) {
	c := dir * float32(yb-ya)
	switch {
	case pix < xMin:
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		i := pix - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrateNonZero turns the accumulators into coverage values under the
// nonzero rule.  The result is stored in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd turns the accumulators into coverage values under the
// even-odd rule.  The result is stored in cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		v -= 2 * float32(math.Floor(float64(v/2)))
		if v > 1 {
			v = 2 - v
		}
		cover[i] = v
	}
}

// trimZeros strips leading and trailing zeros.  It returns nil if the
// row is empty.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is the curve flattening tolerance in device pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit turns miter joins into bevels below an interior
	// angle of about 11.5 degrees.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent for an edge
	// to contribute coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLength is the shortest stroke segment which has a direction.
	zeroLength = 1e-10
)
