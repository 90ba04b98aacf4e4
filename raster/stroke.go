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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// polyline is a flattened subpath in user space.  Consecutive points are
// distinct.  A polyline with a single point is a dot, drawn using the
// cap style and oriented along dir.
type polyline struct {
	pts    []vec.Vec2
	closed bool
	dir    vec.Vec2
}

// Stroke strokes p using the current width, caps, joins and dash
// pattern.  The outline of the stroke is built from one polygon per
// segment, join and cap; all polygons have the same orientation and are
// filled together using the nonzero rule, so that overlaps are painted
// once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	if r.Width <= 0 {
		return
	}

	r.lines = r.lines[:0]
	r.walk(p, func(v vec.Vec2) {
		r.lines = append(r.lines, polyline{pts: []vec.Vec2{v}, dir: vec.Vec2{X: 1}})
	}, func(_, b vec.Vec2) {
		l := &r.lines[len(r.lines)-1]
		l.pts = appendDistinct(l.pts, b)
	}, func(start, _ vec.Vec2, closed bool) {
		l := &r.lines[len(r.lines)-1]
		if closed {
			n := len(l.pts)
			if n > 1 && l.pts[n-1].Sub(start).Length() <= zeroLength {
				l.pts = l.pts[:n-1]
			}
			l.closed = len(l.pts) > 1
		}
	})

	lines := r.lines
	if r.dashed() {
		lines = r.applyDash(lines)
	}

	r.outline = r.outline[:0]
	d := r.Width / 2
	for i := range lines {
		r.strokeLine(&lines[i], d)
	}

	r.edges = r.edges[:0]
	for _, poly := range r.outline {
		if signedArea(poly) < 0 {
			for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
				poly[i], poly[j] = poly[j], poly[i]
			}
		}
		for i, a := range poly {
			r.addEdge(a, poly[(i+1)%len(poly)])
		}
	}
	r.scan(false, emit)
}

func appendDistinct(pts []vec.Vec2, v vec.Vec2) []vec.Vec2 {
	if len(pts) > 0 && v.Sub(pts[len(pts)-1]).Length() <= zeroLength {
		return pts
	}
	return append(pts, v)
}

// strokeLine adds the outline polygons for one polyline.
func (r *Rasterizer) strokeLine(l *polyline, d float64) {
	n := len(l.pts)
	if n == 1 {
		switch r.Cap {
		case graphics.LineCapRound:
			r.addCircle(l.pts[0], d)
		case graphics.LineCapSquare:
			r.addSquareCap(l.pts[0], l.dir.Mul(-1), d)
			r.addSquareCap(l.pts[0], l.dir, d)
		}
		return
	}

	segs := n - 1
	if l.closed {
		segs = n
	}
	tangent := func(i int) vec.Vec2 {
		a, b := l.pts[i%n], l.pts[(i+1)%n]
		v := b.Sub(a)
		return v.Mul(1 / v.Length())
	}

	for i := range segs {
		a, b := l.pts[i%n], l.pts[(i+1)%n]
		t := tangent(i)
		nv := normal(t).Mul(d)
		r.outline = append(r.outline, []vec.Vec2{a.Add(nv), b.Add(nv), b.Sub(nv), a.Sub(nv)})
	}

	for i := 1; i < segs; i++ {
		r.addJoin(l.pts[i], tangent(i-1), tangent(i), d)
	}
	if l.closed {
		r.addJoin(l.pts[0], tangent(n-1), tangent(0), d)
		return
	}

	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(l.pts[0], d)
		r.addCircle(l.pts[n-1], d)
	case graphics.LineCapSquare:
		r.addSquareCap(l.pts[0], tangent(0).Mul(-1), d)
		r.addSquareCap(l.pts[n-1], tangent(n-2), d)
	}
}

// normal returns t rotated by 90 degrees counterclockwise.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

// addJoin covers the gap on the outer side of the corner at p, where a
// segment with direction t1 meets a segment with direction t2.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	dot := t1.X*t2.X + t1.Y*t2.Y
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addCircle(p, d)
		return
	}

	s := d
	if cross > 0 {
		s = -d
	}
	n1 := normal(t1)
	n2 := normal(t2)
	a := p.Add(n1.Mul(s))
	b := p.Add(n2.Mul(s))

	if r.Join == graphics.LineJoinMiter && 1+dot > 1e-12 {
		ratio := math.Sqrt(2 / (1 + dot))
		if ratio <= r.MiterLimit {
			m := p.Add(n1.Add(n2).Mul(s / (1 + dot)))
			r.outline = append(r.outline, []vec.Vec2{p, a, m, b})
			return
		}
	}
	r.outline = append(r.outline, []vec.Vec2{p, a, b})
}

// addSquareCap adds a square of half width d extending from p in
// direction t.
func (r *Rasterizer) addSquareCap(p, t vec.Vec2, d float64) {
	n := normal(t).Mul(d)
	e := t.Mul(d)
	r.outline = append(r.outline, []vec.Vec2{p.Add(n), p.Add(n).Add(e), p.Sub(n).Add(e), p.Sub(n)})
}

// addCircle adds a polygon approximating the circle of radius d around
// p, with enough vertices to stay within the flatness tolerance.
func (r *Rasterizer) addCircle(p vec.Vec2, d float64) {
	det := math.Abs(r.CTM[0]*r.CTM[3] - r.CTM[1]*r.CTM[2])
	devR := d * math.Sqrt(det)
	n := 8
	if devR > r.Flatness {
		n = max(n, int(math.Ceil(math.Pi/math.Acos(1-r.Flatness/devR))))
	}
	n = min(n, 1024)

	poly := make([]vec.Vec2, n)
	for i := range poly {
		phi := 2 * math.Pi * float64(i) / float64(n)
		poly[i] = vec.Vec2{X: p.X + d*math.Cos(phi), Y: p.Y + d*math.Sin(phi)}
	}
	r.outline = append(r.outline, poly)
}

func signedArea(poly []vec.Vec2) float64 {
	var s float64
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		s += a.X*b.Y - b.X*a.Y
	}
	return s / 2
}

// dashed reports whether the dash pattern has positive total length.
func (r *Rasterizer) dashed() bool {
	var total float64
	for _, v := range r.Dash {
		if v < 0 {
			return false
		}
		total += v
	}
	return total > 0
}

// applyDash splits the polylines into the "on" pieces of the dash
// pattern.  Patterns of odd length are repeated twice to form one
// period.
func (r *Rasterizer) applyDash(lines []polyline) []polyline {
	dash := r.Dash
	var period float64
	for _, v := range dash {
		period += v
	}
	if len(dash)%2 == 1 {
		period *= 2
	}
	phase := math.Mod(r.DashPhase, period)
	if phase < 0 {
		phase += period
	}

	var out []polyline
	for _, l := range lines {
		if len(l.pts) < 2 {
			continue
		}

		idx := 0
		dist := phase
		for dist > 0 && dist >= dash[idx%len(dash)] {
			dist -= dash[idx%len(dash)]
			idx++
		}
		remaining := dash[idx%len(dash)] - dist
		startOn := idx%2 == 0

		first := len(out)
		cur := -1
		if startOn {
			out = append(out, polyline{pts: []vec.Vec2{l.pts[0]}})
			cur = len(out) - 1
		}

		n := len(l.pts)
		segs := n - 1
		if l.closed {
			segs = n
		}
		for i := range segs {
			a, b := l.pts[i], l.pts[(i+1)%n]
			v := b.Sub(a)
			length := v.Length()
			t := v.Mul(1 / length)

			pos := 0.0
			for length-pos > remaining {
				pos += remaining
				q := a.Add(t.Mul(pos))
				if cur >= 0 {
					out[cur].pts = appendDistinct(out[cur].pts, q)
					out[cur].dir = t
					cur = -1
				} else {
					out = append(out, polyline{pts: []vec.Vec2{q}, dir: t})
					cur = len(out) - 1
				}
				idx++
				remaining = dash[idx%len(dash)]
			}
			remaining -= length - pos
			if cur >= 0 {
				out[cur].pts = appendDistinct(out[cur].pts, b)
				out[cur].dir = t
			}
		}

		// join the last and the first dash of a closed line
		if l.closed && startOn && cur > first {
			out[first].pts = append(out[cur].pts, out[first].pts[1:]...)
			out = out[:cur]
		}
	}
	return out
}

// collinearityThreshold is the cross product below which two segment
// directions are treated as parallel.
const collinearityThreshold = 1e-6
