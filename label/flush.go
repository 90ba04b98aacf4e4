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

package label

import (
	"cmp"
	"slices"

	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/geo"
)

// Flush draws the queued titles onto c and empties the buffer.
//
// Titles are considered in order of decreasing RenderPriority; among
// titles of equal priority, later titles come first.  A title is drawn
// only if it does not overlap any title drawn before it.  Flush returns
// the number of drawn and of suppressed titles.
func (b *Buffer) Flush(c canvas.Canvas) (drawn, suppressed int) {
	elems := b.elems
	b.Reset()

	slices.SortStableFunc(elems, func(x, y *Element) int {
		if r := cmp.Compare(x.Style.RenderPriority, y.Style.RenderPriority); r != 0 {
			return r
		}
		return cmp.Compare(x.Seq, y.Seq)
	})

	log := maprender.Logger()
	for i := len(elems) - 1; i >= 0; i-- {
		e := elems[i]
		hidden := false
		for j := len(elems) - 1; j > i; j-- {
			if elems[j].Rendered && overlaps(e, elems[j]) {
				hidden = true
				break
			}
		}
		if hidden {
			suppressed++
			log.Debug("label: title suppressed", "title", e.text(), "priority", e.Style.RenderPriority)
			continue
		}
		e.draw(c)
		e.Rendered = true
		drawn++
	}
	return drawn, suppressed
}

func (e *Element) text() string {
	if e.Simple != nil {
		return e.Simple.Text
	}
	var s string
	for _, p := range e.Following.Pieces {
		s += p.Text
	}
	return s
}

func (e *Element) draw(c canvas.Canvas) {
	var outline *path.Data
	if e.Simple != nil {
		box := e.Simple.Box
		baseline := (box.LLy+box.URy)/2 + (e.face.Ascent()-e.face.Descent())/2
		m := matrix.Matrix{1, 0, 0, 1, box.LLx, baseline}
		outline = e.face.AppendOutline(&path.Data{}, e.Simple.Text, m)
	} else {
		outline = &path.Data{}
		for i := range e.Following.Pieces {
			p := &e.Following.Pieces[i]
			outline = e.face.AppendOutline(outline, p.Text, p.Matrix())
		}
	}
	if len(outline.Cmds) == 0 {
		return
	}

	st := e.Style
	if st.Outline && st.OutlineSize > 0 {
		c.Stroke(outline, st.HaloPen(), canvas.Solid(st.OutlineColor))
	}
	c.Fill(outline, canvas.NonZero, st.Paint())
}

// overlaps reports whether the areas covered by two titles intersect.
func overlaps(a, b *Element) bool {
	switch {
	case a.Simple != nil && b.Simple != nil:
		return boxesOverlap(a.Simple.Box, b.Simple.Box)
	case a.Simple != nil:
		return quadsOverlap(b.Following.quads(), [][4]vec.Vec2{boxQuad(a.Simple.Box)})
	case b.Simple != nil:
		return quadsOverlap(a.Following.quads(), [][4]vec.Vec2{boxQuad(b.Simple.Box)})
	default:
		return quadsOverlap(a.Following.quads(), b.Following.quads())
	}
}

// boxesOverlap reports whether two boxes share at least one point.
// Boxes which only touch overlap, as do quads in [quadIntersect].
func boxesOverlap(a, b rect.Rect) bool {
	return a.LLx <= b.URx && b.LLx <= a.URx && a.LLy <= b.URy && b.LLy <= a.URy
}

func boxQuad(r rect.Rect) [4]vec.Vec2 {
	return [4]vec.Vec2{
		{X: r.LLx, Y: r.LLy},
		{X: r.URx, Y: r.LLy},
		{X: r.URx, Y: r.URy},
		{X: r.LLx, Y: r.URy},
	}
}

func (f *Following) quads() [][4]vec.Vec2 {
	res := make([][4]vec.Vec2, len(f.Pieces))
	for i := range f.Pieces {
		res[i] = f.Pieces[i].Corners
	}
	return res
}

func quadsOverlap(as, bs [][4]vec.Vec2) bool {
	for _, a := range as {
		for _, b := range bs {
			if quadIntersect(a, b) {
				return true
			}
		}
	}
	return false
}

// quadIntersect reports whether two convex quadrilaterals intersect,
// either because two edges cross or touch, or because one lies inside
// the other.
func quadIntersect(a, b [4]vec.Vec2) bool {
	for i := range 4 {
		a1, a2 := pt(a[i]), pt(a[(i+1)%4])
		for j := range 4 {
			b1, b2 := pt(b[j]), pt(b[(j+1)%4])
			if _, dim := geo.Intersect(a1, a2, b1, b2); dim != geo.DimNone {
				return true
			}
		}
	}
	return geo.Contains(ring(b), pt(a[0])) || geo.Contains(ring(a), pt(b[0]))
}

func pt(v vec.Vec2) orb.Point {
	return orb.Point{v.X, v.Y}
}

func ring(q [4]vec.Vec2) orb.Polygon {
	return orb.Polygon{{pt(q[0]), pt(q[1]), pt(q[2]), pt(q[3]), pt(q[0])}}
}
