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

// Package geo contains the planar geometry operations used by the
// renderer and the label placement: segment intersection, vertex
// weeding, arc length walks, interior points and line offsetting.
package geo

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// Dimension classifies the intersection of two segments.
type Dimension int

// These are the possible intersection dimensions.
const (
	DimNone    Dimension = iota // disjoint
	DimPoint                    // a single common point
	DimOverlap                  // collinear with a common sub-segment
)

// eps is the tolerance for parallel and collinear tests, relative to the
// segment lengths.
const eps = 1e-12

// Intersect computes the intersection of the segments a1-a2 and b1-b2.
// For DimPoint, p is the common point.  For DimOverlap, p is the first
// point of the overlap along a1-a2.
func Intersect(a1, a2, b1, b2 orb.Point) (p orb.Point, dim Dimension) {
	dax, day := a2[0]-a1[0], a2[1]-a1[1]
	dbx, dby := b2[0]-b1[0], b2[1]-b1[1]
	ex, ey := b1[0]-a1[0], b1[1]-a1[1]

	den := dax*dby - day*dbx
	scale := math.Hypot(dax, day) * math.Hypot(dbx, dby)
	if math.Abs(den) > eps*scale {
		s := (ex*dby - ey*dbx) / den
		t := (ex*day - ey*dax) / den
		if s < 0 || s > 1 || t < 0 || t > 1 {
			return orb.Point{}, DimNone
		}
		return orb.Point{a1[0] + s*dax, a1[1] + s*day}, DimPoint
	}

	// parallel: check for collinearity
	la := math.Hypot(dax, day)
	if la == 0 {
		if onSegment(a1, b1, b2) {
			return a1, DimPoint
		}
		return orb.Point{}, DimNone
	}
	if math.Abs(ex*day-ey*dax) > eps*la*max(la, math.Hypot(ex, ey)) {
		return orb.Point{}, DimNone
	}

	// project b onto a, parameterised by s in [0,1]
	l2 := dax*dax + day*day
	s0 := (ex*dax + ey*day) / l2
	s1 := ((b2[0]-a1[0])*dax + (b2[1]-a1[1])*day) / l2
	lo := max(min(s0, s1), 0)
	hi := min(max(s0, s1), 1)
	switch {
	case lo > hi:
		return orb.Point{}, DimNone
	case lo == hi:
		return orb.Point{a1[0] + lo*dax, a1[1] + lo*day}, DimPoint
	}
	return orb.Point{a1[0] + lo*dax, a1[1] + lo*day}, DimOverlap
}

func onSegment(p, a, b orb.Point) bool {
	return planar.DistanceFromSegment(a, b, p) <= eps*max(1, planar.Distance(a, b))
}

// Length returns the arc length of ls.
func Length(ls orb.LineString) float64 {
	return planar.Length(ls)
}

// Weed removes vertices closer than tol to the previous kept vertex.  The
// first and the last vertex are always kept.  The input is not modified.
func Weed(ls orb.LineString, tol float64) orb.LineString {
	return simplify.Radial(planar.Distance, tol).LineString(slices.Clone(ls))
}

// DistantPoint walks along ls and returns the point at arc length d
// from the start, together with the index of the vertex at the start of
// the segment containing the point.  ok is false if d is negative or
// longer than ls.
func DistantPoint(ls orb.LineString, d float64) (p orb.Point, index int, ok bool) {
	if d < 0 || len(ls) == 0 {
		return orb.Point{}, 0, false
	}
	for i := 0; i+1 < len(ls); i++ {
		l := planar.Distance(ls[i], ls[i+1])
		if d <= l {
			if l == 0 {
				return ls[i], i, true
			}
			t := d / l
			return orb.Point{
				ls[i][0] + t*(ls[i+1][0]-ls[i][0]),
				ls[i][1] + t*(ls[i+1][1]-ls[i][1]),
			}, i, true
		}
		d -= l
	}
	if d <= eps*max(1, planar.Length(ls)) {
		n := len(ls) - 1
		return ls[n], max(n-1, 0), true
	}
	return orb.Point{}, 0, false
}

// Contains reports whether p lies inside poly, taking holes into account.
func Contains(poly orb.Polygon, p orb.Point) bool {
	return planar.PolygonContains(poly, p)
}

// InteriorPoint returns a point strictly inside poly.  The point is the
// centre of the widest interior interval on one of several horizontal
// lines through the polygon.  ok is false for degenerate polygons.
func InteriorPoint(poly orb.Polygon) (p orb.Point, ok bool) {
	if len(poly) == 0 || len(poly[0]) < 3 {
		return orb.Point{}, false
	}
	b := poly.Bound()
	h := b.Max[1] - b.Min[1]
	if h <= 0 || b.Max[0] <= b.Min[0] {
		return orb.Point{}, false
	}

	best := -1.0
	var xs []float64
	for _, f := range []float64{0.5, 0.25, 0.75, 0.375, 0.625, 0.125, 0.875} {
		y := b.Min[1] + f*h
		xs = xs[:0]
		for _, r := range poly {
			n := len(r)
			for i := range n {
				a, c := r[i], r[(i+1)%n]
				if (a[1] > y) == (c[1] > y) {
					continue
				}
				xs = append(xs, a[0]+(y-a[1])*(c[0]-a[0])/(c[1]-a[1]))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			if w := xs[i+1] - xs[i]; w > best {
				best = w
				p = orb.Point{(xs[i] + xs[i+1]) / 2, y}
			}
		}
		if best > 0 && f == 0.5 {
			break
		}
	}
	return p, best > 0
}
