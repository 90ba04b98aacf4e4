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

// Package transform implements coordinate transformations which are
// applied to feature geometry before it is drawn.
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"seehuhn.de/go/maprender"
)

// ErrOutOfDomain is returned when a point cannot be transformed.
var ErrOutOfDomain = errors.New("point outside of transform domain")

// Transform maps points between two coordinate systems.
type Transform interface {
	Forward(p orb.Point) (orb.Point, error)
	Inverse(p orb.Point) (orb.Point, error)
}

// MaxLatitude is the largest latitude which can be represented
// in the Web Mercator projection.
const MaxLatitude = 85.05112877980659

// WebMercator maps WGS84 longitude/latitude in degrees to spherical
// Web Mercator coordinates in metres.
type WebMercator struct{}

// Forward projects a longitude/latitude pair.
func (WebMercator) Forward(p orb.Point) (orb.Point, error) {
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.Abs(p[1]) > MaxLatitude {
		return orb.Point{}, fmt.Errorf("%w: latitude %g", ErrOutOfDomain, p[1])
	}
	return project.WGS84.ToMercator(p), nil
}

// Inverse maps Web Mercator coordinates back to longitude/latitude.
func (WebMercator) Inverse(p orb.Point) (orb.Point, error) {
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
		return orb.Point{}, fmt.Errorf("%w: %v", ErrOutOfDomain, p)
	}
	return project.Mercator.ToWGS84(p), nil
}

// Identity leaves all points unchanged.
type Identity struct{}

// Forward returns p.
func (Identity) Forward(p orb.Point) (orb.Point, error) { return p, nil }

// Inverse returns p.
func (Identity) Inverse(p orb.Point) (orb.Point, error) { return p, nil }

// boundSamples is the number of sample points per edge used by [Bound].
const boundSamples = 16

// Bound estimates the image of the rectangle b under the forward
// transform.  The outline of b is sampled, and the poles are included
// when b contains them.  Points which cannot be transformed are
// skipped.  The second return value is false if no point could be
// transformed.
func Bound(t Transform, b orb.Bound) (orb.Bound, bool) {
	var pts []orb.Point
	for i := range boundSamples + 1 {
		f := float64(i) / boundSamples
		x := b.Min[0] + f*(b.Max[0]-b.Min[0])
		y := b.Min[1] + f*(b.Max[1]-b.Min[1])
		pts = append(pts,
			orb.Point{x, b.Min[1]}, orb.Point{x, b.Max[1]},
			orb.Point{b.Min[0], y}, orb.Point{b.Max[0], y})
	}
	cx := (b.Min[0] + b.Max[0]) / 2
	for _, lat := range []float64{90, -90} {
		if b.Min[1] <= lat && lat <= b.Max[1] {
			pts = append(pts, orb.Point{cx, lat})
		}
	}

	var res orb.Bound
	found := false
	dropped := 0
	for _, p := range pts {
		q, err := t.Forward(p)
		if err != nil {
			dropped++
			continue
		}
		if !found {
			res = orb.Bound{Min: q, Max: q}
			found = true
		} else {
			res = res.Extend(q)
		}
	}
	if dropped > 0 {
		maprender.Logger().Warn("transform: points dropped from bound",
			"bound", b, "dropped", dropped)
	}
	return res, found
}

// Geometry applies the forward transform to all points of g.  Points
// which cannot be transformed are dropped, and the number of dropped
// points is returned.  Supported geometries are points, multipoints,
// line strings, multi line strings and polygons; other geometries are
// returned unchanged.
func Geometry(t Transform, g orb.Geometry) (orb.Geometry, int) {
	switch g := g.(type) {
	case orb.Point:
		q, err := t.Forward(g)
		if err != nil {
			return nil, 1
		}
		return q, 0
	case orb.MultiPoint:
		res, n := points(t, g)
		return orb.MultiPoint(res), n
	case orb.LineString:
		res, n := points(t, g)
		return orb.LineString(res), n
	case orb.MultiLineString:
		res := make(orb.MultiLineString, 0, len(g))
		total := 0
		for _, ls := range g {
			pts, n := points(t, ls)
			total += n
			res = append(res, pts)
		}
		return res, total
	case orb.Polygon:
		res := make(orb.Polygon, 0, len(g))
		total := 0
		for _, r := range g {
			pts, n := points(t, r)
			total += n
			res = append(res, pts)
		}
		return res, total
	default:
		return g, 0
	}
}

func points(t Transform, in []orb.Point) ([]orb.Point, int) {
	out := make([]orb.Point, 0, len(in))
	for _, p := range in {
		q, err := t.Forward(p)
		if err != nil {
			continue
		}
		out = append(out, q)
	}
	return out, len(in) - len(out)
}
