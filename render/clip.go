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

package render

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender/geo"
)

// run is a part of a polyline inside the clip rectangle.
type run struct {
	pts []vec.Vec2

	// offset is the arc length of the polyline before the run starts.
	offset float64
}

// clipRuns splits a polyline into the parts inside r.  The polyline is
// cut at every crossing of the boundary of r; the pieces between two
// cuts are kept if their midpoint lies inside r.
func clipRuns(pts []vec.Vec2, r orb.Bound) []run {
	bl := orb.Point{r.Min[0], r.Min[1]}
	br := orb.Point{r.Max[0], r.Min[1]}
	tr := orb.Point{r.Max[0], r.Max[1]}
	tl := orb.Point{r.Min[0], r.Max[1]}
	edges := [4][2]orb.Point{{bl, br}, {br, tr}, {tr, tl}, {tl, bl}}

	var res []run
	open := false
	dist := 0.0
	var cuts []float64
	for i := 0; i+1 < len(pts); i++ {
		a, b := point(pts[i]), point(pts[i+1])
		l := planar.Distance(a, b)

		cuts = append(cuts[:0], 0, 1)
		for _, e := range edges {
			p, dim := geo.Intersect(a, b, e[0], e[1])
			if dim != geo.DimNone {
				cuts = append(cuts, param(a, b, p))
			}
		}
		slices.Sort(cuts)
		cuts = slices.Compact(cuts)

		for k := 0; k+1 < len(cuts); k++ {
			t0, t1 := cuts[k], cuts[k+1]
			if !r.Contains(lerp(a, b, (t0+t1)/2)) {
				open = false
				continue
			}
			if !open {
				res = append(res, run{
					pts:    []vec.Vec2{vector(lerp(a, b, t0))},
					offset: dist + t0*l,
				})
				open = true
			}
			last := &res[len(res)-1]
			last.pts = append(last.pts, vector(lerp(a, b, t1)))
		}
		dist += l
	}
	return res
}

// param returns the position of p on the segment a-b, between 0 and 1.
func param(a, b, p orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / l2
	return math.Max(0, math.Min(1, t))
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func point(v vec.Vec2) orb.Point {
	return orb.Point{v.X, v.Y}
}

func vector(p orb.Point) vec.Vec2 {
	return vec.Vec2{X: p[0], Y: p[1]}
}

// dashPeriod returns the length after which a dash pattern repeats, or
// 0 for a solid line.
func dashPeriod(dash []float64) float64 {
	var sum float64
	for _, d := range dash {
		sum += d
	}
	if sum <= 0 {
		return 0
	}
	if len(dash)%2 == 1 {
		sum *= 2
	}
	return sum
}
