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

package geo

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// maxMiter bounds the vertex displacement of [Offset] at sharp corners,
// in multiples of the offset distance.
const maxMiter = 4

// Offset returns the polyline shifted sideways by d.  Positive values
// shift to the left of the direction of travel, in a coordinate system
// with the y axis pointing down ("left" as seen on screen).  Corners are
// mitred, with the miter length limited to maxMiter times d.
func Offset(pts []vec.Vec2, d float64) []vec.Vec2 {
	if d == 0 || len(pts) < 2 {
		return append([]vec.Vec2(nil), pts...)
	}

	// left normals of the segments; zero for zero-length segments
	normals := make([]vec.Vec2, len(pts)-1)
	for i := range normals {
		v := pts[i+1].Sub(pts[i])
		l := v.Length()
		if l > 0 {
			normals[i] = vec.Vec2{X: v.Y / l, Y: -v.X / l}
		}
	}
	// carry normals over zero-length segments
	for i := 1; i < len(normals); i++ {
		if normals[i] == (vec.Vec2{}) {
			normals[i] = normals[i-1]
		}
	}
	for i := len(normals) - 2; i >= 0; i-- {
		if normals[i] == (vec.Vec2{}) {
			normals[i] = normals[i+1]
		}
	}

	res := make([]vec.Vec2, len(pts))
	res[0] = pts[0].Add(normals[0].Mul(d))
	last := len(pts) - 1
	res[last] = pts[last].Add(normals[last-1].Mul(d))
	for i := 1; i < last; i++ {
		n1, n2 := normals[i-1], normals[i]
		m := n1.Add(n2)
		ml := m.Length()
		if ml < 1e-9 {
			res[i] = pts[i].Add(n2.Mul(d))
			continue
		}
		m = m.Mul(1 / ml)
		cos := m.X*n1.X + m.Y*n1.Y
		f := math.Min(1/cos, maxMiter)
		res[i] = pts[i].Add(m.Mul(d * f))
	}
	return res
}
