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
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/geo"
	"seehuhn.de/go/maprender/text"
)

const (
	// maxKink is the largest change of direction, in degrees, between
	// two consecutive pieces of a following title.
	maxKink = 45

	// maxTurn limits the turn angle used to shorten the text at a
	// vertex.
	maxTurn = 80
)

// Follow computes the placement of s along line, centred on the middle
// of the line.  The line is split into straight pieces and every piece
// receives a part of the text proportional to its length.  The result
// is false if the text does not fit, or if the line is too curved for
// a legible title.
func Follow(face *text.Face, s string, line orb.LineString) (*Following, bool) {
	log := maprender.Logger()

	w := face.Width(s)
	if w <= 0 || w >= geo.Length(line) {
		return nil, false
	}

	half := face.Height() / 2
	line = geo.Weed(line, half)
	total := geo.Length(line)
	if w >= total {
		return nil, false
	}

	pts := window(line, (total-w)/2, (total+w)/2)
	if len(pts) < 2 {
		return nil, false
	}

	// read left to right
	var fwd, back float64
	for i := 1; i < len(pts); i++ {
		l := planar.Distance(pts[i-1], pts[i])
		if pts[i][0]-pts[i-1][0] >= 0 {
			fwd += l
		} else {
			back += l
		}
	}
	if back > fwd {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	n := len(pts) - 1
	runes := []rune(s)
	if len(runes) < n {
		log.Debug("label: too few characters for path", "title", s, "segments", n)
		return nil, false
	}

	// At a vertex, the text on both sides is shortened so that the
	// inner corners of the glyph boxes do not collide.
	pull := make([]float64, n+1)
	for i := 1; i < n; i++ {
		turn := math.Abs(turnAngle(pts[i-1], pts[i], pts[i+1]))
		pull[i] = half * math.Tan(math.Min(turn, maxTurn)*math.Pi/360)
	}
	avail := make([]float64, n)
	var sum float64
	for i := range n {
		a := planar.Distance(pts[i], pts[i+1]) - pull[i] - pull[i+1]
		avail[i] = max(a, 0)
		sum += avail[i]
	}
	if sum <= 0 {
		return nil, false
	}

	counts := make([]int, n)
	start := 0
	zeros := 0
	for i := range n {
		remaining := len(runes) - start
		k := remaining
		if i < n-1 {
			k = bestCount(face, runes[start:], avail[i], avail[i]/sum*float64(len(runes)))
		}
		if k < 0 {
			log.Debug("label: cannot distribute title", "title", s)
			return nil, false
		}
		if i == n-1 && face.Width(string(runes[start:])) > avail[i]+half {
			log.Debug("label: title overruns the path", "title", s)
			return nil, false
		}
		if k == 0 {
			zeros++
			if zeros > 1 {
				log.Debug("label: gap in following title", "title", s)
				return nil, false
			}
		} else {
			zeros = 0
		}
		counts[i] = k
		start += k
	}

	asc, desc := face.Ascent(), face.Descent()
	res := &Following{}
	start = 0
	prevAngle := math.NaN()
	for i, k := range counts {
		if k == 0 {
			continue
		}
		sub := string(runes[start : start+k])
		start += k

		a, b := pts[i], pts[i+1]
		angle := math.Atan2(b[1]-a[1], b[0]-a[0]) * 180 / math.Pi
		if !math.IsNaN(prevAngle) && math.Abs(normAngle(angle-prevAngle)) > maxKink {
			log.Debug("label: following title kinks", "title", s)
			return nil, false
		}
		prevAngle = angle

		dir := vec.Vec2{X: b[0] - a[0], Y: b[1] - a[1]}
		dir = dir.Mul(1 / dir.Length())
		p := Piece{
			Text:      sub,
			Translate: vec.Vec2{X: a[0], Y: a[1]}.Add(dir.Mul(pull[i])),
			Angle:     angle,
			Origin:    vec.Vec2{Y: (asc - desc) / 2},
		}
		sw := face.Width(sub)
		m := p.Matrix()
		for j, c := range [4]vec.Vec2{{X: 0, Y: -asc}, {X: sw, Y: -asc}, {X: sw, Y: desc}, {X: 0, Y: desc}} {
			p.Corners[j] = vec.Vec2{
				X: m[0]*c.X + m[2]*c.Y + m[4],
				Y: m[1]*c.X + m[3]*c.Y + m[5],
			}
		}
		res.Pieces = append(res.Pieces, p)
	}
	return res, true
}

// bestCount returns the number of leading runes of rs whose width is
// closest to span, trying the integers next to the estimate.  The
// result is -1 if no candidate fits into rs.
func bestCount(face *text.Face, rs []rune, span, estimate float64) int {
	k0 := int(math.Round(estimate))
	best, bestErr := -1, math.Inf(1)
	for k := k0 - 1; k <= k0+1; k++ {
		if k < 0 || k > len(rs) {
			continue
		}
		e := math.Abs(face.Width(string(rs[:k])) - span)
		if e < bestErr {
			best, bestErr = k, e
		}
	}
	return best
}

// window returns the part of line between the arc lengths from and to.
// Vertices closer than a pixel to the start or end point are dropped.
func window(line orb.LineString, from, to float64) orb.LineString {
	p, i, ok := geo.DistantPoint(line, from)
	if !ok {
		return nil
	}
	q, j, ok := geo.DistantPoint(line, to)
	if !ok {
		return nil
	}
	res := orb.LineString{p}
	for k := i + 1; k <= j; k++ {
		v := line[k]
		if planar.Distance(v, res[len(res)-1]) < 1 || planar.Distance(v, q) < 1 {
			continue
		}
		res = append(res, v)
	}
	return append(res, q)
}

// turnAngle returns the change of direction at b, in degrees.
func turnAngle(a, b, c orb.Point) float64 {
	a1 := math.Atan2(b[1]-a[1], b[0]-a[0])
	a2 := math.Atan2(c[1]-b[1], c[0]-b[0])
	return normAngle((a2 - a1) * 180 / math.Pi)
}

// normAngle reduces an angle in degrees to the range (-180, 180].
func normAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

func sincosDeg(a float64) (sin, cos float64) {
	return math.Sincos(a * math.Pi / 180)
}
