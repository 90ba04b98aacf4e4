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
	"image"
	"math"

	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/geo"
	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/style"
)

// DrawPolygon fills a polygon feature using the even-odd rule and
// strokes its border.  Pattern fills are aligned to the world origin,
// so that neighbouring polygons with the same pattern join without
// seams.  The title is placed at an interior point.
func (DefaultRenderer) DrawPolygon(fr *Frame, f *model.Feature, st *style.PolygonStyle, title *style.TitleStyle, show bool) error {
	if fr.DeferPolygon(f, st, title, show) {
		return nil
	}

	poly, _ := fr.Geometry(f).(orb.Polygon)
	if len(poly) == 0 {
		return nil
	}
	rings := []orb.Ring(poly)
	if fr.ReduceSubpixelDetail {
		if fr.subpixel(fr.Bound(f)) {
			fr.cull(f)
			return nil
		}
		tol := fr.View.WorldDistance(1)
		var kept []orb.Ring
		for _, r := range rings {
			w := orb.Ring(geo.Weed(orb.LineString(r), tol))
			if distinct(w) > 2 {
				kept = append(kept, w)
			}
		}
		if len(kept) == 0 {
			fr.cull(f)
			return nil
		}
		rings = kept
	}

	p := &path.Data{}
	for _, r := range rings {
		if distinct(r) <= 2 {
			continue
		}
		pts := fr.Screen(r)
		if n := len(pts); pts[0] == pts[n-1] {
			pts = pts[:n-1]
		}
		linePath(p, pts, true)
	}
	if len(p.Cmds) == 0 {
		return nil
	}

	c := fr.Canvas
	c.Fill(p, canvas.EvenOdd, st.Paint(fr.patternOrigin(st.Tile())))
	if fr.selecting {
		hl := fr.Patterns.Highlight(fr.Options.SelectionColor)
		c.Fill(p, canvas.EvenOdd, &canvas.Pattern{Tile: hl, Origin: fr.patternOrigin(hl)})
		pen := canvas.NewPen(st.BorderWidth + 2*fr.Options.SelectionWidth)
		pen.Join = graphics.LineJoinBevel
		c.Stroke(p, pen, canvas.Solid(fr.Options.SelectionColor))
	}
	if st.BorderVisible && st.BorderWidth > 0 {
		c.Stroke(p, st.BorderPen(), canvas.Solid(st.BorderColor))
	}
	fr.Stats.Rendered++

	if !showTitle(f, title, show, fr.View.Scale) {
		return nil
	}
	ip, ok := geo.InteriorPoint(poly)
	if !ok {
		maprender.Logger().Debug("render: no interior point for title", "feature", f.Key())
		return nil
	}
	_, err := fr.Titles.AddSimple(title, f.Title, fr.View.ToScreen(ip))
	return err
}

// patternOrigin returns the position at which a copy of tile must be
// placed so that the pattern is anchored at the world origin.
func (fr *Frame) patternOrigin(tile *image.NRGBA) image.Point {
	if tile == nil {
		return image.Point{}
	}
	b := tile.Bounds()
	o := fr.View.ToScreen(orb.Point{0, 0})
	return image.Point{
		X: round(floorMod(o.X, float64(b.Dx()))),
		Y: round(floorMod(o.Y, float64(b.Dy()))),
	}
}

func floorMod(x, n float64) float64 {
	m := math.Mod(x, n)
	if m < 0 {
		m += n
	}
	return m
}

// distinct returns the number of vertices of a ring, not counting the
// closing copy of the first vertex.
func distinct(r orb.Ring) int {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	return n
}
