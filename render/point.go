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

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/text"
)

// DefaultRenderer is the standard [FeatureRenderer].
type DefaultRenderer struct{}

// DrawPoint draws a point or multipoint feature.  The marker is placed
// according to the alignment of the style.  Selected features get a
// highlighted box around every marker.
func (DefaultRenderer) DrawPoint(fr *Frame, f *model.Feature, st *style.PointStyle, title *style.TitleStyle, show bool) error {
	if fr.DeferPoint(f, st, title, show) {
		return nil
	}

	var pts []orb.Point
	switch g := fr.Geometry(f).(type) {
	case orb.Point:
		pts = []orb.Point{g}
	case orb.MultiPoint:
		pts = g
	}
	if len(pts) == 0 {
		return nil
	}

	w, h, err := st.Extent()
	if err != nil {
		return err
	}
	dx, dy, err := st.Alignment.Offset(w, h)
	if err != nil {
		return err
	}
	var face *text.Face
	if st.Display == style.DisplaySymbol {
		face, err = st.Face()
		if err != nil {
			return err
		}
	}

	c := fr.Canvas
	corners := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		s := fr.View.ToScreen(p)
		x0, y0 := s.X+dx, s.Y+dy
		corners[i] = vec.Vec2{X: x0, Y: y0}

		switch st.Display {
		case style.DisplayImage:
			if st.Image != nil {
				c.DrawImage(st.Image, image.Rect(round(x0), round(y0), round(x0+w), round(y0+h)))
			}
		default:
			m := matrix.Matrix{1, 0, 0, 1, x0, y0 + face.Ascent()}
			outline := face.AppendOutline(&path.Data{}, string(st.Symbol), m)
			c.Fill(outline, canvas.NonZero, canvas.Solid(st.Color))
		}

		if fr.selecting {
			fr.highlightBox(x0, y0, w, h)
		}
	}
	fr.Stats.Rendered++

	if !showTitle(f, title, show, fr.View.Scale) {
		return nil
	}
	tface, err := title.Face()
	if err != nil {
		return err
	}
	// titles sit on top of the marker
	above := func(corner vec.Vec2) vec.Vec2 {
		return vec.Vec2{X: corner.X + w/2, Y: corner.Y - tface.Height()/2}
	}
	switch {
	case f.Kind() == model.KindPoint || len(pts) == 1:
		_, err = fr.Titles.AddSimple(title, f.Title, above(corners[0]))
	case title.LeadAlong:
		for _, corner := range corners {
			if _, err = fr.Titles.AddSimple(title, f.Title, above(corner)); err != nil {
				break
			}
		}
	default:
		centroid, _ := planar.CentroidArea(orb.MultiPoint(pts))
		_, err = fr.Titles.AddSimple(title, f.Title, fr.View.ToScreen(centroid))
	}
	return err
}

// highlightBox marks the box of a selected marker.
func (fr *Frame) highlightBox(x, y, w, h float64) {
	sel := fr.Options.SelectionColor
	box := []vec.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	p := linePath(nil, box, true)

	fill := sel
	fill.A /= 3
	fr.Canvas.Fill(p, canvas.NonZero, canvas.Solid(fill))
	fr.Canvas.Stroke(p, canvas.NewPen(fr.Options.SelectionWidth), canvas.Solid(sel))
}
