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

	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/geo"
	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/style"
)

// DrawPolyline draws a polyline feature: the selection highlight and the
// outline if any, then the line or the stripes of a compound line, then
// the annex line.
//
// If the feature is large compared to the viewport, every path is
// clipped to the viewport first and the visible parts are stroked
// separately, with the dash phase carried over from one part to the
// next.
func (DefaultRenderer) DrawPolyline(fr *Frame, f *model.Feature, st *style.PolylineStyle, title *style.TitleStyle, show bool) error {
	if fr.DeferPolyline(f, st, title, show) {
		return nil
	}

	mls, _ := fr.Geometry(f).(orb.MultiLineString)
	var paths []orb.LineString
	for _, ls := range mls {
		if len(ls) >= 2 {
			paths = append(paths, ls)
		}
	}
	b := fr.Bound(f)
	if fr.ReduceSubpixelDetail {
		if fr.subpixel(b) {
			fr.cull(f)
			return nil
		}
		paths = fr.weedPaths(paths)
		if len(paths) == 0 {
			fr.cull(f)
			return nil
		}
	}
	if len(paths) == 0 {
		return nil
	}

	screen := make([][]vec.Vec2, len(paths))
	for i, ls := range paths {
		screen[i] = fr.Screen(ls)
	}
	clip := fr.clipAware(b)
	stroke := func(pen *canvas.Pen, paint canvas.Paint, offset float64) {
		for _, pts := range screen {
			if offset != 0 {
				pts = geo.Offset(pts, offset)
			}
			fr.strokeLine(pts, pen, paint, clip)
		}
	}

	if fr.selecting {
		w := st.Width
		if st.Outline {
			w += 2 * st.OutlineWidth
		}
		pen := canvas.NewPen(w + 2*fr.Options.SelectionWidth)
		pen.Cap = graphics.LineCapRound
		stroke(pen, canvas.Solid(fr.Options.SelectionColor), 0)
	}
	if st.Outline {
		stroke(st.OutlinePen(), canvas.Solid(st.OutlineColor), 0)
	}
	for _, stripe := range st.Stripes() {
		pen := st.Pen()
		pen.Width = stripe.Width
		stroke(pen, canvas.Solid(st.Color), stripe.Offset)
	}
	if a := st.Annex; a != nil {
		stroke(a.Pen(), canvas.Solid(a.Color), a.Offset)
	}
	fr.Stats.Rendered++

	if !showTitle(f, title, show, fr.View.Scale) {
		return nil
	}
	var line orb.LineString
	longest := -1.0
	for _, pts := range screen {
		ls := make(orb.LineString, len(pts))
		for i, p := range pts {
			ls[i] = point(p)
		}
		if l := geo.Length(ls); l > longest {
			line, longest = ls, l
		}
	}
	if title.LeadAlong {
		e, err := fr.Titles.AddFollowing(title, f.Title, line)
		if err != nil {
			return err
		}
		if e == nil {
			maprender.Logger().Debug("render: no room for title", "feature", f.Key(), "title", f.Title)
		}
		return nil
	}
	mid, _, ok := geo.DistantPoint(line, longest/2)
	if !ok {
		return nil
	}
	_, err := fr.Titles.AddSimple(title, f.Title, vector(mid))
	return err
}

// strokeLine strokes the polyline pts.  If clip is set, only the parts
// inside the canvas are stroked.
func (fr *Frame) strokeLine(pts []vec.Vec2, pen *canvas.Pen, paint canvas.Paint, clip bool) {
	if !clip {
		fr.Canvas.Stroke(linePath(nil, pts, false), pen, paint)
		return
	}

	// leave room for caps and joins outside the canvas
	pad := pen.Width + 1
	b := fr.Canvas.Bounds()
	r := orb.Bound{
		Min: orb.Point{float64(b.Min.X) - pad, float64(b.Min.Y) - pad},
		Max: orb.Point{float64(b.Max.X) + pad, float64(b.Max.Y) + pad},
	}
	period := dashPeriod(pen.Dash)
	for _, run := range clipRuns(pts, r) {
		p := *pen
		if period > 0 {
			p.DashPhase = math.Mod(pen.DashPhase+run.offset, period)
		}
		fr.Canvas.Stroke(linePath(nil, run.pts, false), &p, paint)
	}
}

// clipAware reports whether a feature with bounding box b should be
// clipped to the viewport before stroking.
func (fr *Frame) clipAware(b orb.Bound) bool {
	fw := fr.View.Pixels(b.Max[0] - b.Min[0])
	fh := fr.View.Pixels(b.Max[1] - b.Min[1])
	ratio := math.Inf(1)
	if fw > 0 {
		ratio = float64(fr.View.Width) / fw
	}
	if fh > 0 {
		ratio = math.Min(ratio, float64(fr.View.Height)/fh)
	}
	return ratio < fr.Options.ClipRatio
}

// weedPaths drops vertices closer than a pixel to their predecessor, and
// paths which become shorter than a pixel.
func (fr *Frame) weedPaths(paths []orb.LineString) []orb.LineString {
	tol := fr.View.WorldDistance(1)
	var res []orb.LineString
	for _, ls := range paths {
		w := geo.Weed(ls, tol)
		if len(w) < 2 || geo.Length(w) < tol {
			continue
		}
		res = append(res, w)
	}
	return res
}

func (fr *Frame) cull(f *model.Feature) {
	fr.Stats.Culled++
	maprender.Logger().Debug("render: feature below pixel size", "feature", f.Key())
}
