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
	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/label"
	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/transform"
	"seehuhn.de/go/maprender/viewport"
)

// Frame holds the state of a single render.  A new Frame is created for
// every call to [Renderer.RenderInto] and discarded afterwards.
type Frame struct {
	Canvas   canvas.Canvas
	View     viewport.Viewport
	Options  *Options
	Patterns *style.Patterns

	// Titles collects the feature titles of all layers.
	Titles label.Buffer

	// Transform, if not nil, is applied to feature geometry.
	Transform transform.Transform

	// ReduceSubpixelDetail enables culling of features smaller than a
	// pixel.
	ReduceSubpixelDetail bool

	Stats Stats

	selecting bool
	points    []pendingPoint
	polylines []pendingPolyline
	polygons  []pendingPolygon

	projected map[*model.Feature]projected
}

type projected struct {
	geom  orb.Geometry
	bound orb.Bound
}

type pendingPoint struct {
	f         *model.Feature
	st        *style.PointStyle
	title     *style.TitleStyle
	showTitle bool
}

type pendingPolyline struct {
	f         *model.Feature
	st        *style.PolylineStyle
	title     *style.TitleStyle
	showTitle bool
}

type pendingPolygon struct {
	f         *model.Feature
	st        *style.PolygonStyle
	title     *style.TitleStyle
	showTitle bool
}

// Selecting reports whether the frame is in a selection pass.
func (fr *Frame) Selecting() bool {
	return fr.selecting
}

// DeferPoint queues a selected point feature for the selection pass.
// It reports whether f was queued, in which case the caller must not
// draw it now.
func (fr *Frame) DeferPoint(f *model.Feature, st *style.PointStyle, title *style.TitleStyle, showTitle bool) bool {
	if !f.Selected || fr.selecting {
		return false
	}
	fr.points = append(fr.points, pendingPoint{f, st, title, showTitle})
	return true
}

// DeferPolyline queues a selected polyline feature for the selection
// pass.  It reports whether f was queued.
func (fr *Frame) DeferPolyline(f *model.Feature, st *style.PolylineStyle, title *style.TitleStyle, showTitle bool) bool {
	if !f.Selected || fr.selecting {
		return false
	}
	fr.polylines = append(fr.polylines, pendingPolyline{f, st, title, showTitle})
	return true
}

// DeferPolygon queues a selected polygon feature for the selection
// pass.  It reports whether f was queued.
func (fr *Frame) DeferPolygon(f *model.Feature, st *style.PolygonStyle, title *style.TitleStyle, showTitle bool) bool {
	if !f.Selected || fr.selecting {
		return false
	}
	fr.polygons = append(fr.polygons, pendingPolygon{f, st, title, showTitle})
	return true
}

// FlushPoints draws the queued selected points with fr in selection
// mode, and empties the queue.
func (fr *Frame) FlushPoints(r FeatureRenderer) error {
	queue := fr.points
	fr.points = nil
	fr.selecting = true
	defer func() { fr.selecting = false }()
	for _, p := range queue {
		if err := r.DrawPoint(fr, p.f, p.st, p.title, p.showTitle); err != nil {
			return err
		}
	}
	return nil
}

// FlushPolylines draws the queued selected polylines.
func (fr *Frame) FlushPolylines(r FeatureRenderer) error {
	queue := fr.polylines
	fr.polylines = nil
	fr.selecting = true
	defer func() { fr.selecting = false }()
	for _, p := range queue {
		if err := r.DrawPolyline(fr, p.f, p.st, p.title, p.showTitle); err != nil {
			return err
		}
	}
	return nil
}

// FlushPolygons draws the queued selected polygons.
func (fr *Frame) FlushPolygons(r FeatureRenderer) error {
	queue := fr.polygons
	fr.polygons = nil
	fr.selecting = true
	defer func() { fr.selecting = false }()
	for _, p := range queue {
		if err := r.DrawPolygon(fr, p.f, p.st, p.title, p.showTitle); err != nil {
			return err
		}
	}
	return nil
}

// Geometry returns the geometry of f in viewport coordinates, after
// applying the coordinate transform.
func (fr *Frame) Geometry(f *model.Feature) orb.Geometry {
	if fr.Transform == nil {
		return f.Geometry()
	}
	return fr.project(f).geom
}

// Bound returns the bounding box of f in viewport coordinates.
func (fr *Frame) Bound(f *model.Feature) orb.Bound {
	if fr.Transform == nil {
		return f.Bound()
	}
	return fr.project(f).bound
}

func (fr *Frame) project(f *model.Feature) projected {
	if p, ok := fr.projected[f]; ok {
		return p
	}
	g, dropped := transform.Geometry(fr.Transform, f.Geometry())
	if dropped > 0 {
		maprender.Logger().Warn("render: points outside of transform domain",
			"feature", f.Key(), "dropped", dropped)
	}
	if g == nil {
		g = orb.MultiPoint{}
	}
	p := projected{geom: g, bound: g.Bound()}
	if fr.projected == nil {
		fr.projected = make(map[*model.Feature]projected)
	}
	fr.projected[f] = p
	return p
}

// Screen converts a world polyline to pixel coordinates.
func (fr *Frame) Screen(pts []orb.Point) []vec.Vec2 {
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = fr.View.ToScreen(p)
	}
	return res
}

// linePath returns the path through pts.
func linePath(p *path.Data, pts []vec.Vec2, closed bool) *path.Data {
	if p == nil {
		p = &path.Data{}
	}
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0])
	for _, q := range pts[1:] {
		p.LineTo(q)
	}
	if closed {
		p.Close()
	}
	return p
}

// subpixel reports whether b is smaller than a pixel in both directions.
func (fr *Frame) subpixel(b orb.Bound) bool {
	return fr.View.Pixels(b.Max[0]-b.Min[0]) < 1 && fr.View.Pixels(b.Max[1]-b.Min[1]) < 1
}
