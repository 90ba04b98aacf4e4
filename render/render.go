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

// Package render draws maps.
//
// A [Renderer] draws the layers of a [model.Map] bottom to top.  Within
// each layer polygons are drawn first, then polylines, then points.
// Selected features of each kind are drawn, with a highlight, right
// after the other features of the same kind.  Titles of all layers are
// placed together once all features have been drawn, so that titles of
// different layers do not overlap.
//
// The drawing of individual features is delegated to a
// [FeatureRenderer].  Layers select a feature renderer by name.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/transform"
	"seehuhn.de/go/maprender/viewport"
)

// ErrNoRenderer is returned if a layer refers to a feature renderer
// which has not been registered.
var ErrNoRenderer = errors.New("no such feature renderer")

// ErrNoStyle is returned if neither a feature nor its layer provide a
// style for the feature's geometry.
var ErrNoStyle = errors.New("no style")

// FeatureRenderer draws individual features.
//
// The draw methods are called once per visible feature.  They must
// respect the selection protocol of the frame: a selected feature
// which is passed to Frame.DeferPoint (or DeferPolyline, DeferPolygon)
// outside of a selection pass is queued and must not be drawn.
// Implementations which only want to change some feature kinds can
// embed [DefaultRenderer].
type FeatureRenderer interface {
	DrawPoint(fr *Frame, f *model.Feature, st *style.PointStyle, title *style.TitleStyle, showTitle bool) error
	DrawPolyline(fr *Frame, f *model.Feature, st *style.PolylineStyle, title *style.TitleStyle, showTitle bool) error
	DrawPolygon(fr *Frame, f *model.Feature, st *style.PolygonStyle, title *style.TitleStyle, showTitle bool) error
}

// Options control a [Renderer].
type Options struct {
	// AntiAlias and TextAntiAlias switch anti-aliasing on for the
	// geometry and for the titles.
	AntiAlias     bool
	TextAntiAlias bool

	// Background is painted over the whole canvas before anything else.
	// A transparent colour leaves the canvas unchanged.
	Background color.NRGBA

	// SelectionColor is used for the highlight of selected features.
	SelectionColor color.NRGBA

	// SelectionWidth is the width in pixels by which the highlight
	// extends beyond the outline of a selected feature.
	SelectionWidth float64

	// ClipRatio decides when polylines are clipped to the viewport before
	// stroking: this happens if the viewport is less than ClipRatio times
	// larger than the feature in one of the two directions.
	ClipRatio float64
}

// DefaultOptions returns the options used by [New].
func DefaultOptions() Options {
	return Options{
		AntiAlias:      true,
		TextAntiAlias:  true,
		Background:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		SelectionColor: color.NRGBA{R: 0, G: 120, B: 215, A: 255},
		SelectionWidth: 2,
		ClipRatio:      2,
	}
}

// Stats summarises a render.
type Stats struct {
	// Rendered is the number of features which were drawn.
	Rendered int

	// Culled is the number of features skipped because they are smaller
	// than a pixel.
	Culled int

	// Labels and LabelsSuppressed count the titles which were drawn and
	// which were dropped because of overlaps.
	Labels           int
	LabelsSuppressed int
}

// Renderer draws maps.  A Renderer can be used for several renders
// concurrently, as long as Register is not called at the same time.
type Renderer struct {
	Options  Options
	Patterns *style.Patterns

	mu        sync.RWMutex
	renderers map[string]FeatureRenderer
}

// New returns a renderer using the given options.  The
// [DefaultRenderer] is registered under the name
// [model.DefaultRenderer].
func New(opts Options) *Renderer {
	r := &Renderer{
		Options:   opts,
		Patterns:  style.DefaultPatterns,
		renderers: make(map[string]FeatureRenderer),
	}
	r.renderers[model.DefaultRenderer] = DefaultRenderer{}
	return r
}

// Register makes a feature renderer available under the given name.
func (r *Renderer) Register(name string, fr FeatureRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[name] = fr
}

// Names returns the names of all registered feature renderers.
func (r *Renderer) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.renderers))
}

func (r *Renderer) lookup(name string) (FeatureRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fr, ok := r.renderers[name]
	return fr, ok
}

// Render draws the part world of m into a new width×height image.
func (r *Renderer) Render(m *model.Map, world orb.Bound, width, height int) (*image.RGBA, Stats, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stats, err := r.RenderInto(canvas.NewImage(img), m, world)
	if err != nil {
		return nil, stats, err
	}
	return img, stats, nil
}

// RenderInto draws the part world of m onto c.  The map is in the
// Rendering state during the call, so that concurrent changes to the
// map fail.
func (r *Renderer) RenderInto(c canvas.Canvas, m *model.Map, world orb.Bound) (Stats, error) {
	b := c.Bounds()
	vp, err := viewport.New(world, b.Dx(), b.Dy())
	if err != nil {
		return Stats{}, err
	}
	if err := m.Begin(model.Rendering); err != nil {
		return Stats{}, err
	}
	defer m.End()

	type job struct {
		l  *model.Layer
		fr FeatureRenderer
	}
	var jobs []job
	for _, l := range m.Layers() {
		if !l.VisibleAt(vp.Scale) {
			continue
		}
		fr, ok := r.lookup(l.Renderer)
		if !ok {
			return Stats{}, fmt.Errorf("layer %q: %w %q", l.Name, ErrNoRenderer, l.Renderer)
		}
		jobs = append(jobs, job{l, fr})
	}

	opts := r.Options
	frame := &Frame{
		Canvas:               c,
		View:                 vp,
		Options:              &opts,
		Patterns:             r.Patterns,
		Transform:            m.Transform,
		ReduceSubpixelDetail: m.ReduceSubpixelDetail,
	}
	if frame.Patterns == nil {
		frame.Patterns = style.DefaultPatterns
	}

	c.SetAntiAlias(opts.AntiAlias)
	if opts.Background.A > 0 {
		rect := []vec.Vec2{
			{X: 0, Y: 0}, {X: float64(b.Dx()), Y: 0},
			{X: float64(b.Dx()), Y: float64(b.Dy())}, {X: 0, Y: float64(b.Dy())},
		}
		c.Fill(linePath(nil, rect, true), canvas.NonZero, canvas.Solid(opts.Background))
	}
	if bg := m.Background; bg != nil && bg.Image != nil {
		tl := vp.ToScreen(orb.Point{bg.Bound.Min[0], bg.Bound.Max[1]})
		br := vp.ToScreen(orb.Point{bg.Bound.Max[0], bg.Bound.Min[1]})
		dst := image.Rect(round(tl.X), round(tl.Y), round(br.X), round(br.Y))
		if dst.Overlaps(image.Rect(0, 0, b.Dx(), b.Dy())) {
			c.DrawImage(bg.Image, dst)
		}
	}

	query := vp.Visible()
	if m.Transform != nil {
		q, ok := transform.Bound(inverse{m.Transform}, query)
		if !ok {
			maprender.Logger().Warn("render: viewport outside of transform domain", "viewport", query)
			jobs = nil
		}
		query = q
	}

	for _, j := range jobs {
		if err := renderLayer(frame, j.fr, j.l, query); err != nil {
			return frame.Stats, fmt.Errorf("layer %q: %w", j.l.Name, err)
		}
	}

	c.SetAntiAlias(opts.TextAntiAlias)
	frame.Stats.Labels, frame.Stats.LabelsSuppressed = frame.Titles.Flush(c)

	maprender.Logger().Debug("render: done",
		"rendered", frame.Stats.Rendered,
		"culled", frame.Stats.Culled,
		"labels", frame.Stats.Labels,
		"suppressed", frame.Stats.LabelsSuppressed)
	return frame.Stats, nil
}

// renderLayer draws one layer: polygons, polylines and points, each
// followed by the selected features of the same kind.
func renderLayer(fr *Frame, r FeatureRenderer, l *model.Layer, query orb.Bound) error {
	features := l.Query(query)

	before := fr.Stats
	var points, lines, polys []*model.Feature
	for _, f := range features {
		switch f.Kind() {
		case model.KindPoint, model.KindMultiPoint:
			points = append(points, f)
		case model.KindPolyline:
			lines = append(lines, f)
		case model.KindPolygon:
			polys = append(polys, f)
		}
	}

	for _, f := range polys {
		st, title, err := resolvePolygon(f, l)
		if err != nil {
			return err
		}
		if err := r.DrawPolygon(fr, f, st, title, l.ShowTitles); err != nil {
			return err
		}
	}
	if err := fr.FlushPolygons(r); err != nil {
		return err
	}

	for _, f := range lines {
		st, title, err := resolvePolyline(f, l)
		if err != nil {
			return err
		}
		if err := r.DrawPolyline(fr, f, st, title, l.ShowTitles); err != nil {
			return err
		}
	}
	if err := fr.FlushPolylines(r); err != nil {
		return err
	}

	for _, f := range points {
		st, title, err := resolvePoint(f, l)
		if err != nil {
			return err
		}
		if err := r.DrawPoint(fr, f, st, title, l.ShowTitles); err != nil {
			return err
		}
	}
	if err := fr.FlushPoints(r); err != nil {
		return err
	}

	maprender.Logger().Debug("render: layer",
		"layer", l.Name,
		"features", len(features),
		"rendered", fr.Stats.Rendered-before.Rendered,
		"culled", fr.Stats.Culled-before.Culled)
	return nil
}

func resolveTitle(f *model.Feature, l *model.Layer) *style.TitleStyle {
	if f.TitleStyle != nil {
		return f.TitleStyle
	}
	return l.TitleStyle
}

func resolvePoint(f *model.Feature, l *model.Layer) (*style.PointStyle, *style.TitleStyle, error) {
	st := f.PointStyle
	if st == nil {
		st = l.PointStyle
	}
	if st == nil {
		return nil, nil, fmt.Errorf("layer %q, feature %q: %w for points", l.Name, f.Key(), ErrNoStyle)
	}
	return st, resolveTitle(f, l), nil
}

func resolvePolyline(f *model.Feature, l *model.Layer) (*style.PolylineStyle, *style.TitleStyle, error) {
	st := f.PolylineStyle
	if st == nil {
		st = l.PolylineStyle
	}
	if st == nil {
		return nil, nil, fmt.Errorf("layer %q, feature %q: %w for polylines", l.Name, f.Key(), ErrNoStyle)
	}
	return st, resolveTitle(f, l), nil
}

func resolvePolygon(f *model.Feature, l *model.Layer) (*style.PolygonStyle, *style.TitleStyle, error) {
	st := f.PolygonStyle
	if st == nil {
		st = l.PolygonStyle
	}
	if st == nil {
		return nil, nil, fmt.Errorf("layer %q, feature %q: %w for polygons", l.Name, f.Key(), ErrNoStyle)
	}
	return st, resolveTitle(f, l), nil
}

// inverse swaps the directions of a transform.
type inverse struct {
	t transform.Transform
}

func (i inverse) Forward(p orb.Point) (orb.Point, error) { return i.t.Inverse(p) }
func (i inverse) Inverse(p orb.Point) (orb.Point, error) { return i.t.Forward(p) }

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// showTitle reports whether the title of f is drawn.
func showTitle(f *model.Feature, title *style.TitleStyle, show bool, scale float64) bool {
	return show && title != nil && f.Title != "" && title.VisibleAt(scale)
}
