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

// Package mapfile reads map documents.
//
// A map document is a TOML file describing the viewport and a list of
// layers.  Each layer has styles and reads its features from a GeoJSON
// file or from inline GeoJSON:
//
//	[view]
//	min = [5.8, 47.2]
//	max = [15.1, 55.1]
//	width = 800
//	height = 1000
//	projection = "webmercator"
//
//	[[layer]]
//	name = "rivers"
//	source = "rivers.geojson"
//	title_property = "name"
//
//	[layer.polyline]
//	color = "#3070c0"
//	width = 2
//
//	[layer.title]
//	lead_along = true
//
// Unknown keys are an error.
package mapfile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png" // point symbols
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pelletier/go-toml/v2"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/render"
	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/text"
	"seehuhn.de/go/maprender/transform"
)

// ErrNoData is returned for a layer without source and data.
var ErrNoData = errors.New("layer has no data")

// Document is the contents of a map document.
type Document struct {
	View   View    `toml:"view"`
	Layers []Layer `toml:"layer"`
}

// View describes the area to render.
type View struct {
	Min        []float64 `toml:"min"`
	Max        []float64 `toml:"max"`
	Width      int       `toml:"width"`
	Height     int       `toml:"height"`
	Projection string    `toml:"projection"`
	Background string    `toml:"background"`
	AntiAlias  *bool     `toml:"antialias"`

	// Image is drawn below all layers, covering ImageMin to ImageMax.
	Image    string    `toml:"image"`
	ImageMin []float64 `toml:"image_min"`
	ImageMax []float64 `toml:"image_max"`

	ReduceSubpixel *bool `toml:"reduce_subpixel"`
}

// Layer describes one map layer.
type Layer struct {
	Name       string  `toml:"name"`
	Source     string  `toml:"source"`
	Data       string  `toml:"data"`
	Visible    *bool   `toml:"visible"`
	ShowTitles *bool   `toml:"show_titles"`
	MinScale   float64 `toml:"min_scale"`
	MaxScale   float64 `toml:"max_scale"`
	Renderer   string  `toml:"renderer"`

	KeyProperty      string `toml:"key_property"`
	TitleProperty    string `toml:"title_property"`
	SelectedProperty string `toml:"selected_property"`

	Point    *PointStyle    `toml:"point"`
	Polyline *PolylineStyle `toml:"polyline"`
	Polygon  *PolygonStyle  `toml:"polygon"`
	Title    *TitleStyle    `toml:"title"`
}

// LineStyle is the common part of polyline and annex styles.
type LineStyle struct {
	Color       string    `toml:"color"`
	Width       float64   `toml:"width"`
	Dash        string    `toml:"dash"`
	DashPattern []float64 `toml:"dash_pattern"`
	Cap         string    `toml:"cap"`
}

// PolylineStyle is the TOML form of [style.PolylineStyle].
type PolylineStyle struct {
	LineStyle
	Outline      string     `toml:"outline"`
	OutlineWidth float64    `toml:"outline_width"`
	Compound     []float64  `toml:"compound"`
	Annex        *AnnexLine `toml:"annex"`
}

// AnnexLine is the TOML form of [style.Annex].
type AnnexLine struct {
	LineStyle
	Offset float64 `toml:"offset"`
}

// PolygonStyle is the TOML form of [style.PolygonStyle].
type PolygonStyle struct {
	Fill    string `toml:"fill"`
	Back    string `toml:"back"`
	Hatch   string `toml:"hatch"`
	Pattern string `toml:"pattern"`
	Custom  string `toml:"custom"` // grayscale PNG file

	Border        string    `toml:"border"`
	BorderWidth   *float64  `toml:"border_width"`
	BorderDash    string    `toml:"border_dash"`
	BorderPattern []float64 `toml:"border_pattern"`
	BorderCap     string    `toml:"border_cap"`
	BorderVisible *bool     `toml:"border_visible"`
}

// PointStyle is the TOML form of [style.PointStyle].
type PointStyle struct {
	Symbol    string  `toml:"symbol"`
	Font      string  `toml:"font"`
	Bold      bool    `toml:"bold"`
	Italic    bool    `toml:"italic"`
	Size      float64 `toml:"size"`
	Color     string  `toml:"color"`
	Image     string  `toml:"image"`
	Alignment string  `toml:"alignment"`
}

// TitleStyle is the TOML form of [style.TitleStyle].
type TitleStyle struct {
	Visible     *bool   `toml:"visible"`
	Font        string  `toml:"font"`
	Size        float64 `toml:"size"`
	Bold        bool    `toml:"bold"`
	Italic      bool    `toml:"italic"`
	Color       string  `toml:"color"`
	Outline     string  `toml:"outline"`
	OutlineSize float64 `toml:"outline_size"`
	Priority    int     `toml:"priority"`
	MinScale    float64 `toml:"min_scale"`
	LeadAlong   bool    `toml:"lead_along"`
}

// Decode reads a map document.  Unknown keys are an error.
func Decode(r io.Reader) (*Document, error) {
	doc := &Document{}
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	return doc, nil
}

// Result is a loaded map together with the view of the document.
type Result struct {
	Map     *model.Map
	World   orb.Bound
	Width   int
	Height  int
	Options render.Options
}

// Load reads the map document name from fsys, together with the GeoJSON
// files and images it refers to.  Relative file names in the document
// are relative to the directory of the document.
func Load(fsys fs.FS, name string) (*Result, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return doc.Build(fsys, path.Dir(name))
}

// Build creates the map described by the document.  Files are read from
// fsys, relative to dir.
func (d *Document) Build(fsys fs.FS, dir string) (*Result, error) {
	m := model.New()
	res := &Result{
		Map:     m,
		Width:   d.View.Width,
		Height:  d.View.Height,
		Options: render.DefaultOptions(),
	}
	if res.Width <= 0 {
		res.Width = 800
	}
	if res.Height <= 0 {
		res.Height = 600
	}

	switch strings.ToLower(d.View.Projection) {
	case "", "none", "identity":
	case "webmercator", "mercator", "epsg:3857":
		m.Transform = transform.WebMercator{}
	default:
		return nil, fmt.Errorf("mapfile: unknown projection %q", d.View.Projection)
	}
	if d.View.ReduceSubpixel != nil {
		m.ReduceSubpixelDetail = *d.View.ReduceSubpixel
	}
	if d.View.Background != "" {
		col, err := style.ParseColor(d.View.Background)
		if err != nil {
			return nil, fmt.Errorf("mapfile: view background: %w", err)
		}
		res.Options.Background = col
	}
	if d.View.AntiAlias != nil {
		res.Options.AntiAlias = *d.View.AntiAlias
		res.Options.TextAntiAlias = *d.View.AntiAlias
	}

	if err := m.Begin(model.Loading); err != nil {
		return nil, err
	}
	layers, err := d.loadLayers(fsys, dir)
	var bg *model.Background
	if err == nil && d.View.Image != "" {
		bg, err = d.loadBackground(fsys, dir, m.Transform)
	}
	m.End()
	if err != nil {
		return nil, err
	}
	m.Background = bg
	for _, l := range layers {
		if err := m.AddLayer(l); err != nil {
			return nil, err
		}
	}

	world, err := d.world(m)
	if err != nil {
		return nil, err
	}
	res.World = world
	return res, nil
}

func (d *Document) loadLayers(fsys fs.FS, dir string) ([]*model.Layer, error) {
	var res []*model.Layer
	for i := range d.Layers {
		ld := &d.Layers[i]
		name := ld.Name
		if name == "" {
			name = "layer" + strconv.Itoa(i+1)
		}
		l, err := ld.build(fsys, dir, name)
		if err != nil {
			return nil, fmt.Errorf("mapfile: layer %q: %w", name, err)
		}
		res = append(res, l)
	}
	return res, nil
}

// loadBackground reads the background image.  Its corners are given in
// map coordinates, like the view.
func (d *Document) loadBackground(fsys fs.FS, dir string, t transform.Transform) (*model.Background, error) {
	img, err := readImage(fsys, dir, d.View.Image)
	if err != nil {
		return nil, fmt.Errorf("mapfile: background: %w", err)
	}
	b, err := bound(d.View.ImageMin, d.View.ImageMax)
	if err != nil {
		return nil, fmt.Errorf("mapfile: background: %w", err)
	}
	if t != nil {
		tb, ok := transform.Bound(t, b)
		if !ok {
			return nil, fmt.Errorf("mapfile: background: %w", transform.ErrOutOfDomain)
		}
		b = tb
	}
	return &model.Background{Image: img, Bound: b}, nil
}

// world returns the viewport in map coordinates.  If the document gives
// no view rectangle, the bound of all features is used.
func (d *Document) world(m *model.Map) (orb.Bound, error) {
	var b orb.Bound
	if len(d.View.Min) == 0 && len(d.View.Max) == 0 {
		mb, ok := m.Bound()
		if !ok {
			return orb.Bound{}, fmt.Errorf("mapfile: no view and no features")
		}
		b = mb
	} else {
		vb, err := bound(d.View.Min, d.View.Max)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("mapfile: view: %w", err)
		}
		b = vb
	}
	if m.Transform == nil {
		return b, nil
	}
	tb, ok := transform.Bound(m.Transform, b)
	if !ok {
		return orb.Bound{}, fmt.Errorf("mapfile: view %v: %w", b, transform.ErrOutOfDomain)
	}
	return tb, nil
}

func (ld *Layer) build(fsys fs.FS, dir, name string) (*model.Layer, error) {
	l := model.NewLayer(name)
	if ld.Visible != nil {
		l.Visible = *ld.Visible
	}
	if ld.ShowTitles != nil {
		l.ShowTitles = *ld.ShowTitles
	}
	if ld.Renderer != "" {
		l.Renderer = ld.Renderer
	}
	if err := l.SetScaleRange(ld.MinScale, ld.MaxScale); err != nil {
		return nil, err
	}

	var err error
	if ld.Point != nil {
		if l.PointStyle, err = ld.Point.style(fsys, dir); err != nil {
			return nil, err
		}
	}
	if ld.Polyline != nil {
		if l.PolylineStyle, err = ld.Polyline.style(); err != nil {
			return nil, err
		}
	}
	if ld.Polygon != nil {
		if l.PolygonStyle, err = ld.Polygon.style(fsys, dir); err != nil {
			return nil, err
		}
	}
	if ld.Title != nil {
		if l.TitleStyle, err = ld.Title.style(); err != nil {
			return nil, err
		}
	}

	var data []byte
	switch {
	case ld.Data != "":
		data = []byte(ld.Data)
	case ld.Source != "":
		data, err = fs.ReadFile(fsys, path.Join(dir, ld.Source))
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrNoData
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	features, err := ld.features(fc)
	if err != nil {
		return nil, err
	}
	if err := l.Add(features...); err != nil {
		return nil, err
	}
	return l, nil
}

// features converts GeoJSON features.  Multipolygons are split into one
// feature per polygon.  Unsupported geometries are skipped.
func (ld *Layer) features(fc *geojson.FeatureCollection) ([]*model.Feature, error) {
	log := maprender.Logger()
	var res []*model.Feature
	for i, gf := range fc.Features {
		key := ""
		if ld.KeyProperty != "" {
			key = propString(gf.Properties, ld.KeyProperty)
		}
		if key == "" && gf.ID != nil {
			key = fmt.Sprint(gf.ID)
		}
		if key == "" {
			key = strconv.Itoa(i)
		}

		var geoms []orb.Geometry
		switch g := gf.Geometry.(type) {
		case orb.MultiPolygon:
			for _, p := range g {
				geoms = append(geoms, p)
			}
		case orb.Point, orb.MultiPoint, orb.LineString, orb.MultiLineString, orb.Ring, orb.Polygon:
			geoms = append(geoms, g)
		default:
			log.Warn("mapfile: unsupported geometry skipped", "feature", key, "type", fmt.Sprintf("%T", g))
			continue
		}

		for j, g := range geoms {
			k := key
			if len(geoms) > 1 {
				k = key + "#" + strconv.Itoa(j)
			}
			f, err := model.NewFeature(k, g)
			if err != nil {
				return nil, err
			}
			if ld.TitleProperty != "" {
				f.Title = propString(gf.Properties, ld.TitleProperty)
			}
			if ld.SelectedProperty != "" {
				f.Selected, _ = gf.Properties[ld.SelectedProperty].(bool)
			}
			res = append(res, f)
		}
	}
	return res, nil
}

func propString(p geojson.Properties, key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (ls *LineStyle) apply(dst *style.LineStyle) error {
	var err error
	if ls.Color != "" {
		if dst.Color, err = style.ParseColor(ls.Color); err != nil {
			return err
		}
	}
	if ls.Width > 0 {
		dst.Width = ls.Width
	}
	if dst.Dash, err = style.ParseDashStyle(ls.Dash); err != nil {
		return err
	}
	dst.DashPattern = ls.DashPattern
	if ls.Cap != "" {
		if dst.DashCap, err = style.ParseLineCap(ls.Cap); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PolylineStyle) style() (*style.PolylineStyle, error) {
	st := style.NewPolylineStyle()
	if err := ps.LineStyle.apply(&st.LineStyle); err != nil {
		return nil, err
	}
	if ps.Outline != "" {
		col, err := style.ParseColor(ps.Outline)
		if err != nil {
			return nil, err
		}
		st.Outline = true
		st.OutlineColor = col
	}
	if ps.OutlineWidth > 0 {
		st.OutlineWidth = ps.OutlineWidth
	}
	if ps.Compound != nil {
		if err := st.SetCompound(ps.Compound); err != nil {
			return nil, err
		}
	}
	if a := ps.Annex; a != nil {
		annex := &style.Annex{LineStyle: st.LineStyle, Offset: a.Offset}
		annex.DashPattern = nil
		if err := a.LineStyle.apply(&annex.LineStyle); err != nil {
			return nil, err
		}
		st.Annex = annex
	}
	return st, nil
}

func (ps *PolygonStyle) style(fsys fs.FS, dir string) (*style.PolygonStyle, error) {
	st := style.NewPolygonStyle()
	fore, back := st.ForeColor(), st.BackColor()
	var err error
	if ps.Fill != "" {
		if fore, err = style.ParseColor(ps.Fill); err != nil {
			return nil, err
		}
	}
	if ps.Back != "" {
		if back, err = style.ParseColor(ps.Back); err != nil {
			return nil, err
		}
	}
	switch {
	case ps.Custom != "":
		img, err := readImage(fsys, dir, ps.Custom)
		if err != nil {
			return nil, err
		}
		if err := st.SetCustomPattern(img, fore, back); err != nil {
			return nil, err
		}
	case ps.Pattern != "":
		p, err := style.ParseFillPattern(ps.Pattern)
		if err != nil {
			return nil, err
		}
		st.SetPattern(p, fore, back)
	case ps.Hatch != "":
		h, err := style.ParseHatchStyle(ps.Hatch)
		if err != nil {
			return nil, err
		}
		st.SetHatch(h, fore, back)
	default:
		st.SetSolid(fore)
	}

	if ps.Border != "" {
		if st.BorderColor, err = style.ParseColor(ps.Border); err != nil {
			return nil, err
		}
	}
	if ps.BorderWidth != nil {
		st.BorderWidth = *ps.BorderWidth
	}
	if st.BorderDash, err = style.ParseDashStyle(ps.BorderDash); err != nil {
		return nil, err
	}
	st.BorderPattern = ps.BorderPattern
	if ps.BorderCap != "" {
		if st.BorderCap, err = style.ParseLineCap(ps.BorderCap); err != nil {
			return nil, err
		}
	}
	if ps.BorderVisible != nil {
		st.BorderVisible = *ps.BorderVisible
	}
	return st, nil
}

func (ps *PointStyle) style(fsys fs.FS, dir string) (*style.PointStyle, error) {
	st := style.NewPointStyle()
	if ps.Symbol != "" {
		r := []rune(ps.Symbol)
		if len(r) != 1 {
			return nil, fmt.Errorf("point symbol %q is not a single character", ps.Symbol)
		}
		st.Symbol = r[0]
	}
	if ps.Font != "" {
		st.FontFamily = ps.Font
	}
	st.FontStyle = fontStyle(ps.Bold, ps.Italic)
	if ps.Size > 0 {
		st.Size = ps.Size
	}
	var err error
	if ps.Color != "" {
		if st.Color, err = style.ParseColor(ps.Color); err != nil {
			return nil, err
		}
	}
	if ps.Image != "" {
		if st.Image, err = readImage(fsys, dir, ps.Image); err != nil {
			return nil, err
		}
		st.Display = style.DisplayImage
	}
	if st.Alignment, err = style.ParseAlignment(ps.Alignment); err != nil {
		return nil, err
	}
	if _, err := st.Face(); err != nil {
		return nil, err
	}
	return st, nil
}

func (ts *TitleStyle) style() (*style.TitleStyle, error) {
	st := style.NewTitleStyle()
	if ts.Visible != nil {
		st.Visible = *ts.Visible
	}
	if ts.Font != "" {
		st.FontFamily = ts.Font
	}
	if ts.Size > 0 {
		st.FontSize = ts.Size
	}
	st.FontStyle = fontStyle(ts.Bold, ts.Italic)
	var err error
	if ts.Color != "" {
		if st.Color, err = style.ParseColor(ts.Color); err != nil {
			return nil, err
		}
	}
	if ts.Outline != "" {
		if st.OutlineColor, err = style.ParseColor(ts.Outline); err != nil {
			return nil, err
		}
		st.Outline = true
	}
	if ts.OutlineSize > 0 {
		st.OutlineSize = ts.OutlineSize
	}
	st.RenderPriority = ts.Priority
	st.MinVisibleScale = ts.MinScale
	st.LeadAlong = ts.LeadAlong
	if _, err := st.Face(); err != nil {
		return nil, err
	}
	return st, nil
}

func fontStyle(bold, italic bool) text.Style {
	var s text.Style
	if bold {
		s |= text.Bold
	}
	if italic {
		s |= text.Italic
	}
	return s
}

func readImage(fsys fs.FS, dir, name string) (image.Image, error) {
	f, err := fsys.Open(path.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

func bound(lo, hi []float64) (orb.Bound, error) {
	if len(lo) != 2 || len(hi) != 2 {
		return orb.Bound{}, fmt.Errorf("min and max need two coordinates each")
	}
	if lo[0] >= hi[0] || lo[1] >= hi[1] {
		return orb.Bound{}, fmt.Errorf("empty rectangle %v-%v", lo, hi)
	}
	return orb.Bound{Min: orb.Point{lo[0], lo[1]}, Max: orb.Point{hi[0], hi[1]}}, nil
}
