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


package mapfile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/paulmach/orb"

	"seehuhn.de/go/maprender/model"
	"seehuhn.de/go/maprender/render"
	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/transform"
)

const roads = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "a1",
     "properties": {"name": "High Street", "selected": true},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 10]]}},
    {"type": "Feature",
     "properties": {"name": 7, "ref": "B2"},
     "geometry": {"type": "LineString", "coordinates": [[0, 10], [10, 0]]}}
  ]
}`

const islands = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 3,
     "properties": {},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[0, 0], [1, 0], [1, 1], [0, 0]]],
       [[[5, 5], [6, 5], [6, 6], [5, 5]]]
     ]}},
    {"type": "Feature",
     "properties": {},
     "geometry": {"type": "GeometryCollection", "geometries": []}}
  ]
}`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(255 * (i % 2))
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"maps/city.toml": {Data: []byte(`
[view]
min = [0, 0]
max = [20, 10]
width = 400
height = 200
background = "#eeeeee"
reduce_subpixel = false

[[layer]]
name = "roads"
source = "roads.geojson"
title_property = "name"
selected_property = "selected"
min_scale = 1

[layer.polyline]
color = "#ff0000"
width = 3
dash = "dash"
outline = "#000000"
outline_width = 1

[layer.polyline.annex]
color = "#0000ff"
width = 1
offset = 4

[layer.title]
size = 10
priority = 5
lead_along = true
outline = "#ffffff"
`)},
		"maps/roads.geojson": {Data: []byte(roads)},
	}

	res, err := Load(fsys, "maps/city.toml")
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 400 || res.Height != 200 {
		t.Errorf("size = %dx%d", res.Width, res.Height)
	}
	wantWorld := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}
	if res.World != wantWorld {
		t.Errorf("world = %v, want %v", res.World, wantWorld)
	}
	if res.Options.Background != (color.NRGBA{0xee, 0xee, 0xee, 0xff}) {
		t.Errorf("background = %v", res.Options.Background)
	}
	m := res.Map
	if m.ReduceSubpixelDetail {
		t.Error("reduce_subpixel ignored")
	}
	if m.State() != model.Idle {
		t.Errorf("state = %s", m.State())
	}

	l := m.Layer("roads")
	if l == nil {
		t.Fatal("layer missing")
	}
	if lo, _ := l.ScaleRange(); lo != 1 {
		t.Errorf("min scale = %g", lo)
	}
	if l.Len() != 2 {
		t.Fatalf("%d features", l.Len())
	}
	a := l.Feature("a1")
	if a == nil || a.Title != "High Street" || !a.Selected {
		t.Errorf("feature a1 = %+v", a)
	}
	b := l.Feature("1")
	if b == nil || b.Title != "7" || b.Selected {
		t.Errorf("feature 1 = %+v", b)
	}
	if a.Kind() != model.KindPolyline {
		t.Errorf("kind = %s", a.Kind())
	}

	st := l.PolylineStyle
	if st.Width != 3 || st.Dash != style.DashDash || !st.Outline || st.OutlineWidth != 1 {
		t.Errorf("polyline style = %+v", st)
	}
	if st.Annex == nil || st.Annex.Offset != 4 || st.Annex.Width != 1 || st.Annex.Color.B != 255 {
		t.Errorf("annex = %+v", st.Annex)
	}
	if st.Annex != nil && st.Annex.Dash != style.DashSolid {
		t.Errorf("annex dash = %s", st.Annex.Dash)
	}
	ts := l.TitleStyle
	if ts.FontSize != 10 || ts.RenderPriority != 5 || !ts.LeadAlong || !ts.Outline {
		t.Errorf("title style = %+v", ts)
	}
}

func TestInlineData(t *testing.T) {
	doc := `
[[layer]]
name = "islands"
data = '''` + islands + `'''

[layer.polygon]
fill = "#80c080"
hatch = "cross"
border_visible = false
`
	d, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	res, err := d.Build(fstest.MapFS{}, ".")
	if err != nil {
		t.Fatal(err)
	}
	l := res.Map.Layer("islands")
	if l.Len() != 2 {
		t.Fatalf("%d features, want 2", l.Len())
	}
	for _, key := range []string{"3#0", "3#1"} {
		f := l.Feature(key)
		if f == nil {
			t.Errorf("feature %q missing", key)
			continue
		}
		if f.Kind() != model.KindPolygon {
			t.Errorf("%s: kind %s", key, f.Kind())
		}
	}
	st := l.PolygonStyle
	if st.FillKind() != style.FillHatch || st.BorderVisible {
		t.Errorf("polygon style = %+v", st)
	}

	// no view given: the feature bound is used
	want := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{6, 6}}
	if res.World != want {
		t.Errorf("world = %v, want %v", res.World, want)
	}
	if res.Width != 800 || res.Height != 600 {
		t.Errorf("size = %dx%d", res.Width, res.Height)
	}
}

func TestProjection(t *testing.T) {
	doc := `
[view]
min = [-10, -10]
max = [10, 10]
projection = "webmercator"

[[layer]]
data = '{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [0, 0]}}]}'

[layer.point]
symbol = "x"
alignment = "bottom-center"
`
	d, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	res, err := d.Build(fstest.MapFS{}, ".")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Map.Transform.(transform.WebMercator); !ok {
		t.Errorf("transform = %T", res.Map.Transform)
	}
	if math.Abs(res.World.Min.X()+1113194.9) > 1 || math.Abs(res.World.Max.X()-1113194.9) > 1 {
		t.Errorf("world = %v", res.World)
	}
	l := res.Map.Layer("layer1")
	if l == nil {
		t.Fatal("default layer name not used")
	}
	if l.PointStyle.Symbol != 'x' || l.PointStyle.Alignment != style.BottomCenter {
		t.Errorf("point style = %+v", l.PointStyle)
	}

	img, _, err := render.New(res.Options).Render(res.Map, res.World, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 50 {
		t.Errorf("image size %v", img.Bounds())
	}
}

func TestImages(t *testing.T) {
	fsys := fstest.MapFS{
		"doc.toml": {Data: []byte(`
[view]
min = [0, 0]
max = [10, 10]
image = "bg.png"
image_min = [0, 0]
image_max = [10, 10]

[[layer]]
name = "poi"
data = '{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [5, 5]}}]}'

[layer.point]
image = "icon.png"

[layer.polygon]
custom = "tile.png"
fill = "#000000"
`)},
		"bg.png":   {Data: pngBytes(t, 4, 4)},
		"icon.png": {Data: pngBytes(t, 6, 6)},
		"tile.png": {Data: pngBytes(t, 8, 8)},
	}
	res, err := Load(fsys, "doc.toml")
	if err != nil {
		t.Fatal(err)
	}
	bg := res.Map.Background
	if bg == nil || bg.Image.Bounds().Dx() != 4 || bg.Bound.Max != (orb.Point{10, 10}) {
		t.Errorf("background = %+v", bg)
	}
	l := res.Map.Layer("poi")
	if l.PointStyle.Display != style.DisplayImage || l.PointStyle.Image == nil {
		t.Errorf("point style = %+v", l.PointStyle)
	}
	if l.PolygonStyle.FillKind() != style.FillCustom {
		t.Errorf("fill kind = %v", l.PolygonStyle.FillKind())
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown key", "[view]\nzoom = 3\n"},
		{"unknown projection", "[view]\nprojection = \"lambert\"\n[[layer]]\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n"},
		{"bad colour", "[[layer]]\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n[layer.polyline]\ncolor = \"red\"\n"},
		{"bad hatch", "[[layer]]\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n[layer.polygon]\nhatch = \"plaid\"\n"},
		{"long symbol", "[[layer]]\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n[layer.point]\nsymbol = \"ab\"\n"},
		{"scale range", "[[layer]]\nmin_scale = 2\nmax_scale = 1\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n"},
		{"empty view", "[view]\nmin = [1, 0]\nmax = [0, 1]\n[[layer]]\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n"},
		{"no features", "[[layer]]\ndata='{\"type\":\"FeatureCollection\",\"features\":[]}'\n"},
		{"missing file", "[[layer]]\nsource = \"nowhere.geojson\"\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fsys := fstest.MapFS{"doc.toml": {Data: []byte(c.doc)}}
			if _, err := Load(fsys, "doc.toml"); err == nil {
				t.Error("no error")
			}
		})
	}

	fsys := fstest.MapFS{"doc.toml": {Data: []byte("[[layer]]\nname = \"x\"\n")}}
	if _, err := Load(fsys, "doc.toml"); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}
