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

package style

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender/canvas"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func grayImage(n int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := range n {
		for x := range n {
			v := uint8((x + y) * 255 / (2 * n))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestCustomPatternValidation(t *testing.T) {
	colored := grayImage(8)
	colored.SetNRGBA(3, 4, color.NRGBA{R: 10, G: 20, B: 10, A: 255})

	for _, tc := range []struct {
		name string
		img  image.Image
		want error
	}{
		{"gray1", grayImage(1), nil},
		{"gray8", grayImage(8), nil},
		{"gray32", grayImage(32), nil},
		{"gray33", grayImage(33), ErrPatternSize},
		{"wide", image.NewGray(image.Rect(0, 0, 40, 4)), ErrPatternSize},
		{"empty", image.NewGray(image.Rect(0, 0, 0, 0)), ErrPatternSize},
		{"colored", colored, ErrPatternFormat},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := NewPolygonStyle()
			err := s.SetCustomPattern(tc.img, red, white)
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("got error %v, want %v", err, tc.want)
			}
			if err != nil {
				if s.FillKind() != FillSolid {
					t.Error("failed validation changed the fill")
				}
				return
			}
			if s.FillKind() != FillCustom || s.Tile() == nil {
				t.Error("custom pattern not installed")
			}
		})
	}
}

func TestFillFallback(t *testing.T) {
	s := NewPolygonStyle()
	s.SetSolid(red)
	if p, ok := s.Paint(image.Point{}).(canvas.Solid); !ok || color.NRGBA(p) != red {
		t.Errorf("solid fill gave paint %#v", s.Paint(image.Point{}))
	}

	s.SetHatch(HatchStyle(99), red, white)
	if _, ok := s.Paint(image.Point{}).(canvas.Solid); !ok {
		t.Error("invalid hatch style did not fall back to a solid paint")
	}
}

func TestHatchRegenerates(t *testing.T) {
	s := NewPolygonStyle()
	s.SetHatch(HatchHorizontal, red, white)
	tile := s.Tile()
	if tile == nil || tile.Bounds().Dx() != 8 {
		t.Fatal("no 8×8 hatch tile")
	}
	if got := tile.NRGBAAt(3, 0); got != red {
		t.Errorf("hatch line: got %v, want %v", got, red)
	}
	if got := tile.NRGBAAt(3, 1); got != white {
		t.Errorf("background: got %v, want %v", got, white)
	}

	s.SetForeColor(blue)
	if got := s.Tile().NRGBAAt(3, 0); got != blue {
		t.Errorf("after SetForeColor: got %v, want %v", got, blue)
	}
	if got := tile.NRGBAAt(3, 0); got != red {
		t.Error("old tile was modified in place")
	}

	s.SetHatchStyle(HatchVertical)
	if got := s.Tile().NRGBAAt(0, 5); got != blue {
		t.Errorf("after SetHatchStyle: got %v, want %v", got, blue)
	}

	p := s.Paint(image.Pt(3, 1)).(*canvas.Pattern)
	if got := p.At(3, 4); got != blue {
		t.Errorf("pattern origin not honoured: got %v", got)
	}
}

func TestStylesIndependent(t *testing.T) {
	a := NewPolygonStyle()
	b := NewPolygonStyle()
	a.SetHatch(HatchCross, red, white)
	b.SetHatch(HatchCross, blue, white)
	if a.Tile().NRGBAAt(0, 0) != red || b.Tile().NRGBAAt(0, 0) != blue {
		t.Error("styles share derived tiles")
	}
}

func TestBuiltinPatterns(t *testing.T) {
	p := NewPatterns()
	for f := range numPattern {
		img := p.Fill(f)
		if img == nil || img.Bounds().Dx() != 16 {
			t.Errorf("%s: bad mask", f)
		}
		var sum int
		for _, v := range img.Pix {
			sum += int(v)
		}
		if sum == 0 || sum == 255*len(img.Pix) {
			t.Errorf("%s: mask is uniform", f)
		}
	}
	if p.Fill(numPattern) != nil || p.Hatch(-1) != nil {
		t.Error("out of range lookups should return nil")
	}
}

func TestAlignmentOffset(t *testing.T) {
	for _, tc := range []struct {
		a      Alignment
		dx, dy float64
	}{
		{TopLeft, 0, 0},
		{MiddleCenter, -5, -3},
		{BottomRight, -10, -6},
		{TopRight, -10, 0},
		{BottomLeft, 0, -6},
	} {
		dx, dy, err := tc.a.Offset(10, 6)
		if err != nil || dx != tc.dx || dy != tc.dy {
			t.Errorf("%s: got (%g, %g, %v), want (%g, %g)", tc.a, dx, dy, err, tc.dx, tc.dy)
		}
	}
	if _, _, err := Alignment(9).Offset(1, 1); !errors.Is(err, ErrUnsupportedAlignment) {
		t.Errorf("got %v, want ErrUnsupportedAlignment", err)
	}
	if _, err := ParseAlignment("diagonal"); !errors.Is(err, ErrUnsupportedAlignment) {
		t.Errorf("got %v, want ErrUnsupportedAlignment", err)
	}
	if a, err := ParseAlignment("Bottom-Center"); err != nil || a != BottomCenter {
		t.Errorf("ParseAlignment: got %v, %v", a, err)
	}
}

func TestDashFallback(t *testing.T) {
	l := &LineStyle{Width: 2, Dash: DashCustom, DashCap: graphics.LineCapButt}
	if pen := l.Pen(); pen.Dash != nil {
		t.Errorf("missing custom pattern should give a solid pen, got %v", pen.Dash)
	}
	l.DashPattern = []float64{0, 0}
	if pen := l.Pen(); pen.Dash != nil {
		t.Errorf("zero custom pattern should give a solid pen, got %v", pen.Dash)
	}
	l.DashPattern = []float64{2, 1}
	if pen := l.Pen(); len(pen.Dash) != 2 || pen.Dash[0] != 4 || pen.Dash[1] != 2 {
		t.Errorf("custom pattern not scaled: %v", pen.Dash)
	}
	l.Dash = DashDot
	if pen := l.Pen(); len(pen.Dash) != 2 || pen.Dash[0] != 2 {
		t.Errorf("dot pattern: %v", pen.Dash)
	}
}

func TestCompound(t *testing.T) {
	s := NewPolylineStyle()
	s.Width = 10
	if st := s.Stripes(); len(st) != 1 || st[0].Width != 10 || st[0].Offset != 0 {
		t.Errorf("simple line stripes: %v", st)
	}

	if err := s.SetCompound([]float64{0, 0.2, 0.8, 1}); err != nil {
		t.Fatal(err)
	}
	st := s.Stripes()
	if len(st) != 2 {
		t.Fatalf("got %d stripes", len(st))
	}
	if st[0].Offset != 4 || st[1].Offset != -4 || st[0].Width != 2 {
		t.Errorf("unexpected stripes %v", st)
	}

	for _, bad := range [][]float64{{0.5}, {0.5, 0.2}, {0, 1.5}} {
		if err := s.SetCompound(bad); !errors.Is(err, ErrInvalidCompound) {
			t.Errorf("%v: got %v, want ErrInvalidCompound", bad, err)
		}
	}
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff0000", red},
		{"#00f", blue},
		{"#ffffff80", color.NRGBA{R: 255, G: 255, B: 255, A: 128}},
	} {
		got, err := ParseColor(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("%s: got %v, %v", tc.in, got, err)
		}
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("expected an error for a colour name")
	}
}

func TestPointExtent(t *testing.T) {
	s := NewPointStyle()
	w, h, err := s.Extent()
	if err != nil || w <= 0 || h <= 0 {
		t.Errorf("symbol extent: %g %g %v", w, h, err)
	}

	s.Display = DisplayImage
	s.Image = image.NewNRGBA(image.Rect(0, 0, 7, 5))
	if w, h, _ := s.Extent(); w != 7 || h != 5 {
		t.Errorf("image extent: %g %g", w, h)
	}
}

func TestHighlight(t *testing.T) {
	tile := DefaultPatterns.Highlight(red)
	if tile.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Fatalf("bad tile size %v", tile.Bounds())
	}
	if a, b := tile.NRGBAAt(0, 0).A, tile.NRGBAAt(1, 0).A; a == b {
		t.Error("highlight tile has no texture")
	}
}
