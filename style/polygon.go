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
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender/canvas"
)

// FillKind selects how the interior of a polygon is painted.
type FillKind int

// These are the supported fill kinds.
const (
	FillSolid FillKind = iota
	FillHatch
	FillPatterned
	FillCustom
)

// MaxPatternSize is the largest width and height of a custom fill
// pattern.
const MaxPatternSize = 32

// PolygonStyle describes the border and the fill of polygon features.
//
// The tile used for patterned fills is recomputed whenever one of the
// fill setters is called.
type PolygonStyle struct {
	BorderColor   color.NRGBA
	BorderWidth   float64
	BorderVisible bool
	BorderDash    DashStyle
	BorderPattern []float64 // used with DashCustom
	BorderCap     graphics.LineCapStyle

	patterns *Patterns
	kind     FillKind
	fore     color.NRGBA
	back     color.NRGBA
	hatch    HatchStyle
	pattern  FillPattern
	custom   *image.Gray
	tile     *image.NRGBA
}

// NewPolygonStyle returns a style with a thin black border and a light
// grey solid fill, using the default pattern registry.
func NewPolygonStyle() *PolygonStyle {
	return NewPolygonStyleWith(DefaultPatterns)
}

// NewPolygonStyleWith is like [NewPolygonStyle] but takes the hatch and
// fill patterns from the given registry.
func NewPolygonStyleWith(patterns *Patterns) *PolygonStyle {
	return &PolygonStyle{
		BorderColor:   color.NRGBA{A: 255},
		BorderWidth:   1,
		BorderVisible: true,
		BorderCap:     graphics.LineCapRound,
		patterns:      patterns,
		kind:          FillSolid,
		fore:          color.NRGBA{R: 211, G: 211, B: 211, A: 255},
		back:          color.NRGBA{R: 255, G: 255, B: 255, A: 0},
	}
}

// Clone returns an independent copy of s.
func (s *PolygonStyle) Clone() *PolygonStyle {
	c := *s
	c.BorderPattern = append([]float64(nil), s.BorderPattern...)
	return &c
}

// FillKind returns the current fill kind.
func (s *PolygonStyle) FillKind() FillKind { return s.kind }

// ForeColor returns the fill colour, or the foreground colour of a
// patterned fill.
func (s *PolygonStyle) ForeColor() color.NRGBA { return s.fore }

// BackColor returns the background colour of a patterned fill.
func (s *PolygonStyle) BackColor() color.NRGBA { return s.back }

// Hatch returns the hatch style used with FillHatch.
func (s *PolygonStyle) Hatch() HatchStyle { return s.hatch }

// Pattern returns the fill pattern used with FillPattern.
func (s *PolygonStyle) Pattern() FillPattern { return s.pattern }

// SetSolid selects a solid fill.
func (s *PolygonStyle) SetSolid(c color.NRGBA) {
	s.kind = FillSolid
	s.fore = c
	s.update()
}

// SetHatch selects a hatched fill.
func (s *PolygonStyle) SetHatch(h HatchStyle, fore, back color.NRGBA) {
	s.kind = FillHatch
	s.hatch = h
	s.fore = fore
	s.back = back
	s.update()
}

// SetPattern selects one of the built-in fill patterns.
func (s *PolygonStyle) SetPattern(p FillPattern, fore, back color.NRGBA) {
	s.kind = FillPatterned
	s.pattern = p
	s.fore = fore
	s.back = back
	s.update()
}

// SetCustomPattern selects a fill using the grayscale image img as the
// mask between fore (white) and back (black).  The image must be at most
// [MaxPatternSize] pixels in each direction, and all pixels must have
// equal red, green and blue components.
func (s *PolygonStyle) SetCustomPattern(img image.Image, fore, back color.NRGBA) error {
	mask, err := grayMask(img)
	if err != nil {
		return err
	}
	s.kind = FillCustom
	s.custom = mask
	s.fore = fore
	s.back = back
	s.update()
	return nil
}

// SetForeColor changes the fill colour.
func (s *PolygonStyle) SetForeColor(c color.NRGBA) {
	s.fore = c
	s.update()
}

// SetBackColor changes the background colour of patterned fills.
func (s *PolygonStyle) SetBackColor(c color.NRGBA) {
	s.back = c
	s.update()
}

// SetHatchStyle changes the hatch style, keeping the colours.
func (s *PolygonStyle) SetHatchStyle(h HatchStyle) {
	s.kind = FillHatch
	s.hatch = h
	s.update()
}

// update recomputes the fill tile.
func (s *PolygonStyle) update() {
	s.tile = nil
	var mask *image.Gray
	switch s.kind {
	case FillHatch:
		mask = s.registry().Hatch(s.hatch)
	case FillPatterned:
		mask = s.registry().Fill(s.pattern)
	case FillCustom:
		mask = s.custom
	}
	if mask != nil {
		s.tile = tint(mask, s.fore, s.back)
	}
}

func (s *PolygonStyle) registry() *Patterns {
	if s.patterns == nil {
		return DefaultPatterns
	}
	return s.patterns
}

// Tile returns the fill tile, or nil for a solid fill.
func (s *PolygonStyle) Tile() *image.NRGBA {
	return s.tile
}

// Paint returns the paint for the polygon interior.  Patterned fills
// place the corner of a tile at origin.  If no tile is available, the
// fill is solid.
func (s *PolygonStyle) Paint(origin image.Point) canvas.Paint {
	if s.tile == nil {
		return canvas.Solid(s.fore)
	}
	return &canvas.Pattern{Tile: s.tile, Origin: origin}
}

// BorderPen returns the pen for the polygon border.
func (s *PolygonStyle) BorderPen() *canvas.Pen {
	return penFor(s.BorderWidth, s.BorderDash, s.BorderPattern, s.BorderCap, graphics.LineJoinRound)
}

// grayMask checks that img is a valid custom fill pattern and converts
// it to a grayscale mask.
func grayMask(img image.Image) (*image.Gray, error) {
	b := img.Bounds()
	if b.Empty() || b.Dx() > MaxPatternSize || b.Dy() > MaxPatternSize {
		return nil, fmt.Errorf("%w: %dx%d, maximum is %dx%d",
			ErrPatternSize, b.Dx(), b.Dy(), MaxPatternSize, MaxPatternSize)
	}
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return nil, fmt.Errorf("%w: pixel (%d,%d) is %v", ErrPatternFormat, x, y, c)
			}
			mask.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: c.R})
		}
	}
	return mask, nil
}
