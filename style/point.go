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
	"strings"

	"seehuhn.de/go/maprender/text"
)

// Alignment selects which point of a symbol is placed on the feature
// location.
type Alignment int

// These are the nine anchor positions.
const (
	TopLeft Alignment = iota
	TopCenter
	TopRight
	MiddleLeft
	MiddleCenter
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

var alignmentNames = []string{
	"top-left", "top-center", "top-right",
	"middle-left", "middle-center", "middle-right",
	"bottom-left", "bottom-center", "bottom-right",
}

func (a Alignment) String() string {
	if a >= 0 && int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment converts an alignment name like "bottom-center" to an
// Alignment.
func ParseAlignment(s string) (Alignment, error) {
	s = strings.ToLower(s)
	if s == "" || s == "center" {
		return MiddleCenter, nil
	}
	for i, name := range alignmentNames {
		if name == s {
			return Alignment(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlignment, s)
}

// Offset returns the position of the top-left corner of a box of size
// w×h, relative to the anchor point.
func (a Alignment) Offset(w, h float64) (dx, dy float64, err error) {
	if a < TopLeft || a > BottomRight {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedAlignment, int(a))
	}
	col, row := int(a)%3, int(a)/3
	return -w * float64(col) / 2, -h * float64(row) / 2, nil
}

// PointDisplay selects how point features are shown.
type PointDisplay int

// These are the point display modes.
const (
	DisplaySymbol PointDisplay = iota
	DisplayImage
)

// PointStyle describes the marker used for point and multipoint
// features: either a character glyph or a bitmap image.
type PointStyle struct {
	Display PointDisplay

	Symbol     rune
	FontFamily string
	FontStyle  text.Style
	Size       float64 // font size in pixels
	Color      color.NRGBA

	Image image.Image

	Alignment Alignment
}

// NewPointStyle returns a style drawing a black bullet centred on the
// point.
func NewPointStyle() *PointStyle {
	return &PointStyle{
		Display:    DisplaySymbol,
		Symbol:     '●',
		FontFamily: text.DefaultFamily,
		Size:       12,
		Color:      color.NRGBA{A: 255},
		Alignment:  MiddleCenter,
	}
}

// Clone returns a copy of s.  The image is shared.
func (s *PointStyle) Clone() *PointStyle {
	c := *s
	return &c
}

// Face returns the font face used to draw the symbol.
func (s *PointStyle) Face() (*text.Face, error) {
	return text.Lookup(s.FontFamily, s.FontStyle, s.Size)
}

// Extent returns the size of the marker in pixels.
func (s *PointStyle) Extent() (w, h float64, err error) {
	if s.Display == DisplayImage {
		if s.Image == nil {
			return 0, 0, nil
		}
		b := s.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy()), nil
	}
	face, err := s.Face()
	if err != nil {
		return 0, 0, err
	}
	w, h = face.Measure(string(s.Symbol))
	return w, h, nil
}
