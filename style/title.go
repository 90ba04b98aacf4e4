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
	"image/color"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/text"
)

// TitleStyle describes how feature titles are drawn and placed.
type TitleStyle struct {
	Visible bool

	FontFamily string
	FontSize   float64 // in pixels
	FontStyle  text.Style
	Color      color.NRGBA

	// Outline draws a halo of OutlineColor around the glyphs, extending
	// OutlineSize pixels outwards.
	Outline      bool
	OutlineColor color.NRGBA
	OutlineSize  float64

	// RenderPriority decides which title is kept if two titles overlap.
	// Higher values win.
	RenderPriority int

	// MinVisibleScale is the smallest scale factor, in pixels per world
	// unit, at which the title is shown.
	MinVisibleScale float64

	// LeadAlong places titles of polylines along the line, and gives
	// every point of a multipoint its own title.
	LeadAlong bool
}

// NewTitleStyle returns a visible 12 pixel black title style.
func NewTitleStyle() *TitleStyle {
	return &TitleStyle{
		Visible:      true,
		FontFamily:   text.DefaultFamily,
		FontSize:     12,
		Color:        color.NRGBA{A: 255},
		OutlineColor: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		OutlineSize:  2,
	}
}

// Clone returns a copy of s.
func (s *TitleStyle) Clone() *TitleStyle {
	c := *s
	return &c
}

// Face returns the font face of the title.
func (s *TitleStyle) Face() (*text.Face, error) {
	return text.Lookup(s.FontFamily, s.FontStyle, s.FontSize)
}

// Paint returns the paint for the glyphs.
func (s *TitleStyle) Paint() canvas.Paint {
	return canvas.Solid(s.Color)
}

// HaloPen returns the pen used to stroke the glyph outlines for the
// halo.
func (s *TitleStyle) HaloPen() *canvas.Pen {
	pen := canvas.NewPen(2 * s.OutlineSize)
	pen.Join = graphics.LineJoinRound
	pen.Cap = graphics.LineCapRound
	return pen
}

// VisibleAt reports whether the title should be shown at the given
// scale factor.
func (s *TitleStyle) VisibleAt(scale float64) bool {
	return s.Visible && scale >= s.MinVisibleScale
}
