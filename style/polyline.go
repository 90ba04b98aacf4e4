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
	"image/color"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender/canvas"
)

// LineStyle is the stroke of one line: colour, width and dashes.
type LineStyle struct {
	Color       color.NRGBA
	Width       float64
	Dash        DashStyle
	DashPattern []float64 // in multiples of Width, used with DashCustom
	DashCap     graphics.LineCapStyle
}

// Pen returns the pen for this line.
func (l *LineStyle) Pen() *canvas.Pen {
	return penFor(l.Width, l.Dash, l.DashPattern, l.DashCap, graphics.LineJoinRound)
}

// Annex is a line drawn parallel to a polyline.
type Annex struct {
	LineStyle

	// Offset is the distance between the polyline and the annex line in
	// pixels.  Positive values place the annex to the left of the
	// direction of travel.
	Offset float64
}

// Stripe is one of the parallel lines of a compound line.
type Stripe struct {
	Offset float64 // distance from the centre line, left positive
	Width  float64
}

// PolylineStyle describes how polyline features are stroked.
type PolylineStyle struct {
	LineStyle

	// Outline draws a wider line of OutlineColor underneath the main
	// line, extending OutlineWidth pixels on both sides.
	Outline      bool
	OutlineColor color.NRGBA
	OutlineWidth float64

	// Annex, if not nil, is drawn in addition to the main line.
	Annex *Annex

	compound []float64
}

// NewPolylineStyle returns a solid black line of width 1 with round
// caps.
func NewPolylineStyle() *PolylineStyle {
	return &PolylineStyle{
		LineStyle: LineStyle{
			Color:   color.NRGBA{A: 255},
			Width:   1,
			DashCap: graphics.LineCapRound,
		},
		OutlineColor: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		OutlineWidth: 1,
	}
}

// Clone returns an independent copy of s.
func (s *PolylineStyle) Clone() *PolylineStyle {
	c := *s
	c.DashPattern = append([]float64(nil), s.DashPattern...)
	c.compound = append([]float64(nil), s.compound...)
	if s.Annex != nil {
		a := *s.Annex
		a.DashPattern = append([]float64(nil), s.Annex.DashPattern...)
		c.Annex = &a
	}
	return &c
}

// SetCompound makes the line a compound line.  The array holds pairs of
// positions across the line width, from 0 (left edge) to 1 (right
// edge); each pair gives the start and end of one stripe.  Positions
// must be increasing.  A nil array turns a compound line back into a
// simple line.
func (s *PolylineStyle) SetCompound(positions []float64) error {
	if len(positions)%2 != 0 {
		return fmt.Errorf("%w: odd number of positions", ErrInvalidCompound)
	}
	prev := 0.0
	for i, v := range positions {
		if v < prev || v > 1 {
			return fmt.Errorf("%w: position %d out of order", ErrInvalidCompound, i)
		}
		prev = v
	}
	s.compound = append(s.compound[:0], positions...)
	return nil
}

// Compound returns the compound array, or nil for a simple line.
func (s *PolylineStyle) Compound() []float64 {
	return s.compound
}

// Stripes returns the parallel lines which make up the main line.
func (s *PolylineStyle) Stripes() []Stripe {
	if len(s.compound) == 0 {
		return []Stripe{{Offset: 0, Width: s.Width}}
	}
	var res []Stripe
	for i := 0; i < len(s.compound); i += 2 {
		a, b := s.compound[i], s.compound[i+1]
		if b <= a {
			continue
		}
		res = append(res, Stripe{
			Offset: (0.5 - (a+b)/2) * s.Width,
			Width:  (b - a) * s.Width,
		})
	}
	return res
}

// OutlinePen returns the pen for the outline drawn below the line.  The
// outline is always solid.
func (s *PolylineStyle) OutlinePen() *canvas.Pen {
	pen := canvas.NewPen(s.Width + 2*s.OutlineWidth)
	pen.Cap = s.DashCap
	return pen
}
