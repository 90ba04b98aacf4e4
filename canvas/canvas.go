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

// Package canvas provides the drawing surfaces used by the map renderer.
//
// All coordinates passed to a [Canvas] are in pixels, with the origin in
// the top-left corner and the y axis pointing down.
package canvas

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"
)

// Canvas is a drawing surface.
type Canvas interface {
	// Bounds returns the pixel rectangle of the canvas.
	Bounds() image.Rectangle

	// SetAntiAlias switches anti-aliasing on or off for all subsequent
	// drawing operations.
	SetAntiAlias(on bool)

	// Fill paints the interior of p.
	Fill(p *path.Data, rule FillRule, paint Paint)

	// Stroke paints the outline of p.
	Stroke(p *path.Data, pen *Pen, paint Paint)

	// DrawImage draws img scaled to the rectangle dst.
	DrawImage(img image.Image, dst image.Rectangle)
}

// FillRule selects how the interior of a path is determined.
type FillRule int

// These are the supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Pen describes how paths are stroked.  Lengths are in pixels.
type Pen struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	// Dash is the dash pattern.  Nil means solid.
	Dash []float64

	// DashPhase is the distance into the dash pattern at which the path
	// starts.
	DashPhase float64
}

// NewPen returns a solid pen of the given width with butt caps and round
// joins.
func NewPen(width float64) *Pen {
	return &Pen{
		Width:      width,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinRound,
		MiterLimit: 10,
	}
}

// Paint gives the colour of every pixel covered by a drawing operation.
type Paint interface {
	At(x, y int) color.NRGBA
}

// Solid is a single colour paint.
type Solid color.NRGBA

// At implements the [Paint] interface.
func (s Solid) At(x, y int) color.NRGBA {
	return color.NRGBA(s)
}

// Pattern repeats a tile over the whole canvas.  The top-left corner of
// one copy of the tile is placed at Origin.
type Pattern struct {
	Tile   *image.NRGBA
	Origin image.Point
}

// At implements the [Paint] interface.
func (p *Pattern) At(x, y int) color.NRGBA {
	b := p.Tile.Bounds()
	tx := mod(x-p.Origin.X, b.Dx())
	ty := mod(y-p.Origin.Y, b.Dy())
	return p.Tile.NRGBAAt(b.Min.X+tx, b.Min.Y+ty)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
