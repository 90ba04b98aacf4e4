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

package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/maprender/raster"
)

// Image is a [Canvas] which paints into an RGBA image.
type Image struct {
	dst *image.RGBA
	r   *raster.Rasterizer
	aa  bool
}

// NewImage returns a canvas drawing into dst.  Anti-aliasing is on.
func NewImage(dst *image.RGBA) *Image {
	b := dst.Bounds()
	clip := rect.Rect{
		LLx: float64(b.Min.X),
		LLy: float64(b.Min.Y),
		URx: float64(b.Max.X),
		URy: float64(b.Max.Y),
	}
	return &Image{
		dst: dst,
		r:   raster.NewRasterizer(clip),
		aa:  true,
	}
}

// RGBA returns the image the canvas draws into.
func (c *Image) RGBA() *image.RGBA {
	return c.dst
}

// Bounds implements the [Canvas] interface.
func (c *Image) Bounds() image.Rectangle {
	return c.dst.Bounds()
}

// SetAntiAlias implements the [Canvas] interface.  Without
// anti-aliasing, a pixel is painted if at least half of it is covered.
func (c *Image) SetAntiAlias(on bool) {
	c.aa = on
}

// Clear fills the whole canvas with col.
func (c *Image) Clear(col color.Color) {
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Fill implements the [Canvas] interface.
func (c *Image) Fill(p *path.Data, rule FillRule, paint Paint) {
	emit := c.compositor(paint)
	if rule == EvenOdd {
		c.r.FillEvenOdd(p, emit)
	} else {
		c.r.FillNonZero(p, emit)
	}
}

// Stroke implements the [Canvas] interface.
func (c *Image) Stroke(p *path.Data, pen *Pen, paint Paint) {
	c.r.Width = pen.Width
	c.r.Cap = pen.Cap
	c.r.Join = pen.Join
	c.r.MiterLimit = max(pen.MiterLimit, 1)
	c.r.Dash = pen.Dash
	c.r.DashPhase = pen.DashPhase
	c.r.Stroke(p, c.compositor(paint))
}

// DrawImage implements the [Canvas] interface.
func (c *Image) DrawImage(img image.Image, dst image.Rectangle) {
	var scaler draw.Scaler = draw.ApproxBiLinear
	if !c.aa {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(c.dst, dst, img, img.Bounds(), draw.Over, nil)
}

// compositor returns an emit function which blends paint over the
// destination image, weighted by the pixel coverage.
func (c *Image) compositor(paint Paint) raster.EmitFunc {
	return func(y, xMin int, coverage []float32) {
		row := c.dst.Pix[c.dst.PixOffset(xMin, y):]
		for i, cov := range coverage {
			if !c.aa {
				if cov < 0.5 {
					continue
				}
				cov = 1
			}
			src := paint.At(xMin+i, y)
			a := float32(src.A) / 255 * cov
			if a <= 0 {
				continue
			}
			px := row[4*i : 4*i+4 : 4*i+4]
			px[0] = blend(src.R, px[0], a)
			px[1] = blend(src.G, px[1], a)
			px[2] = blend(src.B, px[2], a)
			px[3] = uint8(a*255 + float32(px[3])*(1-a) + 0.5)
		}
	}
}

// blend mixes a non-premultiplied source channel into a premultiplied
// destination channel.
func blend(src, dst uint8, a float32) uint8 {
	return uint8(float32(src)*a + float32(dst)*(1-a) + 0.5)
}
