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
	"math"
	"strings"
)

// HatchStyle selects one of the built-in 8×8 hatch patterns.
type HatchStyle int

// These are the built-in hatch patterns.
const (
	HatchHorizontal HatchStyle = iota
	HatchVertical
	HatchForwardDiagonal
	HatchBackwardDiagonal
	HatchCross
	HatchDiagonalCross
	HatchPercent05
	HatchPercent25
	HatchPercent50
	HatchPercent75
	HatchDottedGrid

	numHatch
)

var hatchNames = [numHatch]string{
	"horizontal", "vertical", "forwarddiagonal", "backwarddiagonal",
	"cross", "diagonalcross", "percent05", "percent25", "percent50",
	"percent75", "dottedgrid",
}

func (h HatchStyle) String() string {
	if h >= 0 && h < numHatch {
		return hatchNames[h]
	}
	return fmt.Sprintf("HatchStyle(%d)", int(h))
}

// ParseHatchStyle converts a hatch name to a HatchStyle.
func ParseHatchStyle(s string) (HatchStyle, error) {
	s = strings.ToLower(strings.ReplaceAll(s, "-", ""))
	for i, name := range hatchNames {
		if name == s {
			return HatchStyle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hatch style %q", s)
}

// hatchBits gives the hatch patterns, one byte per row, most significant
// bit on the left.
var hatchBits = [numHatch][8]uint8{
	HatchHorizontal:       {0xff, 0, 0, 0, 0, 0, 0, 0},
	HatchVertical:         {0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80},
	HatchForwardDiagonal:  {0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01},
	HatchBackwardDiagonal: {0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80},
	HatchCross:            {0xff, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80},
	HatchDiagonalCross:    {0x81, 0x42, 0x24, 0x18, 0x18, 0x24, 0x42, 0x81},
	HatchPercent05:        {0x80, 0, 0, 0, 0x08, 0, 0, 0},
	HatchPercent25:        {0x88, 0x22, 0x88, 0x22, 0x88, 0x22, 0x88, 0x22},
	HatchPercent50:        {0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55, 0xaa, 0x55},
	HatchPercent75:        {0x77, 0xdd, 0x77, 0xdd, 0x77, 0xdd, 0x77, 0xdd},
	HatchDottedGrid:       {0xaa, 0, 0x80, 0, 0x80, 0, 0x80, 0},
}

// FillPattern selects one of the built-in 16×16 grayscale fill patterns.
type FillPattern int

// These are the built-in fill patterns.
const (
	PatternBricks FillPattern = iota
	PatternDots
	PatternWaves
	PatternChecker
	PatternGravel

	numPattern
)

var patternNames = [numPattern]string{"bricks", "dots", "waves", "checker", "gravel"}

func (p FillPattern) String() string {
	if p >= 0 && p < numPattern {
		return patternNames[p]
	}
	return fmt.Sprintf("FillPattern(%d)", int(p))
}

// ParseFillPattern converts a pattern name to a FillPattern.
func ParseFillPattern(s string) (FillPattern, error) {
	s = strings.ToLower(s)
	for i, name := range patternNames {
		if name == s {
			return FillPattern(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fill pattern %q", s)
}

// Patterns holds the grayscale masks of all hatch styles and built-in
// fill patterns.  A mask value of 255 selects the foreground colour, 0
// the background colour.  A Patterns value is immutable once built and
// can be shared freely.
type Patterns struct {
	hatch [numHatch]*image.Gray
	fill  [numPattern]*image.Gray
}

// NewPatterns computes all pattern masks.
func NewPatterns() *Patterns {
	p := &Patterns{}
	for h, rows := range hatchBits {
		img := image.NewGray(image.Rect(0, 0, 8, 8))
		for y, bits := range rows {
			for x := range 8 {
				if bits&(0x80>>x) != 0 {
					img.Pix[y*img.Stride+x] = 255
				}
			}
		}
		p.hatch[h] = img
	}
	for f := range numPattern {
		p.fill[f] = drawFillPattern(f)
	}
	return p
}

// DefaultPatterns is the registry used by styles which were not given a
// registry of their own.
var DefaultPatterns = NewPatterns()

// Hatch returns the mask for a hatch style, or nil if h is out of range.
func (p *Patterns) Hatch(h HatchStyle) *image.Gray {
	if h < 0 || h >= numHatch {
		return nil
	}
	return p.hatch[h]
}

// Fill returns the mask for a fill pattern, or nil if f is out of range.
func (p *Patterns) Fill(f FillPattern) *image.Gray {
	if f < 0 || f >= numPattern {
		return nil
	}
	return p.fill[f]
}

func drawFillPattern(f FillPattern) *image.Gray {
	const n = 16
	img := image.NewGray(image.Rect(0, 0, n, n))
	for y := range n {
		for x := range n {
			var v float64
			switch f {
			case PatternBricks:
				// mortar lines with staggered joints
				yy := y % 8
				xx := x
				if y >= 8 {
					xx = (x + 8) % n
				}
				if yy == 7 || xx == 15 {
					v = 1
				}
			case PatternDots:
				dx := float64(x%8) - 3.5
				dy := float64(y%8) - 3.5
				v = math.Max(0, 1-math.Hypot(dx, dy)/3)
			case PatternWaves:
				c := 8 + 3*math.Sin(2*math.Pi*float64(x)/n)
				d := math.Mod(float64(y)-c+n, 8)
				v = math.Max(0, 1-math.Min(d, 8-d)/1.5)
			case PatternChecker:
				if (x/4+y/4)%2 == 0 {
					v = 1
				}
			case PatternGravel:
				// fixed pseudo-random speckles
				h := uint32(x*73856093) ^ uint32(y*19349663)
				h ^= h >> 13
				h *= 0x5bd1e995
				h ^= h >> 15
				if h%7 == 0 {
					v = 1
				} else if h%5 == 0 {
					v = 0.5
				}
			}
			img.Pix[y*img.Stride+x] = uint8(v*255 + 0.5)
		}
	}
	return img
}

// tint turns a grayscale mask into a colour tile, blending back (mask 0)
// and fore (mask 255).
func tint(mask *image.Gray, fore, back color.NRGBA) *image.NRGBA {
	b := mask.Bounds()
	tile := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	var lut [256]color.NRGBA
	var seen [256]bool
	for y := range b.Dy() {
		for x := range b.Dx() {
			g := mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			if !seen[g] {
				lut[g] = blend(back, fore, float64(g)/255)
				seen[g] = true
			}
			tile.SetNRGBA(x, y, lut[g])
		}
	}
	return tile
}

// Highlight returns the 8×8 translucent tile used to mark selected
// polygons.
func (p *Patterns) Highlight(c color.NRGBA) *image.NRGBA {
	strong, faint := c, c
	strong.A = c.A / 2
	faint.A = c.A / 8
	return tint(p.hatch[HatchPercent50], strong, faint)
}
