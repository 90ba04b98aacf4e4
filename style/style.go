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

// Package style holds the visual style records for map features: the
// fill and border of polygons, the stroke of polylines, the symbol of
// points and the font of feature titles.  Every style derives the
// paints and pens used for drawing.
//
// Style values are not safe for concurrent modification.  They may be
// read by several renders at the same time.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maprender/canvas"
)

// Configuration errors.
var (
	ErrPatternSize          = errors.New("fill pattern too large")
	ErrPatternFormat        = errors.New("fill pattern is not grayscale")
	ErrUnsupportedAlignment = errors.New("unsupported alignment")
	ErrInvalidCompound      = errors.New("invalid compound array")
)

// DashStyle selects the dash pattern of a line.
type DashStyle int

// The predefined dash patterns are given in multiples of the line
// width.
const (
	DashSolid DashStyle = iota
	DashDash
	DashDot
	DashDashDot
	DashDashDotDot
	DashCustom
)

var dashNames = []string{"solid", "dash", "dot", "dashdot", "dashdotdot", "custom"}

func (d DashStyle) String() string {
	if d >= 0 && int(d) < len(dashNames) {
		return dashNames[d]
	}
	return "DashStyle(" + strconv.Itoa(int(d)) + ")"
}

// ParseDashStyle converts a dash style name to a DashStyle.
func ParseDashStyle(s string) (DashStyle, error) {
	s = strings.ToLower(strings.ReplaceAll(s, "-", ""))
	if s == "" {
		return DashSolid, nil
	}
	for i, name := range dashNames {
		if name == s {
			return DashStyle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dash style %q", s)
}

var dashUnits = map[DashStyle][]float64{
	DashDash:       {3, 1},
	DashDot:        {1, 1},
	DashDashDot:    {3, 1, 1, 1},
	DashDashDotDot: {3, 1, 1, 1, 1, 1},
}

// dashArray returns the dash array in pixels for a line of the given
// width.  A custom style without a usable pattern is solid.
func dashArray(d DashStyle, custom []float64, width float64) []float64 {
	units := dashUnits[d]
	if d == DashCustom {
		units = custom
		var total float64
		for _, v := range units {
			if v < 0 {
				return nil
			}
			total += v
		}
		if total <= 0 {
			return nil
		}
	}
	if units == nil {
		return nil
	}
	width = max(width, 1)
	res := make([]float64, len(units))
	for i, v := range units {
		res[i] = v * width
	}
	return res
}

// ParseLineCap converts a cap name (butt, round or square) to a cap
// style.
func ParseLineCap(s string) (graphics.LineCapStyle, error) {
	switch strings.ToLower(s) {
	case "", "butt", "flat":
		return graphics.LineCapButt, nil
	case "round":
		return graphics.LineCapRound, nil
	case "square":
		return graphics.LineCapSquare, nil
	}
	return 0, fmt.Errorf("unknown line cap %q", s)
}

// ParseColor parses colours of the form "#rgb", "#rrggbb" and
// "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// blend mixes two colours; t=0 gives a, t=1 gives b.
func blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(alpha + 0.5)}
}

// penFor builds a pen for a line of the given width and dash settings.
func penFor(width float64, d DashStyle, custom []float64, dashCap graphics.LineCapStyle, join graphics.LineJoinStyle) *canvas.Pen {
	pen := canvas.NewPen(width)
	pen.Join = join
	pen.Cap = dashCap
	pen.Dash = dashArray(d, custom, width)
	return pen
}
