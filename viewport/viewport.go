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

// Package viewport maps world coordinates to pixel coordinates.
//
// The scale factor is the same in both directions and is chosen so that
// the whole world rectangle fits into the pixel area.  The world y axis
// points up, the pixel y axis points down.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ErrEmpty is returned for a world rectangle without area or a pixel
// size without pixels.
var ErrEmpty = errors.New("empty viewport")

// Viewport is the mapping between a world rectangle and a pixel area.
type Viewport struct {
	// World is the requested world rectangle.  Its top-left corner maps
	// to pixel (0, 0).
	World orb.Bound

	Width, Height int

	// Scale is the number of pixels per world unit.
	Scale float64
}

// New returns the viewport showing world in an area of width×height
// pixels.
func New(world orb.Bound, width, height int) (Viewport, error) {
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("%w: %dx%d pixels", ErrEmpty, width, height)
	}
	ww := world.Max[0] - world.Min[0]
	wh := world.Max[1] - world.Min[1]
	scale := math.Inf(1)
	if ww > 0 {
		scale = float64(width) / ww
	}
	if wh > 0 {
		scale = min(scale, float64(height)/wh)
	}
	if math.IsInf(scale, 1) || math.IsNaN(scale) {
		return Viewport{}, fmt.Errorf("%w: world %v", ErrEmpty, world)
	}
	return Viewport{World: world, Width: width, Height: height, Scale: scale}, nil
}

// ToScreen converts a world point to pixel coordinates.
func (v Viewport) ToScreen(p orb.Point) vec.Vec2 {
	return vec.Vec2{
		X: (p[0] - v.World.Min[0]) * v.Scale,
		Y: (v.World.Max[1] - p[1]) * v.Scale,
	}
}

// ToWorld converts pixel coordinates to a world point.
func (v Viewport) ToWorld(q vec.Vec2) orb.Point {
	return orb.Point{
		v.World.Min[0] + q.X/v.Scale,
		v.World.Max[1] - q.Y/v.Scale,
	}
}

// Matrix returns the world to pixel transformation.
func (v Viewport) Matrix() matrix.Matrix {
	s := v.Scale
	return matrix.Matrix{s, 0, 0, -s, -v.World.Min[0] * s, v.World.Max[1] * s}
}

// Visible returns the world rectangle covered by the pixel area.  This
// can be larger than World, if the aspect ratios differ.
func (v Viewport) Visible() orb.Bound {
	return orb.Bound{
		Min: orb.Point{v.World.Min[0], v.World.Max[1] - float64(v.Height)/v.Scale},
		Max: orb.Point{v.World.Min[0] + float64(v.Width)/v.Scale, v.World.Max[1]},
	}
}

// Pixels converts a world distance to pixels.
func (v Viewport) Pixels(d float64) float64 {
	return d * v.Scale
}

// WorldDistance converts a pixel distance to world units.
func (v Viewport) WorldDistance(px float64) float64 {
	return px / v.Scale
}
