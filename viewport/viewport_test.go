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

package viewport

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/vec"
)

func TestScale(t *testing.T) {
	for _, tc := range []struct {
		world orb.Bound
		w, h  int
		scale float64
	}{
		{orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 50}}, 200, 200, 2},
		{orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 50}}, 100, 20, 0.4},
		{orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}, 640, 480, 24},
		{orb.Bound{Min: orb.Point{5, 0}, Max: orb.Point{5, 4}}, 10, 10, 2.5},
	} {
		v, err := New(tc.world, tc.w, tc.h)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(v.Scale-tc.scale) > 1e-12 {
			t.Errorf("%v %dx%d: scale %g, want %g", tc.world, tc.w, tc.h, v.Scale, tc.scale)
		}
	}
}

func TestEmpty(t *testing.T) {
	b := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{1, 1}}
	if _, err := New(b, 10, 10); !errors.Is(err, ErrEmpty) {
		t.Errorf("point world: got %v", err)
	}
	b.Max = orb.Point{2, 2}
	if _, err := New(b, 0, 10); !errors.Is(err, ErrEmpty) {
		t.Errorf("zero width: got %v", err)
	}
}

func TestYFlip(t *testing.T) {
	v, err := New(orb.Bound{Min: orb.Point{10, 20}, Max: orb.Point{30, 40}}, 200, 200)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.ToScreen(orb.Point{10, 40}); got != (vec.Vec2{}) {
		t.Errorf("top-left corner maps to %v", got)
	}
	if got := v.ToScreen(orb.Point{30, 20}); got != (vec.Vec2{X: 200, Y: 200}) {
		t.Errorf("bottom-right corner maps to %v", got)
	}

	m := v.Matrix()
	p := orb.Point{17, 23}
	q := v.ToScreen(p)
	x := m[0]*p[0] + m[2]*p[1] + m[4]
	y := m[1]*p[0] + m[3]*p[1] + m[5]
	if math.Abs(x-q.X) > 1e-9 || math.Abs(y-q.Y) > 1e-9 {
		t.Errorf("matrix gives (%g,%g), ToScreen gives %v", x, y, q)
	}
}

// TestRoundTrip checks that converting to pixels and back returns the
// original point up to half a pixel.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		x0 := rng.Float64()*2000 - 1000
		y0 := rng.Float64()*2000 - 1000
		world := orb.Bound{
			Min: orb.Point{x0, y0},
			Max: orb.Point{x0 + 0.001 + rng.Float64()*500, y0 + 0.001 + rng.Float64()*500},
		}
		v, err := New(world, 1+rng.IntN(2000), 1+rng.IntN(2000))
		if err != nil {
			t.Fatal(err)
		}
		tol := 0.5 / v.Scale
		for range 20 {
			p := orb.Point{
				world.Min[0] + rng.Float64()*(world.Max[0]-world.Min[0]),
				world.Min[1] + rng.Float64()*(world.Max[1]-world.Min[1]),
			}
			back := v.ToWorld(v.ToScreen(p))
			if math.Abs(back[0]-p[0]) > tol || math.Abs(back[1]-p[1]) > tol {
				t.Fatalf("%v -> %v (tolerance %g)", p, back, tol)
			}
		}
	}
}

func TestVisible(t *testing.T) {
	v, err := New(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, 200, 100)
	if err != nil {
		t.Fatal(err)
	}
	vis := v.Visible()
	want := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}
	if vis != want {
		t.Errorf("visible %v, want %v", vis, want)
	}
	if v.Pixels(v.WorldDistance(7)) != 7 {
		t.Error("Pixels and WorldDistance are not inverse")
	}
}
