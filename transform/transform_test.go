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

package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestWebMercatorRoundTrip(t *testing.T) {
	var tr WebMercator
	for _, p := range []orb.Point{{0, 0}, {13.4, 52.5}, {-122.4, 37.8}, {179, -80}} {
		q, err := tr.Forward(p)
		if err != nil {
			t.Fatal(err)
		}
		r, err := tr.Inverse(q)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(r[0]-p[0]) > 1e-9 || math.Abs(r[1]-p[1]) > 1e-9 {
			t.Errorf("%v -> %v -> %v", p, q, r)
		}
	}
}

func TestWebMercatorDomain(t *testing.T) {
	var tr WebMercator
	for _, lat := range []float64{90, -89, math.NaN()} {
		_, err := tr.Forward(orb.Point{0, lat})
		if !errors.Is(err, ErrOutOfDomain) {
			t.Errorf("latitude %g: got %v, want ErrOutOfDomain", lat, err)
		}
	}
}

func TestBoundSkipsPoles(t *testing.T) {
	var tr WebMercator
	b := orb.Bound{Min: orb.Point{-10, 0}, Max: orb.Point{10, 90}}
	got, ok := Bound(tr, b)
	if !ok {
		t.Fatal("no points transformed")
	}
	lo, _ := tr.Forward(orb.Point{-10, 0})
	if math.Abs(got.Min[0]-lo[0]) > 1e-6 || math.Abs(got.Min[1]) > 1e-6 {
		t.Errorf("Min = %v, want %v", got.Min, lo)
	}
	// the top edge is out of domain; the highest sample in range wins
	top, _ := tr.Forward(orb.Point{0, 90 * 15 / 16})
	if got.Max[1] < top[1]-1e-6 {
		t.Errorf("Max.Y = %g, want at least %g", got.Max[1], top[1])
	}
}

func TestBoundNothing(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 88}, Max: orb.Point{1, 89}}
	if _, ok := Bound(WebMercator{}, b); ok {
		t.Error("expected no transformable points")
	}
}

func TestGeometry(t *testing.T) {
	ls := orb.LineString{{0, 0}, {1, 89}, {2, 1}}
	g, dropped := Geometry(WebMercator{}, ls)
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if got := len(g.(orb.LineString)); got != 2 {
		t.Errorf("%d points left, want 2", got)
	}

	poly := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	g, dropped = Geometry(Identity{}, poly)
	if dropped != 0 || !orb.Equal(g, poly) {
		t.Errorf("identity changed polygon: %v", g)
	}
}
