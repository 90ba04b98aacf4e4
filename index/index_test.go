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

package index

import (
	"errors"
	"slices"
	"testing"

	"github.com/paulmach/orb"
)

func box(x0, y0, x1, y1 float64) orb.Bound {
	return orb.Bound{Min: orb.Point{x0, y0}, Max: orb.Point{x1, y1}}
}

func TestQuery(t *testing.T) {
	bounds := []orb.Bound{
		box(0, 0, 1, 1),
		box(5, 5, 6, 6),
		box(0, 8, 10, 9), // wide, centre far from the query
		box(3, 3, 3, 3),  // a single point
	}
	ids := []int{0, 1, 2, 3}
	q := Build(ids, func(i int) orb.Bound { return bounds[i] })
	if q.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", q.Len())
	}

	cases := []struct {
		query orb.Bound
		want  []int
	}{
		{box(-1, -1, 0.5, 0.5), []int{0}},
		{box(0.5, 0.5, 5.5, 5.5), []int{0, 1, 3}},
		{box(9.5, 8.5, 12, 12), []int{2}},
		{box(7, 0, 8, 2), nil},
		{box(-100, -100, 100, 100), []int{0, 1, 2, 3}},
	}
	for _, c := range cases {
		got := q.Query(c.query)
		slices.Sort(got)
		if !slices.Equal(got, c.want) {
			t.Errorf("Query(%v) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestInsertOutside(t *testing.T) {
	q := New[string](box(0, 0, 10, 10))
	if err := q.Insert(box(1, 1, 2, 2), "a"); err != nil {
		t.Fatal(err)
	}
	err := q.Insert(box(20, 20, 21, 21), "b")
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("got %v, want ErrOutOfBounds", err)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestRemove(t *testing.T) {
	q := New[string](box(0, 0, 10, 10))
	b := box(2, 2, 4, 4)
	for _, s := range []string{"a", "b"} {
		if err := q.Insert(b, s); err != nil {
			t.Fatal(err)
		}
	}
	if !q.Remove(b, func(s string) bool { return s == "b" }) {
		t.Fatal("Remove failed")
	}
	if q.Remove(b, func(s string) bool { return s == "c" }) {
		t.Error("removed a missing item")
	}
	got := q.Query(box(0, 0, 10, 10))
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("after Remove: %v", got)
	}
}

func TestEmpty(t *testing.T) {
	q := Build(nil, func(int) orb.Bound { return orb.Bound{} })
	if got := q.Query(box(0, 0, 1, 1)); len(got) != 0 {
		t.Errorf("empty index returned %v", got)
	}
}
