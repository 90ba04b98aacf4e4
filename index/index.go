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

// Package index is a spatial index for rectangles, used to find the
// features which intersect the viewport.
//
// Items are stored in a point quadtree keyed by the centre of their
// bounding box.  Queries enlarge the search rectangle by the largest
// half-size of any stored box and then filter the candidates by their
// exact bounding boxes.
package index

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

// ErrOutOfBounds is returned by [Quadtree.Insert] if the centre of the
// item lies outside the area covered by the index.
var ErrOutOfBounds = errors.New("item outside of index bounds")

type entry[T any] struct {
	bound orb.Bound
	item  T
}

func (e *entry[T]) Point() orb.Point {
	return e.bound.Center()
}

// Quadtree indexes items of type T by their bounding boxes.
//
// A Quadtree can be queried concurrently, but Insert and Remove must not
// run concurrently with other methods.
type Quadtree[T any] struct {
	qt    *quadtree.Quadtree
	halfW float64
	halfH float64
	n     int
}

// New returns an empty index covering the given area.
func New[T any](area orb.Bound) *Quadtree[T] {
	return &Quadtree[T]{qt: quadtree.New(area)}
}

// Build returns an index holding all items.  The covered area is the
// union of the item bounds.
func Build[T any](items []T, bound func(T) orb.Bound) *Quadtree[T] {
	var area orb.Bound
	for i, it := range items {
		if i == 0 {
			area = bound(it)
		} else {
			area = area.Union(bound(it))
		}
	}
	q := New[T](area)
	for _, it := range items {
		// cannot fail, the area contains all centres
		_ = q.Insert(bound(it), it)
	}
	return q
}

// Insert adds an item with the given bounding box.
func (q *Quadtree[T]) Insert(b orb.Bound, item T) error {
	err := q.qt.Add(&entry[T]{bound: b, item: item})
	if errors.Is(err, quadtree.ErrPointOutsideOfBounds) {
		return ErrOutOfBounds
	} else if err != nil {
		return err
	}
	q.halfW = max(q.halfW, (b.Max[0]-b.Min[0])/2)
	q.halfH = max(q.halfH, (b.Max[1]-b.Min[1])/2)
	q.n++
	return nil
}

// Remove deletes the item with bounding box b for which match returns
// true.  It reports whether an item was removed.
func (q *Quadtree[T]) Remove(b orb.Bound, match func(T) bool) bool {
	ok := q.qt.Remove(&entry[T]{bound: b}, func(p orb.Pointer) bool {
		e := p.(*entry[T])
		return e.bound == b && match(e.item)
	})
	if ok {
		q.n--
	}
	return ok
}

// Len returns the number of items in the index.
func (q *Quadtree[T]) Len() int {
	return q.n
}

// Query returns all items whose bounding box intersects b.
func (q *Quadtree[T]) Query(b orb.Bound) []T {
	search := orb.Bound{
		Min: orb.Point{b.Min[0] - q.halfW, b.Min[1] - q.halfH},
		Max: orb.Point{b.Max[0] + q.halfW, b.Max[1] + q.halfH},
	}
	var res []T
	for _, p := range q.qt.InBound(nil, search) {
		e := p.(*entry[T])
		if e.bound.Intersects(b) {
			res = append(res, e.item)
		}
	}
	return res
}
