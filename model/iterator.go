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

package model

// Iterator steps through a collection of features.  If the collection
// is modified during iteration, Next returns false and Err returns
// [ErrConcurrentModification].
//
//	it := layer.Features()
//	for it.Next() {
//		f := it.Feature()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator struct {
	features []*Feature
	gen      func() uint64
	start    uint64
	pos      int
	err      error
}

func newIterator(features []*Feature, gen func() uint64) *Iterator {
	return &Iterator{
		features: features,
		gen:      gen,
		start:    gen(),
		pos:      -1,
	}
}

// Next advances to the next feature.  It returns false at the end of the
// collection or when an error occurred.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.gen() != it.start {
		it.err = ErrConcurrentModification
		return false
	}
	if it.pos+1 >= len(it.features) {
		it.pos = len(it.features)
		return false
	}
	it.pos++
	return true
}

// Feature returns the current feature.
func (it *Iterator) Feature() *Feature {
	if it.pos < 0 || it.pos >= len(it.features) {
		return nil
	}
	return it.features[it.pos]
}

// Err returns the error which stopped the iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}
