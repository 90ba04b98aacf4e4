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

import (
	"fmt"
	"image"
	"slices"
	"sync"

	"github.com/paulmach/orb"

	"seehuhn.de/go/maprender/transform"
)

// State describes what a map is currently busy with.
type State int

// These are the possible map states.
const (
	Idle State = iota
	Loading
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendering:
		return "rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Background is a georeferenced image drawn below all layers.
type Background struct {
	Image image.Image
	Bound orb.Bound // world area covered by the image
}

// A Map is a stack of layers.  The first layer is drawn first.
//
// While a map is loading or rendering, layers and features cannot be
// added or removed.  Such operations fail with [ErrInvalidOperation].
type Map struct {
	Background *Background

	// ReduceSubpixelDetail enables culling and simplification of features
	// which are smaller than a pixel.
	ReduceSubpixelDetail bool

	// Transform, if set, is applied to all feature geometry before
	// drawing.  The viewport is given in transformed coordinates.
	Transform transform.Transform

	mu     sync.Mutex
	state  State
	layers []*Layer
	gen    uint64
}

// New returns an empty map.
func New() *Map {
	return &Map{ReduceSubpixelDetail: true}
}

// State returns the current state of the map.
func (m *Map) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin moves the map from Idle into state s.  It fails with
// [ErrInvalidOperation] if the map is not idle.  Every successful call
// must be matched by a call to [Map.End].
func (m *Map) Begin(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return fmt.Errorf("%w: cannot start %s, map is %s", ErrInvalidOperation, s, m.state)
	}
	m.state = s
	return nil
}

// End returns the map to the Idle state.
func (m *Map) End() {
	m.mu.Lock()
	m.state = Idle
	m.mu.Unlock()
}

// AddLayer puts a layer on top of the map.
func (m *Map) AddLayer(l *Layer) error {
	if s := m.State(); s != Idle {
		return fmt.Errorf("%w: cannot add layer %q, map is %s", ErrInvalidOperation, l.Name, s)
	}
	if l.m != nil {
		return fmt.Errorf("%w: layer %q already belongs to a map", ErrInvalidOperation, l.Name)
	}
	l.m = m
	m.layers = append(m.layers, l)
	m.bump()
	return nil
}

// RemoveLayer removes a layer from the map.
func (m *Map) RemoveLayer(l *Layer) error {
	if s := m.State(); s != Idle {
		return fmt.Errorf("%w: cannot remove layer %q, map is %s", ErrInvalidOperation, l.Name, s)
	}
	i := slices.Index(m.layers, l)
	if i < 0 {
		return fmt.Errorf("%w: layer %q not in map", ErrInvalidOperation, l.Name)
	}
	m.layers = slices.Delete(m.layers, i, i+1)
	l.m = nil
	m.bump()
	return nil
}

// Layers returns the layers of the map, bottom layer first.
func (m *Map) Layers() []*Layer {
	return slices.Clone(m.layers)
}

// Layer returns the first layer with the given name, or nil.
func (m *Map) Layer(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Features returns an iterator over the features of all layers.
func (m *Map) Features() *Iterator {
	var all []*Feature
	for _, l := range m.layers {
		all = append(all, l.features...)
	}
	return newIterator(all, func() uint64 { return m.gen })
}

// Bound returns the union of the bounds of all layers.
// The second return value is false if the map has no features.
func (m *Map) Bound() (orb.Bound, bool) {
	var res orb.Bound
	found := false
	for _, l := range m.layers {
		b, ok := l.Bound()
		if !ok {
			continue
		}
		if !found {
			res = b
			found = true
		} else {
			res = res.Union(b)
		}
	}
	return res, found
}

func (m *Map) bump() {
	m.gen++
}
