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
	"cmp"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"seehuhn.de/go/maprender/index"
	"seehuhn.de/go/maprender/style"
)

// DefaultRenderer is the name of the renderer used by new layers.
const DefaultRenderer = "default"

// indexThreshold is the number of features from which on queries use a
// spatial index instead of a linear scan.
const indexThreshold = 32

// A Layer is an ordered collection of features with default styles.
type Layer struct {
	Name    string
	Visible bool

	// ShowTitles controls whether the titles of the features are drawn.
	ShowTitles bool

	// Renderer is the name of the feature renderer used for this layer.
	Renderer string

	// Default styles for features without overrides.
	PointStyle    *style.PointStyle
	PolylineStyle *style.PolylineStyle
	PolygonStyle  *style.PolygonStyle
	TitleStyle    *style.TitleStyle

	minScale, maxScale float64

	features []*Feature
	keys     map[string]*Feature
	nextSeq  uint64

	gen      uint64
	idx      *index.Quadtree[*Feature]
	idxGen   uint64
	idxValid bool

	m *Map
}

// NewLayer returns an empty, visible layer with default styles.
func NewLayer(name string) *Layer {
	return &Layer{
		Name:          name,
		Visible:       true,
		ShowTitles:    true,
		Renderer:      DefaultRenderer,
		PointStyle:    style.NewPointStyle(),
		PolylineStyle: style.NewPolylineStyle(),
		PolygonStyle:  style.NewPolygonStyle(),
		TitleStyle:    style.NewTitleStyle(),
		keys:          make(map[string]*Feature),
	}
}

// Map returns the map the layer belongs to, or nil.
func (l *Layer) Map() *Map { return l.m }

// ScaleRange returns the range of scale factors at which the layer is
// shown.  Zero means no limit.
func (l *Layer) ScaleRange() (minScale, maxScale float64) {
	return l.minScale, l.maxScale
}

// SetScaleRange sets the range of scale factors, in pixels per world
// unit, at which the layer is shown.  Zero means no limit.
func (l *Layer) SetScaleRange(minScale, maxScale float64) error {
	if err := l.checkIdle(); err != nil {
		return err
	}
	if minScale < 0 || maxScale < 0 || (maxScale > 0 && minScale > maxScale) {
		return fmt.Errorf("%w: layer %q: scale range [%g, %g]",
			ErrInvalidOperation, l.Name, minScale, maxScale)
	}
	l.minScale, l.maxScale = minScale, maxScale
	return nil
}

// VisibleAt reports whether the layer is drawn at the given scale factor.
func (l *Layer) VisibleAt(scale float64) bool {
	if !l.Visible {
		return false
	}
	if l.minScale > 0 && scale < l.minScale {
		return false
	}
	if l.maxScale > 0 && scale > l.maxScale {
		return false
	}
	return true
}

// Add appends features to the layer.  Keys must be unique within the
// layer and a feature can only belong to one layer.
func (l *Layer) Add(features ...*Feature) error {
	if err := l.checkIdle(); err != nil {
		return err
	}
	for _, f := range features {
		if f.layer != nil {
			return fmt.Errorf("%w: feature %q already belongs to layer %q",
				ErrInvalidOperation, f.key, f.layer.Name)
		}
		if _, dup := l.keys[f.key]; dup {
			return fmt.Errorf("%w: duplicate feature key %q in layer %q",
				ErrInvalidOperation, f.key, l.Name)
		}
		f.layer = l
		f.seq = l.nextSeq
		l.nextSeq++
		l.keys[f.key] = f
		l.features = append(l.features, f)
	}
	if len(features) > 0 {
		l.changed()
	}
	return nil
}

// Remove deletes the feature with the given key.
func (l *Layer) Remove(key string) error {
	if err := l.checkIdle(); err != nil {
		return err
	}
	f, ok := l.keys[key]
	if !ok {
		return fmt.Errorf("%w: no feature %q in layer %q", ErrInvalidOperation, key, l.Name)
	}
	delete(l.keys, key)
	l.features = slices.DeleteFunc(l.features, func(g *Feature) bool { return g == f })
	f.layer = nil
	l.changed()
	return nil
}

// Feature returns the feature with the given key, or nil.
func (l *Layer) Feature(key string) *Feature {
	return l.keys[key]
}

// Len returns the number of features in the layer.
func (l *Layer) Len() int {
	return len(l.features)
}

// Features returns an iterator over all features, in drawing order.
func (l *Layer) Features() *Iterator {
	return newIterator(l.features, func() uint64 { return l.gen })
}

// Bound returns the union of the bounds of all features.
// The second return value is false for an empty layer.
func (l *Layer) Bound() (orb.Bound, bool) {
	if len(l.features) == 0 {
		return orb.Bound{}, false
	}
	b := l.features[0].bound
	for _, f := range l.features[1:] {
		b = b.Union(f.bound)
	}
	return b, true
}

// Query returns the visible features whose bounding box intersects b,
// in drawing order.
func (l *Layer) Query(b orb.Bound) []*Feature {
	var res []*Feature
	if len(l.features) < indexThreshold {
		for _, f := range l.features {
			if f.Visible && f.bound.Intersects(b) {
				res = append(res, f)
			}
		}
		return res
	}

	if !l.idxValid || l.idxGen != l.gen {
		l.idx = index.Build(l.features, (*Feature).Bound)
		l.idxGen = l.gen
		l.idxValid = true
	}
	for _, f := range l.idx.Query(b) {
		if f.Visible {
			res = append(res, f)
		}
	}
	slices.SortFunc(res, func(a, b *Feature) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return res
}

func (l *Layer) checkIdle() error {
	if l.m == nil {
		return nil
	}
	if s := l.m.State(); s != Idle {
		return fmt.Errorf("%w: layer %q: map is %s", ErrInvalidOperation, l.Name, s)
	}
	return nil
}

// changed records a structural change.
func (l *Layer) changed() {
	l.gen++
	if l.m != nil {
		l.m.bump()
	}
}
