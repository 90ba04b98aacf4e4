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

// Package model holds the map, layer and feature objects which are
// rendered by [seehuhn.de/go/maprender/render].
package model

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"seehuhn.de/go/maprender/style"
)

var (
	// ErrInvalidOperation is returned for operations which are not allowed
	// in the current state, for example adding features to a layer while
	// the map is being rendered.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConcurrentModification is returned by an [Iterator] if the
	// underlying features changed during iteration.
	ErrConcurrentModification = errors.New("collection modified during iteration")
)

// Kind is the geometry type of a feature.
type Kind int

// These are the supported feature kinds.
const (
	KindPoint Kind = iota
	KindMultiPoint
	KindPolyline
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindMultiPoint:
		return "multipoint"
	case KindPolyline:
		return "polyline"
	case KindPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf returns the feature kind for a geometry.
// Line strings are polylines with one path, rings are polygons without
// holes.
func KindOf(g orb.Geometry) (Kind, bool) {
	switch g.(type) {
	case orb.Point:
		return KindPoint, true
	case orb.MultiPoint:
		return KindMultiPoint, true
	case orb.LineString, orb.MultiLineString:
		return KindPolyline, true
	case orb.Ring, orb.Polygon:
		return KindPolygon, true
	}
	return 0, false
}

// A Feature is a point, multipoint, polyline or polygon together with a
// title and optional style overrides.
//
// The kind of a feature is fixed when it is created.  Geometry is
// stored as orb.Point, orb.MultiPoint, orb.MultiLineString or
// orb.Polygon, depending on the kind.
type Feature struct {
	kind  Kind
	key   string
	geom  orb.Geometry
	bound orb.Bound
	layer *Layer
	seq   uint64

	Title    string
	Selected bool
	Visible  bool

	// Style overrides.  A nil value means the style of the layer is used.
	PointStyle    *style.PointStyle
	PolylineStyle *style.PolylineStyle
	PolygonStyle  *style.PolygonStyle
	TitleStyle    *style.TitleStyle
}

// NewFeature creates a visible feature with the given key.
// The kind of the feature is taken from the geometry.
func NewFeature(key string, g orb.Geometry) (*Feature, error) {
	kind, ok := KindOf(g)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported geometry %T", ErrInvalidOperation, g)
	}
	f := &Feature{kind: kind, key: key, Visible: true}
	f.geom, f.bound = normalize(g)
	return f, nil
}

// Kind returns the geometry type of the feature.
func (f *Feature) Kind() Kind { return f.kind }

// Key returns the unique key of the feature.
func (f *Feature) Key() string { return f.key }

// Geometry returns the geometry of the feature.
// The returned value must not be modified.
func (f *Feature) Geometry() orb.Geometry { return f.geom }

// Bound returns the bounding box of the geometry.
func (f *Feature) Bound() orb.Bound { return f.bound }

// Layer returns the layer the feature belongs to, or nil.
func (f *Feature) Layer() *Layer { return f.layer }

// SetGeometry replaces the geometry of the feature.  The new geometry
// must be of the same kind.
func (f *Feature) SetGeometry(g orb.Geometry) error {
	kind, ok := KindOf(g)
	if !ok || kind != f.kind {
		return fmt.Errorf("%w: cannot set %T geometry on %s feature %q",
			ErrInvalidOperation, g, f.kind, f.key)
	}
	if l := f.layer; l != nil {
		if err := l.checkIdle(); err != nil {
			return err
		}
		defer l.changed()
	}
	f.geom, f.bound = normalize(g)
	return nil
}

func normalize(g orb.Geometry) (orb.Geometry, orb.Bound) {
	switch g := g.(type) {
	case orb.LineString:
		return orb.MultiLineString{g}, g.Bound()
	case orb.Ring:
		return orb.Polygon{g}, g.Bound()
	}
	return g, g.Bound()
}
