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

// Package label places feature titles on the map.
//
// Titles are collected in a [Buffer] while the features are drawn.  At
// the end of a render, [Buffer.Flush] considers the titles in order of
// decreasing priority and draws every title which does not overlap a
// title drawn before.  All coordinates in this package are in pixels.
package label

import (
	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/text"
)

// Simple is an axis-aligned title.
type Simple struct {
	Text string
	Box  rect.Rect // LLx/LLy is the top left corner
}

// Piece is a part of a title which follows a line.  The text is drawn
// along a straight segment, rotated by Angle degrees about Translate.
type Piece struct {
	Text      string
	Translate vec.Vec2 // point on the line where the text starts
	Angle     float64  // clockwise, in degrees
	Origin    vec.Vec2 // baseline start relative to Translate, before rotation

	// Corners is the bounding quadrilateral of the text.
	Corners [4]vec.Vec2
}

// Matrix maps text coordinates, with the baseline start at the origin
// and y pointing down, to pixel coordinates.
func (p *Piece) Matrix() matrix.Matrix {
	s, c := sincosDeg(p.Angle)
	ox, oy := p.Origin.X, p.Origin.Y
	return matrix.Matrix{
		c, s,
		-s, c,
		p.Translate.X + c*ox - s*oy,
		p.Translate.Y + s*ox + c*oy,
	}
}

// Following is a title placed along a polyline.
type Following struct {
	Pieces []Piece
}

// Element is an entry of the title buffer.  Exactly one of Simple and
// Following is set.
type Element struct {
	Style *style.TitleStyle
	Seq   int

	Simple    *Simple
	Following *Following

	// Rendered is set by [Buffer.Flush] if the title was drawn.
	Rendered bool

	face *text.Face
}

// IsSimple reports whether e is an axis-aligned title.
func (e *Element) IsSimple() bool {
	return e.Simple != nil
}

// Buffer collects the titles of one render.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	elems []*Element
	seq   int
}

// Len returns the number of queued titles.
func (b *Buffer) Len() int {
	return len(b.elems)
}

// Elements returns the queued titles, in the order they were added.
func (b *Buffer) Elements() []*Element {
	return b.elems
}

// AddSimple queues a title centred on the point c.
func (b *Buffer) AddSimple(st *style.TitleStyle, s string, c vec.Vec2) (*Element, error) {
	face, err := st.Face()
	if err != nil {
		return nil, err
	}
	w, h := face.Measure(s)
	e := &Element{
		Style: st,
		Seq:   b.next(),
		Simple: &Simple{
			Text: s,
			Box: rect.Rect{
				LLx: c.X - w/2,
				LLy: c.Y - h/2,
				URx: c.X + w/2,
				URy: c.Y + h/2,
			},
		},
		face: face,
	}
	b.elems = append(b.elems, e)
	return e, nil
}

// AddFollowing queues a title which follows the polyline, given in
// pixel coordinates.  If the title cannot be placed along the line, nil
// is returned.
func (b *Buffer) AddFollowing(st *style.TitleStyle, s string, line orb.LineString) (*Element, error) {
	face, err := st.Face()
	if err != nil {
		return nil, err
	}
	f, ok := Follow(face, s, line)
	if !ok {
		return nil, nil
	}
	e := &Element{
		Style:     st,
		Seq:       b.next(),
		Following: f,
		face:      face,
	}
	b.elems = append(b.elems, e)
	return e, nil
}

func (b *Buffer) next() int {
	s := b.seq
	b.seq++
	return s
}

// Reset discards all queued titles and restarts the sequence numbers.
func (b *Buffer) Reset() {
	b.elems = nil
	b.seq = 0
}
