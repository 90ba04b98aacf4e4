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

package canvas

import (
	"image"
	"slices"

	"seehuhn.de/go/geom/path"
)

// OpKind identifies the type of a recorded drawing operation.
type OpKind int

// These are the recorded operation types.
const (
	OpFill OpKind = iota
	OpStroke
	OpImage
)

// Op is one recorded drawing operation.
type Op struct {
	Kind      OpKind
	AntiAlias bool

	// Path is a copy of the path for OpFill and OpStroke.
	Path  *path.Data
	Rule  FillRule
	Pen   Pen
	Paint Paint

	// Image and Dst are set for OpImage.
	Image image.Image
	Dst   image.Rectangle
}

// Recorder is a [Canvas] which records all drawing operations instead
// of painting them.
type Recorder struct {
	Rect image.Rectangle
	Ops  []Op

	aa bool
}

// NewRecorder returns an empty recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Rect: image.Rect(0, 0, width, height), aa: true}
}

// Bounds implements the [Canvas] interface.
func (r *Recorder) Bounds() image.Rectangle {
	return r.Rect
}

// SetAntiAlias implements the [Canvas] interface.
func (r *Recorder) SetAntiAlias(on bool) {
	r.aa = on
}

// Fill implements the [Canvas] interface.
func (r *Recorder) Fill(p *path.Data, rule FillRule, paint Paint) {
	r.Ops = append(r.Ops, Op{
		Kind:      OpFill,
		AntiAlias: r.aa,
		Path:      clonePath(p),
		Rule:      rule,
		Paint:     paint,
	})
}

// Stroke implements the [Canvas] interface.
func (r *Recorder) Stroke(p *path.Data, pen *Pen, paint Paint) {
	pc := *pen
	pc.Dash = slices.Clone(pen.Dash)
	r.Ops = append(r.Ops, Op{
		Kind:      OpStroke,
		AntiAlias: r.aa,
		Path:      clonePath(p),
		Pen:       pc,
		Paint:     paint,
	})
}

// DrawImage implements the [Canvas] interface.
func (r *Recorder) DrawImage(img image.Image, dst image.Rectangle) {
	r.Ops = append(r.Ops, Op{
		Kind:      OpImage,
		AntiAlias: r.aa,
		Image:     img,
		Dst:       dst,
	})
}

// Reset discards all recorded operations.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

func clonePath(p *path.Data) *path.Data {
	return &path.Data{
		Cmds:   slices.Clone(p.Cmds),
		Coords: slices.Clone(p.Coords),
	}
}
