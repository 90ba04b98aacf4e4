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

package text

import (
	"math"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Face is a font at a given size.  All lengths are in pixels.
//
// A Face is safe for concurrent use.
type Face struct {
	Family string
	Style  Style
	Size   float64

	font    *sfnt.Font
	ppem    fixed.Int26_6
	ascent  float64
	descent float64

	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewFace returns the face for the given font family, style and size in
// pixels per em.
func NewFace(family string, style Style, size float64) (*Face, error) {
	f, err := loadFont(family, style)
	if err != nil {
		return nil, err
	}
	if family == "" {
		family = DefaultFamily
	}
	face := &Face{
		Family: family,
		Style:  style,
		Size:   size,
		font:   f,
		ppem:   fixed.Int26_6(math.Round(size * 64)),
	}
	m, err := f.Metrics(&face.buf, face.ppem, hinting)
	if err != nil {
		return nil, err
	}
	face.ascent = toFloat(m.Ascent)
	face.descent = toFloat(m.Descent)
	return face, nil
}

// Ascent returns the distance from the baseline to the top of the line.
func (f *Face) Ascent() float64 { return f.ascent }

// Descent returns the distance from the baseline to the bottom of the
// line, as a positive number.
func (f *Face) Descent() float64 { return f.descent }

// Height returns the line height, Ascent plus Descent.
func (f *Face) Height() float64 { return f.ascent + f.descent }

// Width returns the advance width of s, including kerning.
func (f *Face) Width(s string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var w fixed.Int26_6
	prev := sfnt.GlyphIndex(0)
	for i, r := range s {
		gid, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.font.Kern(&f.buf, prev, gid, f.ppem, hinting); err == nil {
				w += k
			}
		}
		if adv, err := f.font.GlyphAdvance(&f.buf, gid, f.ppem, hinting); err == nil {
			w += adv
		}
		prev = gid
	}
	return toFloat(w)
}

// Measure returns the width and height of the box occupied by s.
func (f *Face) Measure(s string) (w, h float64) {
	return f.Width(s), f.Height()
}

// AppendOutline appends the glyph outlines of s to p.  In the local
// coordinate system the text starts at the origin on the baseline, the
// x axis points along the text and the y axis points down.  The matrix
// m maps local coordinates to the coordinates used in p.
func (f *Face) AppendOutline(p *path.Data, s string, m matrix.Matrix) *path.Data {
	f.mu.Lock()
	defer f.mu.Unlock()

	tr := func(q fixed.Point26_6, dx fixed.Int26_6) vec.Vec2 {
		x := toFloat(q.X + dx)
		y := toFloat(q.Y)
		return vec.Vec2{
			X: m[0]*x + m[2]*y + m[4],
			Y: m[1]*x + m[3]*y + m[5],
		}
	}

	var x fixed.Int26_6
	prev := sfnt.GlyphIndex(0)
	for i, r := range s {
		gid, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.font.Kern(&f.buf, prev, gid, f.ppem, hinting); err == nil {
				x += k
			}
		}
		prev = gid

		segs, err := f.font.LoadGlyph(&f.buf, gid, f.ppem, nil)
		if err == nil {
			open := false
			for _, seg := range segs {
				switch seg.Op {
				case sfnt.SegmentOpMoveTo:
					if open {
						p.Close()
					}
					p.MoveTo(tr(seg.Args[0], x))
					open = true
				case sfnt.SegmentOpLineTo:
					p.LineTo(tr(seg.Args[0], x))
				case sfnt.SegmentOpQuadTo:
					p.QuadTo(tr(seg.Args[0], x), tr(seg.Args[1], x))
				case sfnt.SegmentOpCubeTo:
					p.CubeTo(tr(seg.Args[0], x), tr(seg.Args[1], x), tr(seg.Args[2], x))
				}
			}
			if open {
				p.Close()
			}
		}

		if adv, err := f.font.GlyphAdvance(&f.buf, gid, f.ppem, hinting); err == nil {
			x += adv
		}
	}
	return p
}

type faceKey struct {
	family string
	style  Style
	size   float64
}

var (
	faceMu    sync.Mutex
	faceCache = map[faceKey]*Face{}
)

// Lookup is like [NewFace] but returns a shared face if the same font
// was requested before.
func Lookup(family string, style Style, size float64) (*Face, error) {
	key := faceKey{family, style, size}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f := faceCache[key]; f != nil {
		return f, nil
	}
	f, err := NewFace(family, style, size)
	if err != nil {
		return nil, err
	}
	faceCache[key] = f
	return f, nil
}
