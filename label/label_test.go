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

package label

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/style"
	"seehuhn.de/go/maprender/text"
)

func testFace(t *testing.T) *text.Face {
	t.Helper()
	face, err := text.Lookup("Go", text.Regular, 12)
	if err != nil {
		t.Fatal(err)
	}
	return face
}

func titleStyle(priority int) *style.TitleStyle {
	st := style.NewTitleStyle()
	st.RenderPriority = priority
	return st
}

func boxAround(x, y, r float64) rect.Rect {
	return rect.Rect{LLx: x - r, LLy: y - r, URx: x + r, URy: y + r}
}

func joined(f *Following) string {
	var parts []string
	for _, p := range f.Pieces {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "")
}

func TestFollowStraight(t *testing.T) {
	face := testFace(t)
	const title = "Main Street"
	w := face.Width(title)

	for _, line := range []orb.LineString{
		{{0, 100}, {300, 100}},
		{{300, 100}, {0, 100}}, // drawn right to left, text must not be upside down
		{{10, 10}, {200, 150}},
	} {
		f, ok := Follow(face, title, line)
		if !ok {
			t.Fatalf("%v: no placement", line)
		}
		if len(f.Pieces) != 1 || f.Pieces[0].Text != title {
			t.Fatalf("%v: pieces %v", line, f.Pieces)
		}
		p := f.Pieces[0]
		if math.Abs(p.Angle) > 90 {
			t.Errorf("%v: angle %g", line, p.Angle)
		}
		// the label is centred on the line
		mid := orb.Point{(line[0][0] + line[1][0]) / 2, (line[0][1] + line[1][1]) / 2}
		start := orb.Point{p.Translate.X, p.Translate.Y}
		d := math.Hypot(start[0]-mid[0], start[1]-mid[1])
		if math.Abs(d-w/2) > 1e-6 {
			t.Errorf("%v: label starts %g from the middle, want %g", line, d, w/2)
		}
	}
}

func TestFollowTooShort(t *testing.T) {
	face := testFace(t)
	const title = "Main Street"
	w := face.Width(title)
	if _, ok := Follow(face, title, orb.LineString{{0, 0}, {w, 0}}); ok {
		t.Error("label as long as the line was placed")
	}
	if _, ok := Follow(face, title, orb.LineString{{0, 0}, {w + 1, 0}}); !ok {
		t.Error("label shorter than the line was rejected")
	}
}

func TestFollowBend(t *testing.T) {
	face := testFace(t)
	const title = "Hello world, this is long"
	line := orb.LineString{{0, 100}, {200, 100}, {400, 130}}
	f, ok := Follow(face, title, line)
	if !ok {
		t.Fatal("no placement")
	}
	if len(f.Pieces) != 2 {
		t.Errorf("%d pieces, want 2", len(f.Pieces))
	}
	if got := joined(f); got != title {
		t.Errorf("pieces give %q", got)
	}
	if f.Pieces[0].Angle != 0 || f.Pieces[1].Angle <= 0 {
		t.Errorf("angles %g, %g", f.Pieces[0].Angle, f.Pieces[1].Angle)
	}
}

func TestFollowKink(t *testing.T) {
	face := testFace(t)
	line := orb.LineString{{0, 100}, {200, 100}, {200, 300}}
	if _, ok := Follow(face, "Hello world, this is long", line); ok {
		t.Error("label placed around a right angle")
	}
}

func TestFollowTooFewCharacters(t *testing.T) {
	face := testFace(t)
	// the middle of the line is a vertex, so even a single character
	// would need two segments
	var line orb.LineString
	for i := range 41 {
		line = append(line, orb.Point{float64(i) * 8, float64(i%2) * 3})
	}
	if _, ok := Follow(face, "a", line); ok {
		t.Error("one character placed on two segments")
	}
}

func TestFollowTightTurns(t *testing.T) {
	face := testFace(t)
	// a zigzag turning by 40° at every vertex: each turn is allowed, but
	// the text shortened at all corners no longer fits the window
	var line orb.LineString
	dx, dy := 40*math.Cos(math.Pi/9), 40*math.Sin(math.Pi/9)
	for i := range 21 {
		line = append(line, orb.Point{float64(i) * dx, float64(i%2) * dy})
	}
	if _, ok := Follow(face, "The quick brown fox jumps over the lazy dog again", line); ok {
		t.Error("title placed although it overruns the path")
	}
}

func TestFlushPriority(t *testing.T) {
	var b Buffer
	low, _ := b.AddSimple(titleStyle(1), "Berlin", vec.Vec2{X: 100, Y: 100})
	high, _ := b.AddSimple(titleStyle(2), "Potsdam", vec.Vec2{X: 110, Y: 102})
	other, _ := b.AddSimple(titleStyle(0), "Hamburg", vec.Vec2{X: 300, Y: 300})
	first, _ := b.AddSimple(titleStyle(5), "Köln", vec.Vec2{X: 500, Y: 500})
	second, _ := b.AddSimple(titleStyle(5), "Bonn", vec.Vec2{X: 505, Y: 500})

	rec := canvas.NewRecorder(600, 600)
	drawn, suppressed := b.Flush(rec)
	if drawn != 3 || suppressed != 2 {
		t.Errorf("drawn %d, suppressed %d", drawn, suppressed)
	}
	if low.Rendered || !high.Rendered || !other.Rendered {
		t.Error("lower priority title was kept")
	}
	if first.Rendered || !second.Rendered {
		t.Error("for equal priority, the later title must win")
	}
	if len(rec.Ops) != 3 {
		t.Errorf("%d draw calls, want 3", len(rec.Ops))
	}
	if b.Len() != 0 {
		t.Error("buffer not emptied")
	}
	e, _ := b.AddSimple(titleStyle(0), "x", vec.Vec2{})
	if e.Seq != 0 {
		t.Errorf("sequence not reset: %d", e.Seq)
	}
}

func TestFlushHalo(t *testing.T) {
	var b Buffer
	st := titleStyle(0)
	st.Outline = true
	if _, err := b.AddSimple(st, "Halo", vec.Vec2{X: 50, Y: 50}); err != nil {
		t.Fatal(err)
	}
	rec := canvas.NewRecorder(100, 100)
	b.Flush(rec)
	if len(rec.Ops) != 2 || rec.Ops[0].Kind != canvas.OpStroke || rec.Ops[1].Kind != canvas.OpFill {
		t.Fatalf("unexpected ops %v", rec.Ops)
	}
}

func TestFlushNoOverlap(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	words := []string{"Aachen", "Ulm", "Frankfurt am Main", "Jena", "Wuppertal"}

	var b Buffer
	for range 200 {
		c := vec.Vec2{X: rng.Float64() * 500, Y: rng.Float64() * 500}
		w := words[rng.IntN(len(words))]
		if _, err := b.AddSimple(titleStyle(rng.IntN(4)), w, c); err != nil {
			t.Fatal(err)
		}
	}
	elems := append([]*Element(nil), b.Elements()...)
	b.Flush(canvas.NewRecorder(500, 500))

	wins := func(a, c *Element) bool {
		if a.Style.RenderPriority != c.Style.RenderPriority {
			return a.Style.RenderPriority > c.Style.RenderPriority
		}
		return a.Seq > c.Seq
	}
	for i, a := range elems {
		blocked := false
		for j, c := range elems {
			if i == j || !boxesOverlap(a.Simple.Box, c.Simple.Box) {
				continue
			}
			if a.Rendered && c.Rendered {
				t.Fatalf("rendered titles %d and %d overlap", a.Seq, c.Seq)
			}
			if c.Rendered && wins(c, a) {
				blocked = true
			}
		}
		if !a.Rendered && !blocked {
			t.Errorf("title %d suppressed without a stronger overlapping title", a.Seq)
		}
	}
}

func TestOverlapMixed(t *testing.T) {
	face := testFace(t)
	f, ok := Follow(face, "River", orb.LineString{{0, 100}, {200, 100}})
	if !ok {
		t.Fatal("no placement")
	}
	follow := &Element{Style: titleStyle(0), Following: f}
	near := &Element{Style: titleStyle(0), Simple: &Simple{Text: "x", Box: boxAround(100, 100, 4)}}
	far := &Element{Style: titleStyle(0), Simple: &Simple{Text: "x", Box: boxAround(100, 150, 4)}}
	if !overlaps(follow, near) || !overlaps(near, follow) {
		t.Error("box inside the following title not detected")
	}
	if overlaps(follow, far) {
		t.Error("distant box reported as overlapping")
	}
}

func TestQuadContained(t *testing.T) {
	outer := [4]vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	inner := [4]vec.Vec2{{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 4, Y: 6}}
	if !quadIntersect(outer, inner) || !quadIntersect(inner, outer) {
		t.Error("contained quad not detected")
	}
	apart := [4]vec.Vec2{{X: 20, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 10}, {X: 20, Y: 10}}
	if quadIntersect(outer, apart) {
		t.Error("separate quads reported as intersecting")
	}
}

func TestTouchingTitles(t *testing.T) {
	a := &Element{Style: titleStyle(0), Simple: &Simple{Text: "a", Box: rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10}}}
	b := &Element{Style: titleStyle(0), Simple: &Simple{Text: "b", Box: rect.Rect{LLx: 10, LLy: 0, URx: 20, URy: 10}}}
	c := &Element{Style: titleStyle(0), Simple: &Simple{Text: "c", Box: rect.Rect{LLx: 10.5, LLy: 0, URx: 20, URy: 10}}}
	if !overlaps(a, b) {
		t.Error("touching boxes not detected")
	}
	if overlaps(a, c) {
		t.Error("separate boxes reported as overlapping")
	}

	left := boxQuad(a.Simple.Box)
	right := boxQuad(b.Simple.Box)
	if !quadIntersect(left, right) {
		t.Error("touching quads not detected")
	}
	if quadIntersect(left, boxQuad(c.Simple.Box)) {
		t.Error("separate quads reported as intersecting")
	}
}
