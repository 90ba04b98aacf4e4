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

// Package text measures strings and converts them into outlines, using
// the Go font family.
package text

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrUnknownFont is returned when a font family is not available.
var ErrUnknownFont = errors.New("unknown font family")

// Style selects the weight and slant of a font.
type Style uint8

// Style flags.  The zero value is the regular style.
const (
	Bold Style = 1 << iota
	Italic

	Regular Style = 0
)

func (s Style) String() string {
	switch s {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Bold | Italic:
		return "bold italic"
	}
	return fmt.Sprintf("Style(%d)", s)
}

// DefaultFamily is used when no font family is given.
const DefaultFamily = "Go"

// families maps lower case family names to the font data for the four
// styles, indexed by Style.  Families without a bold variant use the
// regular weight for Bold.
var families = map[string][4][]byte{
	"go":           {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	"go medium":    {gomedium.TTF, gobold.TTF, gomediumitalic.TTF, gobolditalic.TTF},
	"go mono":      {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	"go smallcaps": {gosmallcaps.TTF, gosmallcaps.TTF, gosmallcapsitalic.TTF, gosmallcapsitalic.TTF},
}

var aliases = map[string]string{
	"":           "go",
	"sans-serif": "go",
	"sans":       "go",
	"monospace":  "go mono",
}

type fontKey struct {
	family string
	style  Style
}

var (
	fontMu sync.Mutex
	parsed = map[fontKey]*sfnt.Font{}
)

// loadFont returns the parsed font for a family and style.  Parsed fonts
// are shared between all faces.
func loadFont(family string, style Style) (*sfnt.Font, error) {
	name := strings.ToLower(strings.TrimSpace(family))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	data, ok := families[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, family)
	}
	style &= Bold | Italic

	fontMu.Lock()
	defer fontMu.Unlock()
	key := fontKey{name, style}
	if f := parsed[key]; f != nil {
		return f, nil
	}
	f, err := sfnt.Parse(data[style])
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", family, err)
	}
	parsed[key] = f
	return f, nil
}

// Families returns the names of the available font families.
func Families() []string {
	return []string{"Go", "Go Medium", "Go Mono", "Go Smallcaps"}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

var hinting = font.HintingNone
