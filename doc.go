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

// Package maprender draws layered vector maps into raster images.
//
// A map is a stack of layers, each holding point, multipoint, polyline
// and polygon features together with default styles. Rendering a map
// for a world rectangle and a pixel size proceeds layer by layer:
// polygons, then polylines, then points, each followed by the
// highlighted redraw of the selected features of that kind. Feature
// titles are collected during this pass and placed at the very end,
// highest priority first, so that labels never overlap each other.
// Titles of polylines can follow the shape of the line.
//
// The work is split over several sub-packages:
//
//   - [seehuhn.de/go/maprender/viewport] maps world coordinates to pixels.
//   - [seehuhn.de/go/maprender/style] holds the visual style records.
//   - [seehuhn.de/go/maprender/model] is the map, layer and feature model.
//   - [seehuhn.de/go/maprender/render] draws features and runs a render.
//   - [seehuhn.de/go/maprender/label] places and draws titles.
//   - [seehuhn.de/go/maprender/canvas] and [seehuhn.de/go/maprender/raster]
//     turn paths into pixels.
//
// Map documents in TOML format, referring to GeoJSON data, can be
// loaded using [seehuhn.de/go/maprender/mapfile].
package maprender
