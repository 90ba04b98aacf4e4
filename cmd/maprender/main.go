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


// Command maprender renders a map document to a PNG file.
//
// Usage:
//
//	maprender [-o out.png] [-w width] [-h height] [-v] map.toml
//
// The image size defaults to the size given in the document.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/mapfile"
	"seehuhn.de/go/maprender/render"
)

func main() {
	var (
		output  = flag.String("o", "map.png", "output file")
		width   = flag.Int("w", 0, "image width (default from the document)")
		height  = flag.Int("h", 0, "image height (default from the document)")
		verbose = flag.Bool("v", false, "log debug messages")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] map.toml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	maprender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(flag.Arg(0), *output, *width, *height); err != nil {
		log.Fatal(err)
	}
}

func run(docName, outName string, width, height int) error {
	dir, name := filepath.Split(docName)
	if dir == "" {
		dir = "."
	}
	res, err := mapfile.Load(os.DirFS(dir), name)
	if err != nil {
		return err
	}
	if width <= 0 {
		width = res.Width
	}
	if height <= 0 {
		height = res.Height
	}

	img, stats, err := render.New(res.Options).Render(res.Map, res.World, width, height)
	if err != nil {
		return err
	}
	maprender.Logger().Info("rendered", "features", stats.Rendered,
		"culled", stats.Culled, "labels", stats.Labels,
		"suppressed", stats.LabelsSuppressed)

	out, err := os.Create(outName)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
