// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns SVG documents into square raster images. Two
// rasterizers are provided: an in-process one built on oksvg/rasterx and one
// that delegates to an external renderer binary.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/pdiddy/svg2png/internal/external"
	"github.com/pdiddy/svg2png/pkg/types"
)

// maxRenderSide caps the supersampled canvas edge.
const maxRenderSide = 8192

// Rasterizer renders an SVG document at a square pixel size. Implementations
// always return a size x size image.
type Rasterizer interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Rasterize renders svg at size x size pixels.
	Rasterize(ctx context.Context, svg []byte, size int) (*image.RGBA, error)
}

// Options controls how a drawing is placed and painted on the output canvas.
type Options struct {
	Fit         types.FitMode
	Background  color.Color // nil keeps the canvas transparent
	Supersample int
	ErrorMode   types.ErrorMode
}

// OptionsFromConfig builds rasterizer options from a run configuration.
func OptionsFromConfig(cfg types.ConversionConfig) (Options, error) {
	bg, err := ParseColor(cfg.Background)
	if err != nil {
		return Options{}, err
	}
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	fit := cfg.Fit
	if fit == "" {
		fit = types.FitStretch
	}
	return Options{
		Fit:         fit,
		Background:  bg,
		Supersample: ss,
		ErrorMode:   cfg.ErrorMode,
	}, nil
}

// ParseColor parses a hex colour such as "#fff" or "#1a2b3c". An empty string
// or "transparent" yields nil.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return nil, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid background colour %q: %w", s, err)
	}
	return c, nil
}

// New returns the rasterizer selected by cfg.
func New(cfg types.ConversionConfig) (Rasterizer, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendOksvg, "":
		return NewOksvg(opts), nil
	case types.BackendCommand:
		tool, err := external.LookupTool(cfg.Command)
		if err != nil {
			return nil, err
		}
		return NewCommand(tool, opts), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// placement returns the rectangle inside a size x size canvas that a
// w x h drawing occupies under fit.
func placement(w, h float64, size int, fit types.FitMode) (x, y, dw, dh float64) {
	s := float64(size)
	if fit != types.FitContain || w <= 0 || h <= 0 {
		return 0, 0, s, s
	}
	scale := s / max(w, h)
	dw, dh = w*scale, h*scale
	return (s - dw) / 2, (s - dh) / 2, dw, dh
}

// compose paints bg on a fresh size x size canvas and draws src over it,
// scaling src into its placement when the sizes differ.
func compose(src image.Image, size int, fit types.FitMode, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if bg != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	sb := src.Bounds()
	x, y, w, h := placement(float64(sb.Dx()), float64(sb.Dy()), size, fit)
	dr := image.Rect(int(x+0.5), int(y+0.5), int(x+w+0.5), int(y+h+0.5))
	if dr.Dx() == sb.Dx() && dr.Dy() == sb.Dy() {
		draw.Draw(dst, dr, src, sb.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dr, src, sb, draw.Over, nil)
	return dst
}

// supersampleFactor clamps factor so the working canvas stays bounded.
func supersampleFactor(size, factor int) int {
	if factor < 1 {
		return 1
	}
	for factor > 1 && size*factor > maxRenderSide {
		factor--
	}
	return factor
}
