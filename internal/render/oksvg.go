// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/pdiddy/svg2png/pkg/types"
)

// OksvgRasterizer renders in-process with oksvg and rasterx.
type OksvgRasterizer struct {
	opts Options
}

// NewOksvg creates an in-process rasterizer.
func NewOksvg(opts Options) *OksvgRasterizer {
	return &OksvgRasterizer{opts: opts}
}

func (o *OksvgRasterizer) Name() string { return string(types.BackendOksvg) }

// Rasterize parses svg and draws it onto a transparent canvas of
// size x Supersample pixels, then composes the result at size x size.
func (o *OksvgRasterizer) Rasterize(_ context.Context, svg []byte, size int) (img *image.RGBA, err error) {
	// oksvg panics on some malformed path data.
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("rasterizing SVG: %v", r)
		}
	}()

	if size < 1 {
		return nil, fmt.Errorf("invalid size %d", size)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), errorMode(o.opts.ErrorMode))
	if err != nil {
		return nil, fmt.Errorf("parsing SVG: %w", err)
	}

	side := size * supersampleFactor(size, o.opts.Supersample)
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("parsing SVG: missing or empty viewBox and size")
	}
	x, y, w, h := placement(icon.ViewBox.W, icon.ViewBox.H, side, o.opts.Fit)
	icon.SetTarget(x, y, w, h)

	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, canvas, canvas.Bounds())
	dasher := rasterx.NewDasher(side, side, scanner)
	icon.Draw(dasher, 1.0)

	return compose(canvas, size, types.FitStretch, o.opts.Background), nil
}

func errorMode(m types.ErrorMode) oksvg.ErrorMode {
	switch m {
	case types.ErrorModeStrict:
		return oksvg.StrictErrorMode
	case types.ErrorModeWarn:
		return oksvg.WarnErrorMode
	default:
		return oksvg.IgnoreErrorMode
	}
}
