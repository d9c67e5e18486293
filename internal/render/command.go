// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/pdiddy/svg2png/internal/external"
	"github.com/pdiddy/svg2png/pkg/types"
)

// CommandRasterizer renders by piping each document through an external
// renderer binary. It depends on an external.Tool injected at construction
// time.
type CommandRasterizer struct {
	tool external.Tool
	opts Options
}

// NewCommand creates a rasterizer that runs tool for every render.
func NewCommand(tool external.Tool, opts Options) *CommandRasterizer {
	return &CommandRasterizer{tool: tool, opts: opts}
}

func (c *CommandRasterizer) Name() string {
	return string(types.BackendCommand) + ":" + c.tool.Name()
}

// Rasterize asks the tool for a size x size PNG, decodes it, and composes it
// onto the output canvas. Supersample is not applied; the tool antialiases
// on its own.
func (c *CommandRasterizer) Rasterize(ctx context.Context, svg []byte, size int) (*image.RGBA, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid size %d", size)
	}

	var out bytes.Buffer
	keepAspect := c.opts.Fit == types.FitContain
	if err := c.tool.Render(ctx, bytes.NewReader(svg), size, size, keepAspect, &out); err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced empty output", c.tool.Name())
	}

	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s output: %w", c.tool.Name(), err)
	}
	return compose(img, size, c.opts.Fit, c.opts.Background), nil
}
