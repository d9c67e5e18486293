// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svg2png/pkg/types"
)

const (
	redSquareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
</svg>`

	wideRedSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10">
  <rect x="0" y="0" width="20" height="10" fill="#ff0000"/>
</svg>`

	emptySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"></svg>`
)

func defaultOptions() Options {
	return Options{Fit: types.FitStretch, Supersample: 1, ErrorMode: types.ErrorModeIgnore}
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	cr, cg, cb, ca := c.RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)
}

func TestOksvgRasterize_Sizes(t *testing.T) {
	r := NewOksvg(defaultOptions())
	for _, size := range []int{1, 16, 32, 100} {
		img, err := r.Rasterize(context.Background(), []byte(redSquareSVG), size)
		require.NoError(t, err)
		assert.Equal(t, size, img.Bounds().Dx(), "width at size %d", size)
		assert.Equal(t, size, img.Bounds().Dy(), "height at size %d", size)
	}
}

func TestOksvgRasterize_FillsCanvas(t *testing.T) {
	r := NewOksvg(defaultOptions())
	img, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 16)
	require.NoError(t, err)

	red, green, _, alpha := rgba8(img.At(8, 8))
	assert.Greater(t, red, uint8(200))
	assert.Less(t, green, uint8(50))
	assert.Greater(t, alpha, uint8(200))
}

func TestOksvgRasterize_Contain(t *testing.T) {
	opts := defaultOptions()
	opts.Fit = types.FitContain
	r := NewOksvg(opts)

	img, err := r.Rasterize(context.Background(), []byte(wideRedSVG), 20)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())

	// 20x10 drawing centred vertically: rows 5..14 painted, edges clear.
	_, _, _, topAlpha := rgba8(img.At(10, 1))
	assert.Equal(t, uint8(0), topAlpha, "band above the drawing should stay transparent")
	_, _, _, bottomAlpha := rgba8(img.At(10, 18))
	assert.Equal(t, uint8(0), bottomAlpha, "band below the drawing should stay transparent")
	red, _, _, alpha := rgba8(img.At(10, 10))
	assert.Greater(t, red, uint8(200))
	assert.Greater(t, alpha, uint8(200))
}

func TestOksvgRasterize_StretchFillsWideDrawing(t *testing.T) {
	r := NewOksvg(defaultOptions())
	img, err := r.Rasterize(context.Background(), []byte(wideRedSVG), 20)
	require.NoError(t, err)

	_, _, _, alpha := rgba8(img.At(10, 1))
	assert.Greater(t, alpha, uint8(200), "stretch should cover the full height")
}

func TestOksvgRasterize_Background(t *testing.T) {
	opts := defaultOptions()
	bg, err := ParseColor("#00ff00")
	require.NoError(t, err)
	opts.Background = bg
	r := NewOksvg(opts)

	img, err := r.Rasterize(context.Background(), []byte(emptySVG), 8)
	require.NoError(t, err)

	red, green, blue, alpha := rgba8(img.At(4, 4))
	assert.Equal(t, uint8(0), red)
	assert.Equal(t, uint8(255), green)
	assert.Equal(t, uint8(0), blue)
	assert.Equal(t, uint8(255), alpha)
}

func TestOksvgRasterize_Supersample(t *testing.T) {
	opts := defaultOptions()
	opts.Supersample = 4
	r := NewOksvg(opts)

	img, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 16)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	red, _, _, alpha := rgba8(img.At(8, 8))
	assert.Greater(t, red, uint8(200))
	assert.Greater(t, alpha, uint8(200))
}

func TestOksvgRasterize_Errors(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		size int
	}{
		{name: "mismatched tags", svg: `<svg viewBox="0 0 10 10"><g></svg>`, size: 16},
		{name: "plain text", svg: "hello world", size: 16},
		{name: "zero size", svg: redSquareSVG, size: 0},
		{name: "no viewBox or size", svg: `<svg xmlns="http://www.w3.org/2000/svg"><rect width="4" height="4"/></svg>`, size: 16},
	}
	r := NewOksvg(defaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Rasterize(context.Background(), []byte(tt.svg), tt.size)
			require.Error(t, err)
			assert.Nil(t, img)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantNil bool
		want    [4]uint8
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "transparent", wantNil: true},
		{in: "#ffffff", want: [4]uint8{255, 255, 255, 255}},
		{in: "#f00", want: [4]uint8{255, 0, 0, 255}},
		{in: "0000ff", want: [4]uint8{0, 0, 255, 255}},
		{in: "#zzzzzz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, c)
				return
			}
			r, g, b, a := rgba8(c)
			assert.Equal(t, tt.want, [4]uint8{r, g, b, a})
		})
	}
}

func TestPlacement(t *testing.T) {
	x, y, w, h := placement(20, 10, 20, types.FitContain)
	assert.Equal(t, [4]float64{0, 5, 20, 10}, [4]float64{x, y, w, h})

	x, y, w, h = placement(10, 40, 20, types.FitContain)
	assert.Equal(t, [4]float64{7.5, 0, 5, 20}, [4]float64{x, y, w, h})

	x, y, w, h = placement(20, 10, 20, types.FitStretch)
	assert.Equal(t, [4]float64{0, 0, 20, 20}, [4]float64{x, y, w, h})
}

func TestSupersampleFactor(t *testing.T) {
	assert.Equal(t, 1, supersampleFactor(64, 0))
	assert.Equal(t, 4, supersampleFactor(64, 4))
	assert.Equal(t, 2, supersampleFactor(4096, 4))
	assert.Equal(t, 1, supersampleFactor(8192, 2))
}

// fakeTool implements external.Tool, returning a canned PNG.
type fakeTool struct {
	png        []byte
	err        error
	keepAspect bool
}

func (f *fakeTool) Name() string    { return "fake-renderer" }
func (f *fakeTool) Available() bool { return true }

func (f *fakeTool) Render(_ context.Context, _ io.Reader, _, _ int, keepAspect bool, out io.Writer) error {
	f.keepAspect = keepAspect
	if f.err != nil {
		return f.err
	}
	_, err := out.Write(f.png)
	return err
}

func encodeSolid(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCommandRasterize(t *testing.T) {
	blue := color.RGBA{0, 0, 255, 255}

	t.Run("passes through exact size", func(t *testing.T) {
		tool := &fakeTool{png: encodeSolid(t, 32, 32, blue)}
		r := NewCommand(tool, defaultOptions())
		img, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 32)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
		_, _, b, a := rgba8(img.At(16, 16))
		assert.Equal(t, uint8(255), b)
		assert.Equal(t, uint8(255), a)
		assert.False(t, tool.keepAspect)
	})

	t.Run("contain centres a short result", func(t *testing.T) {
		opts := defaultOptions()
		opts.Fit = types.FitContain
		tool := &fakeTool{png: encodeSolid(t, 32, 16, blue)}
		r := NewCommand(tool, opts)
		img, err := r.Rasterize(context.Background(), []byte(wideRedSVG), 32)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
		assert.True(t, tool.keepAspect)
		_, _, _, a := rgba8(img.At(16, 2))
		assert.Equal(t, uint8(0), a)
		_, _, b, _ := rgba8(img.At(16, 16))
		assert.Equal(t, uint8(255), b)
	})

	t.Run("contain shrinks a tall result into the square", func(t *testing.T) {
		opts := defaultOptions()
		opts.Fit = types.FitContain
		// A tall drawing exported at a fixed width comes back taller than size.
		tool := &fakeTool{png: encodeSolid(t, 32, 64, blue)}
		r := NewCommand(tool, opts)
		img, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 32)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
		_, _, _, a := rgba8(img.At(2, 16))
		assert.Equal(t, uint8(0), a)
		_, _, b, _ := rgba8(img.At(16, 16))
		assert.Equal(t, uint8(255), b)
	})

	t.Run("rescales a wrong-sized result", func(t *testing.T) {
		tool := &fakeTool{png: encodeSolid(t, 8, 8, blue)}
		r := NewCommand(tool, defaultOptions())
		img, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 24)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 24, 24), img.Bounds())
	})

	t.Run("tool failure", func(t *testing.T) {
		tool := &fakeTool{err: errors.New("running fake-renderer: exit status 1")}
		r := NewCommand(tool, defaultOptions())
		_, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 24)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit status 1")
	})

	t.Run("empty output", func(t *testing.T) {
		r := NewCommand(&fakeTool{}, defaultOptions())
		_, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 24)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty output")
	})

	t.Run("output is not PNG", func(t *testing.T) {
		r := NewCommand(&fakeTool{png: []byte("not a png")}, defaultOptions())
		_, err := r.Rasterize(context.Background(), []byte(redSquareSVG), 24)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding fake-renderer output")
	})

	assert.Equal(t, "command:fake-renderer", NewCommand(&fakeTool{}, defaultOptions()).Name())
}

func TestNew(t *testing.T) {
	cfg := types.DefaultConversionConfig()
	r, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "oksvg", r.Name())

	cfg.Background = "not-a-colour"
	_, err = New(cfg)
	require.Error(t, err)

	cfg = types.DefaultConversionConfig()
	cfg.Backend = "magick"
	_, err = New(cfg)
	require.Error(t, err)
}
