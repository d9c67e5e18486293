// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements batch SVG-to-PNG conversion. For every SVG file
// in an input directory and every requested size it asks a render.Rasterizer
// for a square image and writes it as PNG to the output directory.
package convert

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog"

	"github.com/pdiddy/svg2png/internal/render"
	"github.com/pdiddy/svg2png/pkg/types"
)

// sniffLen is how many leading bytes filetype inspects.
const sniffLen = 261

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	StartedAt time.Time
	Elapsed   time.Duration
	Sizes     []int

	// TotalFiles counts every regular file in the input directory.
	TotalFiles int
	// SourceFiles counts the SVG files among them.
	SourceFiles int
	// SkippedFiles counts the non-SVG files.
	SkippedFiles int
	// Converted counts SVG files that produced at least one PNG.
	Converted int
	// FilesFailed counts SVG files with at least one failed size.
	FilesFailed int

	Outputs  []string
	Failures []Failure
}

// Total returns the number of (source, size) conversions attempted.
func (r BatchResult) Total() int {
	return len(r.Outputs) + len(r.Failures)
}

// HasFailures reports whether any conversion failed.
func (r BatchResult) HasFailures() bool {
	return len(r.Failures) > 0
}

// Converter runs conversion batches. The rasterizer and configuration are
// fixed for the lifetime of the Converter.
type Converter struct {
	rasterizer render.Rasterizer
	cfg        types.ConversionConfig
	log        zerolog.Logger
}

// New creates a Converter that renders with r and logs to log.
func New(r render.Rasterizer, cfg types.ConversionConfig, log zerolog.Logger) *Converter {
	if cfg.NameFormat == "" {
		cfg.NameFormat = types.DefaultNameFormat
	}
	return &Converter{rasterizer: r, cfg: cfg, log: log}
}

// Run converts every SVG file in req.InputDir at every size in req.Sizes.
// Failures are logged and collected in the result; the batch continues
// unless FailFast is set, in which case the first failure is returned. The
// returned error is otherwise reserved for problems that stop the whole
// batch: a missing input directory or an unusable output directory.
func (c *Converter) Run(ctx context.Context, req types.ConversionRequest) (BatchResult, error) {
	result := BatchResult{StartedAt: time.Now()}

	req, err := req.Normalize()
	if err != nil {
		return result, err
	}
	if err := types.ValidateNameFormat(c.cfg.NameFormat); err != nil {
		return result, err
	}
	result.Sizes = req.Sizes

	c.log.Info().
		Str("input", req.InputDir).
		Str("output", req.OutputDir).
		Ints("sizes", req.Sizes).
		Str("backend", c.rasterizer.Name()).
		Msg("starting conversion")

	scan, err := Discover(req.InputDir, c.cfg.Recursive, c.cfg.IgnoreCase)
	if err != nil {
		return result, err
	}
	result.TotalFiles = scan.Total
	result.SourceFiles = len(scan.Sources)
	result.SkippedFiles = len(scan.Skipped)
	for _, rel := range scan.Skipped {
		c.log.Debug().Str("file", rel).Msg("skipping non-SVG file")
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return result, &WriteError{Path: req.OutputDir, Err: err}
	}

	if len(scan.Sources) == 0 {
		c.log.Warn().Str("input", req.InputDir).Msg("no SVG files found in the input directory")
		result.Elapsed = time.Since(result.StartedAt)
		return result, nil
	}
	c.log.Info().Int("count", len(scan.Sources)).Msg("found SVG files to convert")

	owners := make(map[string]string)
	for _, src := range scan.Sources {
		outputs, failures := c.convertSource(ctx, src, req.Sizes, req.OutputDir, owners)
		result.Outputs = append(result.Outputs, outputs...)
		result.Failures = append(result.Failures, failures...)
		if len(outputs) > 0 {
			result.Converted++
		}
		if len(failures) > 0 {
			result.FilesFailed++
			if c.cfg.FailFast {
				result.Elapsed = time.Since(result.StartedAt)
				c.logSummary(result)
				return result, failures[0].Err
			}
		}
	}

	result.Elapsed = time.Since(result.StartedAt)
	c.logSummary(result)
	return result, nil
}

// ConvertSource renders src at each size and writes the PNGs under
// outputDir. It returns the written paths and the failed sizes. With
// FailFast it stops at the first failure.
func (c *Converter) ConvertSource(ctx context.Context, src SourceFile, sizes []int, outputDir string) (outputs []string, failures []Failure) {
	return c.convertSource(ctx, src, sizes, outputDir, make(map[string]string))
}

// convertSource is ConvertSource with an output ownership table shared
// across a batch. A path already owned by another source is not
// overwritten; the conflicting size is recorded as a write failure.
func (c *Converter) convertSource(ctx context.Context, src SourceFile, sizes []int, outputDir string, owners map[string]string) (outputs []string, failures []Failure) {
	data, readErr := readSource(src.Path)

	for _, size := range sizes {
		var err error
		out := OutputPath(outputDir, src, size, c.cfg.NameFormat)
		switch owner, taken := owners[out]; {
		case taken:
			err = &WriteError{Path: out, Err: fmt.Errorf("%w %s", errOutputConflict, owner)}
		case readErr != nil:
			owners[out] = src.Rel
			err = &RenderError{Source: src.Rel, Size: size, Err: readErr}
		default:
			owners[out] = src.Rel
			err = c.convertOne(ctx, data, src, size, out)
		}

		if err != nil {
			f := newFailure(src.Rel, size, err)
			c.log.Error().
				Err(err).
				Str("source", src.Rel).
				Int("size", size).
				Str("kind", string(f.Kind)).
				Msg("failed")
			failures = append(failures, f)
			if c.cfg.FailFast {
				return outputs, failures
			}
			continue
		}

		c.log.Info().
			Str("source", src.Rel).
			Int("size", size).
			Str("output", out).
			Msg("converted")
		outputs = append(outputs, out)
	}
	return outputs, failures
}

func (c *Converter) convertOne(ctx context.Context, data []byte, src SourceFile, size int, outPath string) error {
	img, err := c.rasterizer.Rasterize(ctx, data, size)
	if err != nil {
		return &RenderError{Source: src.Rel, Size: size, Err: err}
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		return &RenderError{
			Source: src.Rel,
			Size:   size,
			Err:    fmt.Errorf("%s returned %dx%d", c.rasterizer.Name(), b.Dx(), b.Dy()),
		}
	}
	if err := writePNG(outPath, img); err != nil {
		return &WriteError{Path: outPath, Err: err}
	}
	return nil
}

// readSource loads an SVG file, rejecting content that sniffs as a known
// binary format (a PNG saved with a .svg name, for example).
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		return nil, fmt.Errorf("%w: detected %s", errNotVector, kind.MIME.Value)
	}
	return data, nil
}

// writePNG encodes img to a temp file next to path and renames it into place,
// so a failed write never leaves a truncated PNG behind.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".svg2png-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encErr := png.Encode(tmpFile, img)
	closeErr := tmpFile.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encoding PNG: %w", encErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (c *Converter) logSummary(r BatchResult) {
	c.log.Info().
		Int("total_files", r.TotalFiles).
		Int("svg_files", r.SourceFiles).
		Int("converted", r.Converted).
		Int("png_files_created", len(r.Outputs)).
		Int("non_svg_skipped", r.SkippedFiles).
		Int("failed", len(r.Failures)).
		Ints("sizes", r.Sizes).
		Dur("elapsed", r.Elapsed).
		Msg("conversion summary")
}
