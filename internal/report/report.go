// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML summary of a conversion run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/svg2png/internal/convert"
	"github.com/pdiddy/svg2png/pkg/types"
)

// Report is the on-disk form of a conversion run.
type Report struct {
	StartedAt time.Time `yaml:"started_at"`
	Elapsed   string    `yaml:"elapsed"`
	InputDir  string    `yaml:"input_dir"`
	OutputDir string    `yaml:"output_dir"`
	Sizes     []int     `yaml:"sizes"`
	Backend   string    `yaml:"backend"`
	Counts    Counts    `yaml:"counts"`
	Outputs   []string  `yaml:"outputs,omitempty"`
	Failures  []Failure `yaml:"failures,omitempty"`
}

// Counts mirrors the summary counters of convert.BatchResult.
type Counts struct {
	TotalFiles      int `yaml:"total_files"`
	SVGFiles        int `yaml:"svg_files"`
	Converted       int `yaml:"converted"`
	PNGFilesCreated int `yaml:"png_files_created"`
	NonSVGSkipped   int `yaml:"non_svg_skipped"`
	FilesFailed     int `yaml:"files_failed"`
	Failures        int `yaml:"failures"`
}

// Failure is one failed (source, size) conversion.
type Failure struct {
	Source string `yaml:"source"`
	Size   int    `yaml:"size"`
	Kind   string `yaml:"kind"`
	Error  string `yaml:"error"`
}

// FromResult builds a Report for a finished run.
func FromResult(req types.ConversionRequest, backend string, r convert.BatchResult) Report {
	rep := Report{
		StartedAt: r.StartedAt.UTC().Truncate(time.Second),
		Elapsed:   r.Elapsed.Round(time.Millisecond).String(),
		InputDir:  req.InputDir,
		OutputDir: req.OutputDir,
		Sizes:     r.Sizes,
		Backend:   backend,
		Counts: Counts{
			TotalFiles:      r.TotalFiles,
			SVGFiles:        r.SourceFiles,
			Converted:       r.Converted,
			PNGFilesCreated: len(r.Outputs),
			NonSVGSkipped:   r.SkippedFiles,
			FilesFailed:     r.FilesFailed,
			Failures:        len(r.Failures),
		},
		Outputs: r.Outputs,
	}
	if rep.Sizes == nil {
		rep.Sizes = req.Sizes
	}
	for _, f := range r.Failures {
		rep.Failures = append(rep.Failures, Failure{
			Source: f.Source,
			Size:   f.Size,
			Kind:   string(f.Kind),
			Error:  f.Err.Error(),
		})
	}
	return rep
}

// Write marshals rep to path, creating parent directories as needed.
func Write(path string, rep Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
