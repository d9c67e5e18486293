// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultSize is the output size used when a request names none.
	DefaultSize = 1024
	// MinSize and MaxSize bound every requested output size, in pixels.
	MinSize = 1
	MaxSize = 4096

	// DefaultNameFormat turns icon.svg at 32px into icon-32.png.
	DefaultNameFormat = "{name}-{size}.png"

	nameToken = "{name}"
	sizeToken = "{size}"
)

// ConversionRequest names the directories and sizes for one converter run.
type ConversionRequest struct {
	// InputDir holds the SVG sources. It must exist.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives the PNG files. It is created if missing.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Sizes lists the square output dimensions in pixels, in request order.
	Sizes []int `json:"sizes" yaml:"sizes" mapstructure:"sizes"`
}

// Normalize returns a copy of r with default sizes applied and duplicate
// sizes removed (first occurrence wins). It fails if any size is outside
// [MinSize, MaxSize] or either directory is empty.
func (r ConversionRequest) Normalize() (ConversionRequest, error) {
	if r.InputDir == "" {
		return r, fmt.Errorf("input directory is required")
	}
	if r.OutputDir == "" {
		return r, fmt.Errorf("output directory is required")
	}

	out := r
	if len(r.Sizes) == 0 {
		out.Sizes = []int{DefaultSize}
		return out, nil
	}

	seen := make(map[int]bool, len(r.Sizes))
	sizes := make([]int, 0, len(r.Sizes))
	for _, s := range r.Sizes {
		if s < MinSize || s > MaxSize {
			return r, fmt.Errorf("size %d is out of valid range (%d-%d)", s, MinSize, MaxSize)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		sizes = append(sizes, s)
	}
	out.Sizes = sizes
	return out, nil
}

// ParseSizes converts command-line size arguments ("32", "64px") to ints.
func ParseSizes(args []string) ([]int, error) {
	sizes := make([]int, 0, len(args))
	for _, a := range args {
		v := strings.TrimSuffix(strings.TrimSpace(a), "px")
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: must be a positive integer", a)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// ValidateNameFormat checks that format names both the source and the size
// and stays inside the output directory.
func ValidateNameFormat(format string) error {
	if !strings.Contains(format, nameToken) || !strings.Contains(format, sizeToken) {
		return fmt.Errorf("name format %q must contain both %s and %s", format, nameToken, sizeToken)
	}
	if strings.ContainsAny(format, `/\`) {
		return fmt.Errorf("name format %q must not contain a path separator", format)
	}
	return nil
}

// ExpandName fills the {name} and {size} placeholders of format.
func ExpandName(format, name string, size int) string {
	return strings.NewReplacer(nameToken, name, sizeToken, strconv.Itoa(size)).Replace(format)
}
