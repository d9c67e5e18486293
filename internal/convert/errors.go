// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
)

// ErrDirectoryNotFound is returned when the input directory is missing or is
// not a directory.
var ErrDirectoryNotFound = errors.New("input directory not found")

// errNotVector marks a .svg source whose content sniffs as a binary format.
var errNotVector = errors.New("content is not SVG markup")

// errOutputConflict marks an output path that an earlier source in the
// batch already writes, e.g. a.svg and a.SVG with case-insensitive matching.
var errOutputConflict = errors.New("output path is already written by")

// RenderError reports that a source could not be rasterized at a size.
type RenderError struct {
	Source string
	Size   int
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s at %dpx: %v", e.Source, e.Size, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// WriteError reports that an output file could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FailureKind classifies a Failure.
type FailureKind string

const (
	FailureRender FailureKind = "render"
	FailureWrite  FailureKind = "write"
)

// Failure records one (source, size) pair that produced no output.
type Failure struct {
	Source string
	Size   int
	Kind   FailureKind
	Err    error
}

func newFailure(source string, size int, err error) Failure {
	kind := FailureRender
	var we *WriteError
	if errors.As(err, &we) {
		kind = FailureWrite
	}
	return Failure{Source: source, Size: size, Kind: kind, Err: err}
}
