// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package external detects and runs command-line SVG renderers
// (rsvg-convert, inkscape). Each tool reads SVG on stdin and writes PNG on
// stdout.
package external

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

const (
	BinRsvgConvert = "rsvg-convert"
	BinInkscape    = "inkscape"
)

// Tool renders SVG to PNG through an external binary.
type Tool interface {
	// Name returns the binary name.
	Name() string

	// Available reports whether the binary exists on PATH and answers
	// a version query.
	Available() bool

	// Render reads SVG from svg and writes a width x height PNG to out.
	// With keepAspect the tool is asked to preserve the drawing's aspect
	// ratio, so the PNG may be smaller along one axis.
	Render(ctx context.Context, svg io.Reader, width, height int, keepAspect bool, out io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// tool implements Tool for one renderer binary. The binaries differ only in
// name and in how the output size is passed on the command line.
type tool struct {
	bin  string
	args func(width, height int, keepAspect bool) []string
	exec executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	return t.exec.RunSilent(t.bin, "--version") == nil
}

func (t *tool) Render(ctx context.Context, svg io.Reader, width, height int, keepAspect bool, out io.Writer) error {
	var stderr bytes.Buffer
	if err := t.exec.RunPiped(ctx, t.bin, t.args(width, height, keepAspect), svg, out, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", t.bin, err, msg)
		}
		return fmt.Errorf("running %s: %w", t.bin, err)
	}
	return nil
}

func rsvgArgs(width, height int, keepAspect bool) []string {
	args := []string{
		"--format=png",
		"--width=" + strconv.Itoa(width),
		"--height=" + strconv.Itoa(height),
	}
	if keepAspect {
		args = append(args, "--keep-aspect-ratio")
	}
	return args
}

// inkscapeArgs stretches to width x height when both are given. With
// keepAspect only the width is passed and inkscape derives the height from
// the drawing, so the result may be taller or shorter than requested.
func inkscapeArgs(width, height int, keepAspect bool) []string {
	args := []string{
		"--pipe",
		"--export-type=png",
		"--export-filename=-",
		"--export-width=" + strconv.Itoa(width),
	}
	if !keepAspect {
		args = append(args, "--export-height="+strconv.Itoa(height))
	}
	return args
}

func newRsvgConvert(exec executor) *tool {
	return &tool{bin: BinRsvgConvert, args: rsvgArgs, exec: exec}
}

func newInkscape(exec executor) *tool {
	return &tool{bin: BinInkscape, args: inkscapeArgs, exec: exec}
}

var defaultExec = &osExecutor{}

// Tools returns every known renderer, in detection order.
func Tools() []Tool {
	return tools(defaultExec)
}

func tools(exec executor) []Tool {
	return []Tool{newRsvgConvert(exec), newInkscape(exec)}
}

// DetectTool tries rsvg-convert first and falls back to inkscape. It returns
// an error if neither is available.
func DetectTool() (Tool, error) {
	return detectTool(defaultExec)
}

func detectTool(exec executor) (Tool, error) {
	for _, t := range tools(exec) {
		if t.Available() {
			return t, nil
		}
	}
	return nil, fmt.Errorf(
		"no SVG renderer available: neither %s nor %s found or operational",
		BinRsvgConvert, BinInkscape,
	)
}

// LookupTool returns the named renderer if it is available. An empty name
// behaves like DetectTool.
func LookupTool(name string) (Tool, error) {
	return lookupTool(defaultExec, name)
}

func lookupTool(exec executor, name string) (Tool, error) {
	if name == "" {
		return detectTool(exec)
	}
	for _, t := range tools(exec) {
		if t.Name() != name {
			continue
		}
		if !t.Available() {
			return nil, fmt.Errorf("SVG renderer %s not found or not operational", name)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown SVG renderer %q: want %s or %s", name, BinRsvgConvert, BinInkscape)
}
