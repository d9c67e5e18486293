// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/svg2png/pkg/types"
)

const svgExt = ".svg"

// SourceFile is an SVG file found in the input directory.
type SourceFile struct {
	// Path is the file path, rooted at the input directory as given.
	Path string
	// Rel is the path relative to the input directory.
	Rel string
}

// Stem returns the file name without directory or extension.
func (s SourceFile) Stem() string {
	base := filepath.Base(s.Rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan is the outcome of listing the input directory.
type Scan struct {
	Sources []SourceFile
	// Total counts every regular file seen, matching or not.
	Total int
	// Skipped lists the relative paths of non-SVG files.
	Skipped []string
}

// Discover lists inputDir and returns its SVG files sorted by relative path.
// The extension must be exactly ".svg" unless ignoreCase is set. With
// recursive, sub-directories are walked too. A missing input directory
// yields ErrDirectoryNotFound.
func Discover(inputDir string, recursive, ignoreCase bool) (Scan, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return Scan{}, fmt.Errorf("%w: %s: %v", ErrDirectoryNotFound, inputDir, err)
	}
	if !info.IsDir() {
		return Scan{}, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, inputDir)
	}

	var scan Scan
	visit := func(path string, d fs.DirEntry) error {
		if !isRegular(path, d) {
			return nil
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		scan.Total++
		if !isSVG(d.Name(), ignoreCase) {
			scan.Skipped = append(scan.Skipped, rel)
			return nil
		}
		scan.Sources = append(scan.Sources, SourceFile{Path: path, Rel: rel})
		return nil
	}

	if recursive {
		err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			return visit(path, d)
		})
	} else {
		var entries []fs.DirEntry
		entries, err = os.ReadDir(inputDir)
		if err == nil {
			for _, e := range entries {
				if err = visit(filepath.Join(inputDir, e.Name()), e); err != nil {
					break
				}
			}
		}
	}
	if err != nil {
		return Scan{}, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	sort.Slice(scan.Sources, func(i, j int) bool {
		return scan.Sources[i].Rel < scan.Sources[j].Rel
	})
	return scan, nil
}

// isRegular reports whether d is a regular file, following symlinks.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isSVG(name string, ignoreCase bool) bool {
	ext := filepath.Ext(name)
	if ext == name {
		return false
	}
	if ignoreCase {
		return strings.EqualFold(ext, svgExt)
	}
	return ext == svgExt
}

// OutputPath returns where src is written at size: the source's relative
// directory under outputDir, named by format.
func OutputPath(outputDir string, src SourceFile, size int, format string) string {
	if format == "" {
		format = types.DefaultNameFormat
	}
	return filepath.Join(outputDir, filepath.Dir(src.Rel), types.ExpandName(format, src.Stem(), size))
}
