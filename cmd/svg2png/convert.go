package main

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svg2png/internal/convert"
	"github.com/pdiddy/svg2png/internal/render"
	"github.com/pdiddy/svg2png/internal/report"
	"github.com/pdiddy/svg2png/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT_DIR OUTPUT_DIR [SIZE...]",
	Short: "Convert every SVG file in a directory to PNG",
	Long: `Convert renders each .svg file in INPUT_DIR to OUTPUT_DIR once per size.
Sizes are square pixel dimensions given as trailing arguments or with --sizes;
without either, the configured sizes (default 1024) are used.

Output files are named by --name-format, {name}-{size}.png by default, and are
overwritten if they exist. A file that fails to render is logged and skipped;
the command exits non-zero if any conversion failed.

Examples:
  svg2png convert icons/ png/ 16 32 64
  svg2png convert icons/ png/ --sizes 1024,256,128 --fit contain
  svg2png convert icons/ png/ --backend command --command rsvg-convert`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConvert,
}

func init() {
	d := types.DefaultConversionConfig()
	f := convertCmd.Flags()
	f.IntSlice("sizes", nil, "output sizes in pixels, comma-separated (default 1024)")
	f.String("backend", string(d.Backend), "rasterizer backend: oksvg or command")
	f.String("command", "", "renderer for the command backend: rsvg-convert or inkscape (default: detect)")
	f.String("fit", string(d.Fit), "how the drawing fills the square output: stretch or contain")
	f.String("background", "", "background colour as hex, e.g. #ffffff (default: transparent)")
	f.Int("supersample", d.Supersample, "render at N times the size and downscale (1-8)")
	f.String("error-mode", string(d.ErrorMode), "SVG parse strictness: ignore, warn, or strict")
	f.String("name-format", d.NameFormat, "output file name; {name} and {size} are replaced")
	f.Bool("recursive", false, "descend into sub-directories and mirror them in the output")
	f.Bool("ignore-case", false, "match the .svg extension case-insensitively")
	f.Bool("fail-fast", false, "stop at the first failed conversion")
	f.String("report", "", "write a YAML run report to this path")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	sizes, err := requestSizes(cmd, args[2:], cfg.Sizes)
	if err != nil {
		return err
	}
	req := types.ConversionRequest{InputDir: args[0], OutputDir: args[1], Sizes: sizes}

	log, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	// oksvg reports warnings through the standard logger.
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.With().Str("component", "oksvg").Logger())

	cmd.SilenceUsage = true

	rasterizer, err := render.New(cfg)
	if err != nil {
		return err
	}

	conv := convert.New(rasterizer, cfg, log)
	result, runErr := conv.Run(cmd.Context(), req)

	if cfg.Report != "" {
		rep := report.FromResult(req, rasterizer.Name(), result)
		if err := report.Write(cfg.Report, rep); err != nil {
			log.Error().Err(err).Msg("writing report")
			if runErr == nil {
				runErr = err
			}
		} else {
			log.Info().Str("path", cfg.Report).Msg("report written")
		}
	}

	if runErr != nil {
		return fmt.Errorf("conversion failed: %w", runErr)
	}
	if result.HasFailures() {
		return fmt.Errorf("%d conversion(s) failed in %d file(s)", len(result.Failures), result.FilesFailed)
	}
	return nil
}

// requestSizes merges positional sizes with an explicit --sizes flag. When
// the command line names no sizes, the configured ones are used.
func requestSizes(cmd *cobra.Command, positional []string, configured []int) ([]int, error) {
	sizes, err := types.ParseSizes(positional)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("sizes") {
		flagSizes, err := cmd.Flags().GetIntSlice("sizes")
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, flagSizes...)
	}
	if len(sizes) == 0 {
		return configured, nil
	}
	return sizes, nil
}
