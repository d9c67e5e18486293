package types

import "fmt"

// Backend identifies the rasterizer used to render SVG sources.
type Backend string

const (
	// BackendOksvg renders in-process with oksvg and rasterx.
	BackendOksvg Backend = "oksvg"
	// BackendCommand pipes each source through an external renderer binary.
	BackendCommand Backend = "command"
)

// FitMode controls how the SVG viewBox is mapped onto the square output.
type FitMode string

const (
	// FitStretch scales the drawing to fill the whole canvas.
	FitStretch FitMode = "stretch"
	// FitContain keeps the aspect ratio and centres the drawing.
	FitContain FitMode = "contain"
)

// ErrorMode sets how strictly unsupported SVG features are treated.
type ErrorMode string

const (
	ErrorModeIgnore ErrorMode = "ignore"
	ErrorModeWarn   ErrorMode = "warn"
	ErrorModeStrict ErrorMode = "strict"
)

// ConversionConfig holds the per-run settings of the converter and its
// rasterizer. Values come from flags, SVG2PNG_* environment variables, or
// the config file, in that order of precedence.
type ConversionConfig struct {
	// Sizes is used when the command line names no sizes.
	Sizes []int `json:"sizes" yaml:"sizes" mapstructure:"sizes"`

	// Backend selects the rasterizer: oksvg or command.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Command overrides the external renderer binary for the command backend
	// (rsvg-convert or inkscape). Empty means detect.
	Command string `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`

	// Fit selects stretch or contain.
	Fit FitMode `json:"fit" yaml:"fit" mapstructure:"fit"`

	// Background is a hex colour painted under the drawing. Empty keeps
	// the output transparent.
	Background string `json:"background,omitempty" yaml:"background,omitempty" mapstructure:"background"`

	// Supersample renders at this multiple of the size and downscales.
	Supersample int `json:"supersample" yaml:"supersample" mapstructure:"supersample"`

	// ErrorMode is passed to the SVG parser.
	ErrorMode ErrorMode `json:"error_mode" yaml:"error_mode" mapstructure:"error_mode"`

	// NameFormat builds output file names from {name} and {size}.
	NameFormat string `json:"name_format" yaml:"name_format" mapstructure:"name_format"`

	// Recursive descends into sub-directories and mirrors them in the output.
	Recursive bool `json:"recursive" yaml:"recursive" mapstructure:"recursive"`

	// IgnoreCase matches .SVG and other case variants of the extension.
	IgnoreCase bool `json:"ignore_case" yaml:"ignore_case" mapstructure:"ignore_case"`

	// FailFast stops the batch at the first failed conversion.
	FailFast bool `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`

	// Report is an optional path for the YAML run report.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConversionConfig returns the settings used when nothing is configured.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Backend:     BackendOksvg,
		Fit:         FitStretch,
		Supersample: 1,
		ErrorMode:   ErrorModeIgnore,
		NameFormat:  DefaultNameFormat,
		LogLevel:    "info",
	}
}

// Validate reports the first invalid setting in c.
func (c ConversionConfig) Validate() error {
	switch c.Backend {
	case BackendOksvg, BackendCommand:
	default:
		return fmt.Errorf("unknown backend %q: want %s or %s", c.Backend, BackendOksvg, BackendCommand)
	}
	switch c.Fit {
	case FitStretch, FitContain:
	default:
		return fmt.Errorf("unknown fit %q: want %s or %s", c.Fit, FitStretch, FitContain)
	}
	switch c.ErrorMode {
	case ErrorModeIgnore, ErrorModeWarn, ErrorModeStrict:
	default:
		return fmt.Errorf("unknown error mode %q: want ignore, warn, or strict", c.ErrorMode)
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		return fmt.Errorf("supersample %d is out of valid range (1-8)", c.Supersample)
	}
	return ValidateNameFormat(c.NameFormat)
}
