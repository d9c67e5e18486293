package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/svg2png/pkg/types"
)

// bindFlags binds every flag in fs to v under its snake_case key, so
// --name-format, SVG2PNG_NAME_FORMAT and name_format: all set the same value.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return err
}

// loadConfig decodes v into a validated ConversionConfig, starting from the
// defaults.
func loadConfig(v *viper.Viper) (types.ConversionConfig, error) {
	cfg := types.DefaultConversionConfig()
	hook := mapstructure.ComposeDecodeHookFunc(
		sizeListHook,
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Supersample == 0 {
		cfg.Supersample = 1
	}
	if cfg.NameFormat == "" {
		cfg.NameFormat = types.DefaultNameFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// sizeListHook decodes "16, 32 64px" from an env var or config string into
// a size list.
func sizeListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]int(nil)) {
		return data, nil
	}
	fields := strings.FieldsFunc(data.(string), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return types.ParseSizes(fields)
}

// newLogger builds the console logger used by every command.
func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: want debug, info, warn, or error", s)
	}
	return lvl, nil
}
