// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the svg2png CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the svg2png CLI.
var rootCmd = &cobra.Command{
	Use:   "svg2png",
	Short: "Convert directories of SVG files to PNG at one or more sizes",
	Long: `svg2png renders every SVG file in a directory to square PNG files, once
per requested pixel size. Rendering is done in-process with oksvg, or by an
external renderer (rsvg-convert or inkscape) with --backend command.

Settings can also come from svg2png.yaml or SVG2PNG_* environment variables;
command-line flags take precedence.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./svg2png.yaml or ~/.config/svg2png/svg2png.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, or error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("svg2png")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "svg2png"))
		}
	}

	viper.SetEnvPrefix("SVG2PNG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
