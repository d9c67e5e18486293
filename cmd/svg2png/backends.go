package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/svg2png/internal/external"
	"github.com/pdiddy/svg2png/pkg/types"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List rasterizer backends and external renderers",
	Long: `Backends lists the rasterizers convert can use. The oksvg backend is built
in; the command backend needs rsvg-convert or inkscape on PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-30s %s\n", types.BackendOksvg, "available (built in)")
		for _, t := range external.Tools() {
			status := "not found"
			if t.Available() {
				status = "available"
			}
			fmt.Fprintf(out, "%-30s %s\n", string(types.BackendCommand)+" --command "+t.Name(), status)
		}
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
