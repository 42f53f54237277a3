// Package commands wires the xsdedit CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the xsdedit CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "xsdedit",
		Short: "Parse, edit, validate, and regenerate XSD schemas",
		Long: `xsdedit turns XSD schema text into an editable model and back.

It can:
  - parse an XSD file into a JSON schema model
  - regenerate XSD text from a (possibly edited) model
  - validate an XML instance against a schema
  - serve the same operations over HTTP`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
