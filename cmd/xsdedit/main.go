package main

import (
	"os"

	"github.com/SaeedKokash/xsd-editor-app/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.ParseCmd())
	rootCmd.AddCommand(commands.GenerateCmd())
	rootCmd.AddCommand(commands.ValidateCmd())
	rootCmd.AddCommand(commands.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
