// Package main implements the weave CLI
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weavefmt/weave/pkg/ui"
)

var version = "0.1.0-alpha"

func main() {
	rootCmd := &cobra.Command{
		Use:          "weave",
		Short:        "weave - format embedded languages in place",
		Long:         `weave locates injected-language regions inside a host document and formats each one in place, recursively, through whichever formatter that language is configured to use.`,
		Version:      version,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintWeaveHelp(version)
		},
	}

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		ui.PrintWeaveHelp(version)
	})
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintWeaveHelp(version)
		},
	})

	rootCmd.AddCommand(formatCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(grammarsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of weave",
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintVersionInfo(version)
		},
	}
}
