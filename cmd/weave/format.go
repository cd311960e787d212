package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weavefmt/weave/pkg/config"
	"github.com/weavefmt/weave/pkg/driver"
)

func formatCmd() *cobra.Command {
	var (
		language            string
		printWidth          uint32
		injectedRegionsOnly bool
		write               bool
		verbose             bool
	)

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Format a file or stdin",
		Long: `Format reads a host document, locates any injected-language regions via
tree-sitter, and formats the document and each region in place.

With no file argument, format reads from stdin and writes to stdout.

Example:
  weave format --lang javascript app.js
  cat app.js | weave format --lang javascript
  weave format --lang markdown --injected-regions-only README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if language == "" {
				return fmt.Errorf("--lang is required")
			}
			return runFormat(args, language, printWidth, injectedRegionsOnly, write, verbose)
		},
	}

	cmd.Flags().StringVar(&language, "lang", "", "Host document language (required)")
	cmd.Flags().Uint32Var(&printWidth, "print-width", 80, "Target print width for formatters that honor one")
	cmd.Flags().BoolVar(&injectedRegionsOnly, "injected-regions-only", false, "Format injected regions without running the host document's own formatter")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the input file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log formatter invocations and timings to stderr")

	return cmd
}

func runFormat(args []string, language string, printWidth uint32, injectedRegionsOnly, write, verbose bool) error {
	cfg, err := config.Load(&config.Config{PrintWidth: printWidth})
	if err != nil {
		return err
	}

	fc, err := buildContext(cfg, verbose)
	if err != nil {
		return err
	}

	var (
		source []byte
		path   string
	)
	if len(args) == 1 {
		path = args[0]
		source, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	out, err := driver.Format(context.Background(), source, driver.Opts{
		Language:   language,
		PrintWidth: printWidth,
	}, injectedRegionsOnly, fc)
	if err != nil {
		fmt.Fprint(os.Stderr, describeFormatError(path, source, err))
		return fmt.Errorf("format failed")
	}

	if write && path != "" {
		if bytes.Equal(source, out) {
			return nil
		}
		info, err := os.Stat(path)
		mode := os.FileMode(0o644)
		if err == nil {
			mode = info.Mode()
		}
		return os.WriteFile(path, out, mode)
	}

	_, err = os.Stdout.Write(out)
	return err
}
