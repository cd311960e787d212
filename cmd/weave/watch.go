package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/weavefmt/weave/pkg/config"
	"github.com/weavefmt/weave/pkg/driver"
	"github.com/weavefmt/weave/pkg/ui"
)

func watchCmd() *cobra.Command {
	var (
		language   string
		printWidth uint32
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-format a file on every change",
		Long: `Watch formats file once, then re-formats it in place every time it changes
on disk, until interrupted.

Example:
  weave watch --lang javascript app.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if language == "" {
				return fmt.Errorf("--lang is required")
			}
			return runWatch(args[0], language, printWidth, verbose)
		},
	}

	cmd.Flags().StringVar(&language, "lang", "", "Host document language (required)")
	cmd.Flags().Uint32Var(&printWidth, "print-width", 80, "Target print width for formatters that honor one")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log formatter invocations and timings to stderr")

	return cmd
}

func runWatch(path, language string, printWidth uint32, verbose bool) error {
	cfg, err := config.Load(&config.Config{PrintWidth: printWidth})
	if err != nil {
		return err
	}
	fc, err := buildContext(cfg, verbose)
	if err != nil {
		return err
	}

	out := ui.NewFormatOutput()
	out.PrintHeader(version)

	formatOnce := func() {
		source, err := os.ReadFile(path)
		if err != nil {
			out.PrintError(err.Error())
			return
		}

		start := time.Now()
		formatted, err := driver.Format(context.Background(), source, driver.Opts{
			Language:   language,
			PrintWidth: printWidth,
		}, false, fc)
		if err != nil {
			out.PrintStep(ui.Step{Name: path, Status: ui.StepError, Duration: time.Since(start), Message: describeFormatError(path, source, err)})
			return
		}

		if err := os.WriteFile(path, formatted, 0o644); err != nil {
			out.PrintError(err.Error())
			return
		}
		out.PrintStep(ui.Step{Name: path, Status: ui.StepSuccess, Duration: time.Since(start)})
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	formatOnce()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				formatOnce()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			out.PrintError(err.Error())
		}
	}
}
