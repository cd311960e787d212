package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weavefmt/weave/pkg/config"
	"github.com/weavefmt/weave/pkg/ui"
)

func grammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List configured languages and formatters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return err
			}
			return runGrammars(cfg)
		},
	}
}

func runGrammars(cfg *config.Config) error {
	langs := make([]string, 0, len(cfg.Languages))
	for lang := range cfg.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	if len(langs) == 0 {
		fmt.Println("No languages configured. Add a [languages] table to weave.toml.")
		return nil
	}

	rows := make([][]string, 0, len(langs))
	for _, lang := range langs {
		rows = append(rows, []string{lang, strings.Join(cfg.Languages[lang], " -> ")})
	}

	fmt.Println(ui.Table(rows))
	return nil
}
