// Package config provides configuration management for weave.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/weavefmt/weave/pkg/dispatch"
)

// Config represents the complete weave project configuration: which
// grammars back which languages, which formatters are available, and
// which formatter chain runs for each language.
type Config struct {
	PrintWidth uint32 `toml:"print_width"`

	// Grammars maps a language tag (as it appears in an injection.language
	// capture, or the --lang flag) to a loadable grammar description.
	Grammars map[string]GrammarConfig `toml:"grammar"`

	// Formatters maps a formatter name to how it is invoked.
	Formatters map[string]FormatterConfig `toml:"formatter"`

	// Languages maps a language tag to the ordered chain of formatter
	// names that run for it. Only the chain's first entry actually runs
	// (dispatch.Run does not pipe output between formatters); later
	// entries document a fallback order for future chain support.
	Languages map[string][]string `toml:"languages"`
}

// GrammarConfig describes where to load a tree-sitter grammar from and
// which injection query to run against its parse trees.
type GrammarConfig struct {
	// LibraryPath is the path to a compiled tree-sitter grammar shared
	// object (a .so exposing tree_sitter_<name>). Grammars are not loaded
	// from it: for a language not compiled into weave, setting it makes
	// ts.NewRegistry fail.
	LibraryPath string `toml:"library_path"`

	// InjectionQueryPath points to a .scm file holding the injection
	// query for this language. Without it the grammar has an empty query
	// and locates no injected regions; no grammar ships a query of its own.
	InjectionQueryPath string `toml:"injection_query_path"`
}

// FormatterConfig describes how to invoke one named formatter.
type FormatterConfig struct {
	// Command and Args mirror dispatch.Spec for an external formatter.
	// Leave Command empty to reference one of weave's builtin in-process
	// formatters by name instead (see pkg/formatters).
	Command      string   `toml:"command"`
	Args         []string `toml:"args"`
	UseStdin     *bool    `toml:"use_stdin"`
	FailOnStderr bool     `toml:"fail_on_stderr"`
}

// DefaultConfig returns the configuration weave runs with when no
// weave.toml-style file or override narrows it further.
func DefaultConfig() *Config {
	return &Config{
		PrintWidth: 80,
		Grammars:   map[string]GrammarConfig{},
		Formatters: map[string]FormatterConfig{},
		Languages:  map[string][]string{},
	}
}

// Load loads configuration from multiple sources with precedence:
//  1. overrides (highest priority, typically CLI flags)
//  2. project weave.toml (current directory)
//  3. user config (~/.weave/config.toml)
//  4. built-in defaults (lowest priority)
func Load(overrides *Config) (*Config, error) {
	cfg := DefaultConfig()

	userConfigPath := filepath.Join(os.Getenv("HOME"), ".weave", "config.toml")
	if err := loadConfigFile(userConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	projectConfigPath := "weave.toml"
	if err := loadConfigFile(projectConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if overrides != nil {
		if overrides.PrintWidth != 0 {
			cfg.PrintWidth = overrides.PrintWidth
		}
		for lang, g := range overrides.Grammars {
			cfg.Grammars[lang] = g
		}
		for name, f := range overrides.Formatters {
			cfg.Formatters[name] = f
		}
		for lang, chain := range overrides.Languages {
			cfg.Languages[lang] = chain
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadConfigFile merges a TOML configuration file into cfg. A missing
// file is not an error; callers fall back to what cfg already holds.
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

// Validate checks that every formatter chain referenced under Languages
// names a formatter that is actually configured.
func (c *Config) Validate() error {
	if c.PrintWidth == 0 {
		return fmt.Errorf("print_width must be greater than zero")
	}

	for lang, chain := range c.Languages {
		for _, name := range chain {
			if _, ok := c.Formatters[name]; !ok {
				return fmt.Errorf("language %q references undefined formatter %q", lang, name)
			}
		}
	}

	return nil
}

// LanguageFormatters builds a dispatch.LanguageFormatters view of the
// configured chains, ready to hand to driver.Context.
func (c *Config) LanguageFormatters() dispatch.LanguageFormatters {
	out := make(dispatch.LanguageFormatters, len(c.Languages))
	for lang, chain := range c.Languages {
		out[lang] = append([]string(nil), chain...)
	}
	return out
}

// DispatchSpec converts a configured external formatter into the Spec
// shape dispatch.Run expects. ok is false when the formatter has no
// Command set, meaning it is expected to be a builtin registered by
// name instead (see pkg/formatters and its registry builder).
func (f FormatterConfig) DispatchSpec() (dispatch.Spec, bool) {
	if f.Command == "" {
		return dispatch.Spec{}, false
	}
	useStdin := true
	if f.UseStdin != nil {
		useStdin = *f.UseStdin
	}
	return dispatch.Spec{
		Cmd:          f.Command,
		Args:         append([]string(nil), f.Args...),
		Stdin:        useStdin,
		FailOnStderr: f.FailOnStderr,
	}, true
}
