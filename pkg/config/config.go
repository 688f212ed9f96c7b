// Package config loads the ambient settings that are not part of a single
// evaluation: the recursion depth ceiling and the default output style. It
// is optional — a JSON++ document runs fine with no config file present.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings read from a .jsonpp.yaml file, if present.
type Config struct {
	// MaxDepth overrides the evaluator's recursion/call-stack ceiling.
	// Zero means "use the evaluator's built-in default".
	MaxDepth int `yaml:"maxDepth"`

	// Indent, if non-empty, switches the CLI's default output from
	// compact JSON to indented JSON using this string per nesting level.
	Indent string `yaml:"indent"`

	// Strict is parsed but not yet consulted anywhere; reserved for future
	// import/include target-extension filtering.
	Strict bool `yaml:"strict"`
}

// Default returns the zero-value Config, which instructs every stage to
// fall back to its own built-in default.
func Default() Config { return Config{} }

// Load reads and parses a YAML config file at path. A missing file is not
// an error: Load returns Default() unchanged.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.MaxDepth < 0 {
		return Config{}, fmt.Errorf("config: maxDepth must be >= 0, got %d", cfg.MaxDepth)
	}
	return cfg, nil
}
