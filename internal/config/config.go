// Package config loads schema-merge settings from JSONC files and CLI flags.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Base       []string `json:"base,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
	Output     string   `json:"output,omitempty"`
	Header     string   `json:"header,omitempty"`
	BlockKinds []string `json:"block_kinds,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	OutputAbs    string `json:"-"` // Absolute path of the output file

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultOutput is where the merged schema goes unless configured otherwise.
const DefaultOutput = "prisma/schema.prisma"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Output: DefaultOutput,
	}
}

// FileName is the project config file name.
const FileName = ".schema-merge.json"

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/schema-merge/config.json if set, otherwise
// ~/.config/schema-merge/config.json. Returns "" if neither is known.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "schema-merge", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "schema-merge", "config.json")
	}

	return ""
}

// Overrides are CLI flag values. Nil or empty fields leave the loaded value
// alone.
type Overrides struct {
	Base       []string
	Decorators []string
	Output     *string
	Header     *string
	BlockKinds []string
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Overrides       Overrides         // merge command flags
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/schema-merge/config.json)
// 3. Project config file (.schema-merge.json, if it exists)
// 4. Explicit config file via ConfigPath (replaces 3, must exist)
// 5. CLI overrides.
//
// Source locators stay relative; they are resolved against EffectiveCwd when
// loaded. OutputAbs is absolute.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}

		workDir = abs
	}

	cfg := DefaultConfig()

	globalCfg, globalFile, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalFile
	cfg = merge(cfg, globalCfg)

	projectCfg, projectFile, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectFile
	cfg = apply(merge(cfg, projectCfg), input.Overrides)

	if cfg.Output == "" {
		return Config{}, ErrOutputEmpty
	}

	err = Validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.Output) {
		cfg.OutputAbs = filepath.Clean(cfg.Output)
	} else {
		cfg.OutputAbs = filepath.Join(workDir, cfg.Output)
	}

	return cfg, nil
}

// loadGlobal loads the global user config file if it exists.
func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads .schema-merge.json from workDir, or the explicit config
// file when configPath is set.
func loadProject(workDir, configPath string) (Config, string, error) {
	path := filepath.Join(workDir, FileName)
	mustExist := false

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		_, statErr := os.Stat(path)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	cfg, loaded, err := loadFile(path, mustExist)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile loads a config file. If mustExist is false, a missing file returns
// a zero config and loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	err = Validate(cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// Parse decodes JSONC (comments and trailing commas allowed). Unknown keys
// are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	var cfg Config

	err = dec.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if len(overlay.Base) > 0 {
		base.Base = overlay.Base
	}

	if len(overlay.Decorators) > 0 {
		base.Decorators = overlay.Decorators
	}

	if overlay.Output != "" {
		base.Output = overlay.Output
	}

	if overlay.Header != "" {
		base.Header = overlay.Header
	}

	if len(overlay.BlockKinds) > 0 {
		base.BlockKinds = overlay.BlockKinds
	}

	return base
}

func apply(cfg Config, o Overrides) Config {
	if len(o.Base) > 0 {
		cfg.Base = o.Base
	}

	if len(o.Decorators) > 0 {
		cfg.Decorators = o.Decorators
	}

	if o.Output != nil {
		cfg.Output = *o.Output
	}

	if o.Header != nil {
		cfg.Header = *o.Header
	}

	if len(o.BlockKinds) > 0 {
		cfg.BlockKinds = o.BlockKinds
	}

	return cfg
}

// Validate checks the header and block kinds of cfg.
func Validate(cfg Config) error {
	if strings.ContainsAny(cfg.Header, "\r\n") {
		return ErrHeaderMultiline
	}

	for _, kind := range cfg.BlockKinds {
		if kind == "" || strings.ContainsAny(kind, " \t\r\n{}") {
			return fmt.Errorf("%w: %q", ErrBlockKindInvalid, kind)
		}
	}

	return nil
}

// Format renders cfg as indented JSON, as it would appear in a config file.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	return string(data), nil
}
