// Package config loads the optional project file that holds default
// extraction settings, so a team can commit them next to their designs.
//
// The file is .sketch-data.yaml (or .yml) or .sketch-data.toml. Command line
// flags override whatever it sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	sketchdata "github.com/kataras/sketch-data-extractor"
	"github.com/kataras/sketch-data-extractor/pkg/errors"
	"github.com/kataras/sketch-data-extractor/pkg/extractor"
)

// FileNames are the project file names Find looks for, in order.
var FileNames = []string{".sketch-data.yaml", ".sketch-data.yml", ".sketch-data.toml"}

// Config is a project file: the layers to extract and how to write them.
type Config struct {
	Version int           `yaml:"version" toml:"version"`
	Layers  []string      `yaml:"layers" toml:"layers"`
	Query   string        `yaml:"query" toml:"query"`
	Multi   bool          `yaml:"multi" toml:"multi"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Extract ExtractConfig `yaml:"extract" toml:"extract"`
	Images  ImagesConfig  `yaml:"images" toml:"images"`
}

// OutputConfig controls where and how the JSON data is written.
type OutputConfig struct {
	Dir     string `yaml:"dir" toml:"dir"`
	File    string `yaml:"file" toml:"file"`
	Indent  string `yaml:"indent" toml:"indent"`
	Compact bool   `yaml:"compact" toml:"compact"`
	Report  bool   `yaml:"report" toml:"report"`
}

// ExtractConfig controls the tree walk.
type ExtractConfig struct {
	CaseFold      bool   `yaml:"case_fold" toml:"case_fold"`
	DropEmptyText bool   `yaml:"drop_empty_text" toml:"drop_empty_text"`
	Overrides     string `yaml:"overrides" toml:"overrides"`
}

// ImagesConfig controls the PNG export.
type ImagesConfig struct {
	Dir         string `yaml:"dir" toml:"dir"`
	RefPrefix   string `yaml:"ref_prefix" toml:"ref_prefix"`
	Parallelism int    `yaml:"parallelism" toml:"parallelism"`
	FitToFrame  bool   `yaml:"fit_to_frame" toml:"fit_to_frame"`
}

// Load reads and validates the project file at path. The format follows the
// extension: .toml is TOML, anything else YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, err, "loading config %s", path)
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, err, "loading config %s", path)
	}

	return &cfg, nil
}

// Find returns the first project file present in dir, or "" when there is none.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if _, err := extractor.ParseOverridePolicy(cfg.Extract.Overrides); err != nil {
		return err
	}
	if cfg.Images.Parallelism < 0 {
		return fmt.Errorf("images parallelism must not be negative, got %d", cfg.Images.Parallelism)
	}
	if strings.TrimSpace(cfg.Output.Indent) != "" {
		return fmt.Errorf("output indent must be whitespace, got %q", cfg.Output.Indent)
	}
	if cfg.Output.File != "" && strings.ContainsAny(cfg.Output.File, `/\`) {
		return fmt.Errorf("output file must be a plain name, got %q", cfg.Output.File)
	}

	seen := make(map[string]struct{})
	for i, l := range cfg.Layers {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("layer %d is empty", i)
		}
		if _, exists := seen[l]; exists {
			return fmt.Errorf("duplicate layer: %s", l)
		}
		seen[l] = struct{}{}
	}

	return nil
}

// Options converts the file into extraction options. Fields the file leaves
// unset keep their zero value so the extraction defaults apply.
func (c *Config) Options() sketchdata.Options {
	// validated by Load
	policy, _ := extractor.ParseOverridePolicy(c.Extract.Overrides)

	return sketchdata.Options{
		Layers:         c.Layers,
		Query:          c.Query,
		MultiSelect:    c.Multi,
		OutputDir:      c.Output.Dir,
		OutputFile:     c.Output.File,
		Indent:         c.Output.Indent,
		Compact:        c.Output.Compact,
		Report:         c.Output.Report,
		CaseFold:       c.Extract.CaseFold,
		DropEmptyText:  c.Extract.DropEmptyText,
		OverridePolicy: policy,
		ImagesDir:      c.Images.Dir,
		ImageRefPrefix: c.Images.RefPrefix,
		Parallelism:    c.Images.Parallelism,
		FitToFrame:     c.Images.FitToFrame,
	}
}
