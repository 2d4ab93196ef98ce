package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	sketchdata "github.com/kataras/sketch-data-extractor"
	"github.com/kataras/sketch-data-extractor/pkg/errors"
	"github.com/kataras/sketch-data-extractor/pkg/extractor"
)

const validYAML = `version: 1
layers: [Product Card, Price Tag]
multi: true
output:
  dir: out
  file: catalog
  report: true
extract:
  case_fold: true
  overrides: warn
images:
  dir: Assets
  ref_prefix: assets
  parallelism: 4
  fit_to_frame: true
`

const validTOML = `version = 1
query = "$.pages[*].layers[?(@._class == 'artboard')]"

[output]
compact = true

[extract]
drop_empty_text = true
overrides = "strict"
`

func TestLoad(t *testing.T) {
	t.Run("valid yaml loads", func(t *testing.T) {
		cfg, err := Load(writeTempConfig(t, ".sketch-data.yaml", validYAML))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(cfg.Layers) != 2 || cfg.Layers[1] != "Price Tag" {
			t.Fatalf("unexpected layers %v", cfg.Layers)
		}
		if cfg.Images.Parallelism != 4 {
			t.Fatalf("expected parallelism 4, got %d", cfg.Images.Parallelism)
		}
	})

	t.Run("valid toml loads", func(t *testing.T) {
		cfg, err := Load(writeTempConfig(t, ".sketch-data.toml", validTOML))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !cfg.Output.Compact || !cfg.Extract.DropEmptyText {
			t.Fatalf("expected compact and drop_empty_text, got %+v", cfg)
		}
		if cfg.Query == "" {
			t.Fatalf("expected a query")
		}
	})

	tests := []struct {
		name     string
		contents string
	}{
		{"missing version", "layers: [Card]\n"},
		{"unsupported version", "version: 2\n"},
		{"unknown override policy", "version: 1\nextract:\n  overrides: loud\n"},
		{"negative parallelism", "version: 1\nimages:\n  parallelism: -1\n"},
		{"non whitespace indent", "version: 1\noutput:\n  indent: \"--\"\n"},
		{"output file with a path", "version: 1\noutput:\n  file: a/b\n"},
		{"empty layer", "version: 1\nlayers: [\"\"]\n"},
		{"duplicate layers", "version: 1\nlayers: [Card, Card]\n"},
		{"invalid yaml", "version: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, ".sketch-data.yaml", tt.contents))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, errors.CodeInvalidInput) {
				t.Fatalf("expected an invalid input error, got %v", err)
			}
		})
	}

	t.Run("invalid toml", func(t *testing.T) {
		if _, err := Load(writeTempConfig(t, ".sketch-data.toml", "version = [\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if got := Find(dir); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}

	toml := filepath.Join(dir, ".sketch-data.toml")
	if err := os.WriteFile(toml, []byte(validTOML), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := Find(dir); got != toml {
		t.Fatalf("Find() = %q, want %q", got, toml)
	}

	yml := filepath.Join(dir, ".sketch-data.yaml")
	if err := os.WriteFile(yml, []byte(validYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := Find(dir); got != yml {
		t.Fatalf("Find() = %q, want %q, yaml is preferred", got, yml)
	}
}

func TestOptions(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, ".sketch-data.yaml", validYAML))
	if err != nil {
		t.Fatal(err)
	}

	want := sketchdata.Options{
		Layers:         []string{"Product Card", "Price Tag"},
		MultiSelect:    true,
		OutputDir:      "out",
		OutputFile:     "catalog",
		Report:         true,
		CaseFold:       true,
		OverridePolicy: extractor.OverridesWarn,
		ImagesDir:      "Assets",
		ImageRefPrefix: "assets",
		Parallelism:    4,
		FitToFrame:     true,
	}
	if diff := cmp.Diff(want, cfg.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func writeTempConfig(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
