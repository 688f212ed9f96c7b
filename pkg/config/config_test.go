package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want Default()", cfg)
	}
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsonpp.yaml")
	contents := "maxDepth: 2048\nindent: \"  \"\nstrict: true\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 2048 || cfg.Indent != "  " || !cfg.Strict {
		t.Errorf("got %+v, want maxDepth=2048 indent=\"  \" strict=true", cfg)
	}
}

func TestLoadRejectsNegativeMaxDepth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsonpp.yaml")
	if err := os.WriteFile(path, []byte("maxDepth: -1\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a negative maxDepth")
	}
}
