package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gifmeme.yaml")
	doc := "font_dir: /usr/share/fonts\nworkers: 3\ndelay: 8\nqr_size: 96\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.FontDir != "/usr/share/fonts" || fc.Workers != 3 || fc.Delay != 8 || fc.QRSize != 96 {
		t.Errorf("parsed config = %+v", fc)
	}
}

func TestLoadFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workers: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyFillsOnlyUnset(t *testing.T) {
	cfg := &Config{Workers: 4}
	cfg.Apply(&FileConfig{FontDir: "fonts", Workers: 8, Delay: 6})

	if cfg.Workers != 4 {
		t.Errorf("explicit workers overwritten: %d", cfg.Workers)
	}
	if cfg.FontDir != "fonts" {
		t.Errorf("font dir not applied: %q", cfg.FontDir)
	}
	if cfg.Delay != 6 {
		t.Errorf("delay not applied: %d", cfg.Delay)
	}

	cfg.Apply(nil) // must not panic
}
