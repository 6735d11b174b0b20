package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/gifmeme/internal/config"
	"github.com/ivlev/gifmeme/internal/gifseq"
	"github.com/ivlev/gifmeme/internal/render"
	"github.com/ivlev/gifmeme/internal/template"
)

// writePair writes a <name>.gif / <name>.json template pair into dir.
func writePair(t *testing.T, dir, name string, frameCount int) (gifPath string) {
	t.Helper()

	g := &gif.GIF{Config: image.Config{Width: 120, Height: 90}}
	for i := 0; i < frameCount; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 120, 90), palette.Plan9)
		for y := 0; y < 90; y++ {
			for x := 0; x < 120; x++ {
				p.Set(x, y, color.RGBA{B: uint8(30 * i), A: 0xFF})
			}
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 10)
	}

	gifPath = filepath.Join(dir, name+".gif")
	f, err := os.Create(gifPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatal(err)
	}
	f.Close()

	top := template.NewTextTemplate("top")
	top.Keyframes.Insert(template.Keyframe{
		FrameIndex: 0,
		X:          template.Float(60),
		Y:          template.Float(20),
		Size:       template.Float(18),
	})
	tpl := &template.Template{FrameCount: frameCount, Overlays: []*template.TextTemplate{top}}
	if err := template.Save(tpl, filepath.Join(dir, name+".json")); err != nil {
		t.Fatal(err)
	}
	return gifPath
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	gifPath := writePair(t, dir, "cat", 5)
	outPath := filepath.Join(dir, "cat_meme.gif")

	cfg := &config.Config{
		InputPath:  gifPath,
		OutputPath: outPath,
		Texts:      []string{"HELLO"},
		Workers:    2,
	}

	if err := NewProject(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out, err := gifseq.Open(outPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	if out.Len() != 5 {
		t.Errorf("output frames = %d, want 5", out.Len())
	}
	if out.Width != 120 || out.Height != 90 {
		t.Errorf("output dimensions = %dx%d, want 120x90", out.Width, out.Height)
	}
	for i, frame := range out.Frames {
		if frame.Delay != 10 {
			t.Errorf("output frame %d delay = %d, want 10", i, frame.Delay)
		}
	}
}

func TestRunDeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	gifPath := writePair(t, dir, "dog", 3)

	outputs := make([][]byte, 2)
	for i := range outputs {
		outPath := filepath.Join(dir, "out.gif")
		cfg := &config.Config{
			InputPath:  gifPath,
			OutputPath: outPath,
			Texts:      []string{"SAME"},
			Workers:    3,
		}
		if err := NewProject(cfg).Run(context.Background()); err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatal(err)
		}
		outputs[i] = data
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("repeated renders produced different bytes")
	}
}

func TestRunTooManyTexts(t *testing.T) {
	dir := t.TempDir()
	gifPath := writePair(t, dir, "bird", 3)

	cfg := &config.Config{
		InputPath:  gifPath,
		OutputPath: filepath.Join(dir, "out.gif"),
		Texts:      []string{"one", "two"}, // template has one overlay
		Workers:    1,
	}

	var tce *render.TextCountError
	if err := NewProject(cfg).Run(context.Background()); !errors.As(err, &tce) {
		t.Fatalf("expected TextCountError, got %v", err)
	}
}

func TestRunMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	gifPath := writePair(t, dir, "fish", 3)
	if err := os.Remove(filepath.Join(dir, "fish.json")); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		InputPath:  gifPath,
		OutputPath: filepath.Join(dir, "out.gif"),
		Workers:    1,
	}
	if err := NewProject(cfg).Run(context.Background()); err == nil {
		t.Fatal("expected error for missing paired template")
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := &config.Config{
		InputPath:  filepath.Join(t.TempDir(), "nope.gif"),
		OutputPath: "out.gif",
	}
	if err := NewProject(cfg).Run(context.Background()); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunPicksLatestGIFInDirectory(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "first", 2)
	latest := writePair(t, dir, "second", 4)

	// Make "second" unambiguously the newest.
	now := time.Now()
	os.Chtimes(latest, now, now)

	cfg := &config.Config{
		InputPath:  dir,
		OutputPath: filepath.Join(dir, "out.gif"),
		Workers:    1,
	}
	if err := NewProject(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out, err := gifseq.Open(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 4 {
		t.Errorf("expected the 4-frame GIF to be selected, got %d frames", out.Len())
	}
}
