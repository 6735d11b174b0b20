// Package engine ties the pipeline together: locate the input pair,
// load both halves, render and encode.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/gifmeme/internal/config"
	"github.com/ivlev/gifmeme/internal/encoder"
	"github.com/ivlev/gifmeme/internal/gifseq"
	"github.com/ivlev/gifmeme/internal/render"
	"github.com/ivlev/gifmeme/internal/system"
	"github.com/ivlev/gifmeme/internal/template"
)

// Project is one render run. The template and base animation are
// loaded fresh per run and treated as read-only throughout.
type Project struct {
	Config  *config.Config
	Encoder encoder.Encoder
}

func NewProject(cfg *config.Config) *Project {
	return &Project{Config: cfg}
}

// Run loads the template pair, renders all frames and writes the
// output animation. The whole render is one cancelable unit: a
// canceled context abandons in-flight frames and leaves no output.
func (p *Project) Run(ctx context.Context) error {
	cfg := p.Config

	seq, basePath, err := p.openBase()
	if err != nil {
		return err
	}
	fmt.Printf("[*] Base animation: %s | Frames: %d | %dx%d\n", basePath, seq.Len(), seq.Width, seq.Height)

	templatePath := cfg.TemplatePath
	if templatePath == "" {
		templatePath = pairedTemplatePath(basePath)
	}
	tpl, err := template.Load(templatePath)
	if err != nil {
		return err
	}
	fmt.Printf("[*] Template: %s | Text templates: %d\n", templatePath, len(tpl.Overlays))

	out, err := render.Render(ctx, tpl, seq, cfg.Texts, render.Options{
		Workers:   cfg.Workers,
		FontDir:   cfg.FontDir,
		QRContent: cfg.QRContent,
		QRSize:    cfg.QRSize,
	})
	if err != nil {
		return err
	}

	enc := p.Encoder
	if enc == nil {
		enc = encoder.ForPath(cfg.OutputPath)
	}
	if err := enc.Encode(cfg.OutputPath, out); err != nil {
		return err
	}

	// Rendered buffers are no longer needed once encoded; hand them
	// back so repeated runs in one process reuse them.
	for _, frame := range out.Frames {
		system.PutImage(frame.Image)
	}

	return nil
}

// openBase resolves the input path to a frame sequence. A GIF file is
// decoded directly. A directory uses its most recent GIF, or, when it
// holds none, its still images as fixed-delay frames.
func (p *Project) openBase() (*gifseq.Sequence, string, error) {
	path := p.Config.InputPath

	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("input %s: %w", path, err)
	}

	if !fi.IsDir() {
		seq, err := gifseq.Open(path)
		if err != nil {
			return nil, "", err
		}
		return seq, path, nil
	}

	if latest, err := system.FindLatestGIF(path); err == nil {
		fmt.Printf("[*] Selected: %s\n", latest)
		seq, err := gifseq.Open(latest)
		if err != nil {
			return nil, "", err
		}
		return seq, latest, nil
	}

	delay := p.Config.Delay
	if delay <= 0 {
		delay = 10
	}
	seq, err := gifseq.OpenImageDir(path, delay)
	if err != nil {
		return nil, "", err
	}
	return seq, filepath.Clean(path), nil
}

// pairedTemplatePath maps a base animation path to its template:
// same directory, same base name, .json extension.
func pairedTemplatePath(basePath string) string {
	ext := filepath.Ext(basePath)
	return strings.TrimSuffix(basePath, ext) + ".json"
}
