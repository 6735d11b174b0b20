package render

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ivlev/gifmeme/internal/template"
)

// Margin around the optional background box, in pixels.
const boxMargin = 10

// FontLibrary resolves template font names to parsed TTF fonts.
// Parsed fonts are cached and safe for concurrent use; faces are
// created per draw because truetype faces are not.
type FontLibrary struct {
	dir      string
	fallback *truetype.Font

	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

// NewFontLibrary creates a library that resolves names against dir and
// falls back to the embedded Go Regular face for unknown fonts.
func NewFontLibrary(dir string) (*FontLibrary, error) {
	fallback, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse built-in font: %w", err)
	}
	return &FontLibrary{
		dir:      dir,
		fallback: fallback,
		fonts:    make(map[string]*truetype.Font),
	}, nil
}

// Face creates a drawing face for the named font at a size. Name
// resolution tries the literal path, then the library directory, with
// and without a .ttf extension. Missing fonts use the built-in face so
// a template renders everywhere, just not in its designed font.
func (l *FontLibrary) Face(name string, size float64) font.Face {
	f := l.font(name)
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (l *FontLibrary) font(name string) *truetype.Font {
	if name == "" {
		return l.fallback
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[name]; ok {
		return f
	}

	f := l.fallback
	if path, ok := l.locate(name); ok {
		if parsed, err := parseFontFile(path); err == nil {
			f = parsed
		}
	}
	l.fonts[name] = f
	return f
}

func (l *FontLibrary) locate(name string) (string, bool) {
	names := []string{name}
	if !strings.HasSuffix(strings.ToLower(name), ".ttf") {
		names = append(names, name+".ttf")
	}
	candidates := names
	if l.dir != "" {
		for _, n := range names {
			candidates = append(candidates, filepath.Join(l.dir, n))
		}
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c, true
		}
	}
	return "", false
}

func parseFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}

// drawOverlay draws one overlay's text onto dst at its resolved state:
// optional background box, stroke outline, then the fill text.
func drawOverlay(dst *image.RGBA, lib *FontLibrary, tt *template.TextTemplate, props template.Resolved, content string) error {
	if content == "" {
		return nil
	}

	fillColor, err := template.ParseColor(tt.Color)
	if err != nil {
		return &template.ValidationError{Reason: fmt.Sprintf("text template %q: bad color %q", tt.ID, tt.Color)}
	}

	face := lib.Face(tt.Font, props.Size)
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fillColor),
		Face: face,
	}

	textWidth := d.MeasureString(content).Ceil()
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	// The resolved position is the anchor: vertically the text
	// center, horizontally per the overlay's alignment.
	var left int
	switch tt.Align {
	case template.AlignLeft:
		left = int(props.X)
	case template.AlignRight:
		left = int(props.X) - textWidth
	default:
		left = int(props.X) - textWidth/2
	}
	top := int(props.Y) - textHeight/2
	baseline := top + metrics.Ascent.Ceil()

	if tt.Background != "" {
		bg, err := template.ParseColor(tt.Background)
		if err != nil {
			return &template.ValidationError{Reason: fmt.Sprintf("text template %q: bad background color %q", tt.ID, tt.Background)}
		}
		box := image.Rect(left-boxMargin, top-boxMargin, left+textWidth+boxMargin, top+textHeight+boxMargin)
		draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(bg), image.Point{}, draw.Over)
	}

	if tt.StrokeWidth > 0 {
		strokeColor, err := template.ParseColor(tt.StrokeColor)
		if err != nil {
			return &template.ValidationError{Reason: fmt.Sprintf("text template %q: bad stroke color %q", tt.ID, tt.StrokeColor)}
		}
		stroke := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(strokeColor),
			Face: face,
		}
		w := tt.StrokeWidth
		for dy := -w; dy <= w; dy++ {
			for dx := -w; dx <= w; dx++ {
				if dx*dx+dy*dy > w*w {
					continue
				}
				stroke.Dot = freetype.Pt(left+dx, baseline+dy)
				stroke.DrawString(content)
			}
		}
	}

	d.Dot = freetype.Pt(left, baseline)
	d.DrawString(content)
	return nil
}
