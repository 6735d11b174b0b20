// Package encoder writes rendered sequences to animated image files.
package encoder

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/gifmeme/internal/gifseq"
)

// Encoder writes a rendered sequence to a file. Encoding is
// sequential; callers hand frames over already in display order.
type Encoder interface {
	Encode(path string, seq *gifseq.Sequence) error
}

// ForPath picks an encoder from the output file extension:
// .avi gets Motion-JPEG, everything else animated GIF.
func ForPath(path string) Encoder {
	if strings.EqualFold(filepath.Ext(path), ".avi") {
		return &MJPEG{Quality: 90}
	}
	return &GIF{}
}

// GIF writes an animated GIF, preserving per-frame delays and the
// loop count of the source animation.
type GIF struct{}

func (e *GIF) Encode(path string, seq *gifseq.Sequence) error {
	if seq.Len() == 0 {
		return fmt.Errorf("no frames to encode")
	}

	out := &gif.GIF{
		LoopCount: seq.LoopCount,
		Config: image.Config{
			Width:  seq.Width,
			Height: seq.Height,
		},
	}

	for _, frame := range seq.Frames {
		pal := framePalette(frame.Palette, seq.ExtraColors)
		bounds := frame.Image.Bounds()
		p := image.NewPaletted(bounds, pal)
		draw.FloydSteinberg.Draw(p, bounds, frame.Image, bounds.Min)

		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, frame.Delay)
		// Frames are fully composed, no partial updates left.
		out.Disposal = append(out.Disposal, gif.DisposalNone)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, out); err != nil {
		return fmt.Errorf("encode gif %s: %w", path, err)
	}
	return nil
}

// framePalette builds the palette for one output frame: the source
// frame's palette when available, extended with the overlay colors
// while there is room. Falls back to the standard Plan 9 palette for
// frames that did not come from a GIF.
func framePalette(hint color.Palette, extras []color.Color) color.Palette {
	var pal color.Palette
	if len(hint) > 0 {
		pal = append(pal, hint...)
	} else {
		pal = append(pal, palette.Plan9...)
	}
	if len(pal) > 256 {
		pal = pal[:256]
	}

	for _, c := range extras {
		if len(pal) >= 256 {
			break
		}
		if !paletteContains(pal, c) {
			pal = append(pal, c)
		}
	}
	return pal
}

func paletteContains(pal color.Palette, c color.Color) bool {
	cr, cg, cb, ca := c.RGBA()
	for _, p := range pal {
		pr, pg, pb, pa := p.RGBA()
		if cr == pr && cg == pg && cb == pb && ca == pa {
			return true
		}
	}
	return false
}
