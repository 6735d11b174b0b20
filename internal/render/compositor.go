package render

import (
	"image"
	"image/draw"

	"github.com/ivlev/gifmeme/internal/gifseq"
	"github.com/ivlev/gifmeme/internal/system"
	"github.com/ivlev/gifmeme/internal/template"
)

// Overlay is one overlay's placement on one frame: the template it
// came from, its resolved state and the text to draw.
type Overlay struct {
	Template *template.TextTemplate
	Props    template.Resolved
	Text     string
}

// Compositor draws resolved overlays onto base frames. Safe for
// concurrent use across frames.
type Compositor struct {
	Fonts *FontLibrary
	// Stamp is drawn in the bottom-right corner of every frame after
	// the text overlays. Nil means no stamp.
	Stamp image.Image
}

// Stamp offset from the frame edge, in pixels.
const stampMargin = 8

// Composite renders the overlays over a base frame and returns a new
// frame with the same timing. The base pixel buffer is never touched,
// so one decoded sequence can back any number of renders. The output
// buffer comes from the shared image pool; callers that are done with
// a rendered frame may hand it back with system.PutImage.
func (c *Compositor) Composite(base *gifseq.Frame, overlays []Overlay) (*gifseq.Frame, error) {
	dst := system.GetImage(base.Image.Rect)
	copy(dst.Pix, base.Image.Pix)

	for _, ov := range overlays {
		if err := drawOverlay(dst, c.Fonts, ov.Template, ov.Props, ov.Text); err != nil {
			system.PutImage(dst)
			return nil, err
		}
	}

	if c.Stamp != nil {
		sb := c.Stamp.Bounds()
		fb := dst.Bounds()
		target := image.Rect(
			fb.Max.X-sb.Dx()-stampMargin,
			fb.Max.Y-sb.Dy()-stampMargin,
			fb.Max.X-stampMargin,
			fb.Max.Y-stampMargin,
		)
		draw.Draw(dst, target.Intersect(fb), c.Stamp, sb.Min, draw.Over)
	}

	return &gifseq.Frame{Image: dst, Delay: base.Delay, Palette: base.Palette}, nil
}
