package render

import (
	"context"
	"fmt"
	"image/color"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/gifmeme/internal/gifseq"
	"github.com/ivlev/gifmeme/internal/system"
	"github.com/ivlev/gifmeme/internal/template"
)

// TextCountError reports more supplied strings than overlays. Each
// string binds positionally to one overlay, so excess input is an
// error rather than silently dropped.
type TextCountError struct {
	Supplied int
	Overlays int
}

func (e *TextCountError) Error() string {
	return fmt.Sprintf("%d text strings supplied for %d text templates", e.Supplied, e.Overlays)
}

// Options tune a render run.
type Options struct {
	// Workers bounds the frame render pool. Zero picks a host default.
	Workers int
	// FontDir is searched for template font files.
	FontDir string
	// QRContent, when set, stamps a QR code on every frame.
	QRContent string
	// QRSize is the stamp edge length in pixels.
	QRSize int
}

// DefaultQRSize is the stamp edge length when none is configured.
const DefaultQRSize = 64

// Render composites the template's overlays onto every frame of the
// base animation. texts bind positionally to overlays in declaration
// order; overlays without a string use their placeholder. Frames are
// rendered concurrently and assembled strictly in source order, with
// frame timing and loop count preserved.
func Render(ctx context.Context, tpl *template.Template, seq *gifseq.Sequence, texts []string, opts Options) (*gifseq.Sequence, error) {
	if len(texts) > len(tpl.Overlays) {
		return nil, &TextCountError{Supplied: len(texts), Overlays: len(tpl.Overlays)}
	}
	if tpl.FrameCount != seq.Len() {
		return nil, &template.ValidationError{Reason: fmt.Sprintf(
			"template is bound to %d frames, base animation has %d", tpl.FrameCount, seq.Len())}
	}

	contents := make([]string, len(tpl.Overlays))
	for i, tt := range tpl.Overlays {
		if i < len(texts) {
			contents[i] = texts[i]
		} else {
			contents[i] = tt.Placeholder
		}
	}

	fonts, err := NewFontLibrary(opts.FontDir)
	if err != nil {
		return nil, err
	}
	comp := &Compositor{Fonts: fonts}

	if opts.QRContent != "" {
		size := opts.QRSize
		if size <= 0 {
			size = DefaultQRSize
		}
		stamp, err := qrStamp(opts.QRContent, size)
		if err != nil {
			return nil, err
		}
		comp.Stamp = stamp
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers(seq.Width, seq.Height, seq.Len())
	}

	// Frames are independent; render them in parallel into an indexed
	// slice so assembly order matches source order by construction.
	rendered := make([]*gifseq.Frame, seq.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range seq.Frames {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			overlays := make([]Overlay, len(tpl.Overlays))
			for j, tt := range tpl.Overlays {
				overlays[j] = Overlay{Template: tt, Props: tt.Resolve(i), Text: contents[j]}
			}
			frame, err := comp.Composite(seq.Frames[i], overlays)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			rendered[i] = frame
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &gifseq.Sequence{
		Frames:      rendered,
		LoopCount:   seq.LoopCount,
		Width:       seq.Width,
		Height:      seq.Height,
		ExtraColors: overlayColors(tpl, comp.Stamp != nil),
	}, nil
}

// overlayColors collects the colors drawn over the base frames so an
// encoder can keep them in its palette.
func overlayColors(tpl *template.Template, stamped bool) []color.Color {
	var colors []color.Color
	add := func(s string) {
		if s == "" {
			return
		}
		if c, err := template.ParseColor(s); err == nil {
			colors = append(colors, c)
		}
	}
	for _, tt := range tpl.Overlays {
		add(tt.Color)
		add(tt.StrokeColor)
		add(tt.Background)
	}
	if stamped {
		colors = append(colors, color.Black, color.White)
	}
	return colors
}
