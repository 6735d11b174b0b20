// Package gifseq loads animated GIFs into flat RGBA frames and keeps
// the timing metadata needed to write them back out unchanged.
package gifseq

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// Frame is one fully composed frame of a base animation.
type Frame struct {
	Image *image.RGBA
	// Delay is the display duration in 100ths of a second.
	Delay int
	// Palette is the source frame's palette, kept as a hint for
	// re-encoding. Nil for frames that did not come from a GIF.
	Palette color.Palette
}

// Clone returns a deep copy of the frame's pixel buffer.
func (f *Frame) Clone() *image.RGBA {
	out := image.NewRGBA(f.Image.Rect)
	copy(out.Pix, f.Image.Pix)
	return out
}

// Sequence is an ordered, immutable set of equally sized frames.
type Sequence struct {
	Frames    []*Frame
	LoopCount int
	Width     int
	Height    int
	// ExtraColors are colors drawn on top of the base frames that an
	// encoder should keep in the palette (text, stroke, boxes).
	ExtraColors []color.Color
}

func (s *Sequence) Len() int {
	return len(s.Frames)
}

func (s *Sequence) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Open decodes an animated GIF file.
func Open(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gif %s: %w", path, err)
	}
	defer f.Close()

	seq, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode gif %s: %w", path, err)
	}
	return seq, nil
}

// Decode reads a GIF stream and coalesces its frames. GIF frames may
// be partial updates with per-frame disposal; each output frame is the
// full canvas as a viewer would show it.
func Decode(r io.Reader) (*Sequence, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	seq := &Sequence{LoopCount: g.LoopCount, Width: width, Height: height}

	for i, src := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var backup *image.RGBA
		if disposal == gif.DisposalPrevious {
			backup = cloneRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		seq.Frames = append(seq.Frames, &Frame{
			Image:   cloneRGBA(canvas),
			Delay:   delay,
			Palette: src.Palette,
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = backup
		}
	}

	return seq, nil
}

// FromFrames builds a sequence from pre-composed frames. All frames
// must share the same dimensions.
func FromFrames(frames []*Frame) (*Sequence, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames")
	}
	b := frames[0].Image.Bounds()
	for i, f := range frames {
		if f.Image.Bounds() != b {
			return nil, fmt.Errorf("frame %d has bounds %v, want %v", i, f.Image.Bounds(), b)
		}
	}
	return &Sequence{Frames: frames, Width: b.Dx(), Height: b.Dy()}, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}
