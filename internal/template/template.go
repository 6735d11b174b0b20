package template

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Styling defaults carried over from the original editor.
const (
	DefaultColor       = "#FFF"
	DefaultStrokeColor = "#000"
	DefaultStrokeWidth = 2
	DefaultAlign       = AlignCenter
)

// Horizontal anchor of the text relative to the resolved x.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TextTemplate is one overlay: static styling plus its keyframe
// timeline. Styling never animates; only position and size do.
type TextTemplate struct {
	ID          string
	Font        string // font name or TTF path; empty uses the built-in face
	Color       string
	Align       string
	Placeholder string
	StrokeWidth int
	StrokeColor string
	Background  string // background box color; empty means no box
	Keyframes   Timeline
}

// NewTextTemplate creates an overlay with the default styling and the
// overlay id as placeholder text.
func NewTextTemplate(id string) *TextTemplate {
	return &TextTemplate{
		ID:          id,
		Color:       DefaultColor,
		Align:       DefaultAlign,
		Placeholder: id,
		StrokeWidth: DefaultStrokeWidth,
		StrokeColor: DefaultStrokeColor,
	}
}

// Resolve computes the overlay's drawing state at a frame index.
func (tt *TextTemplate) Resolve(frameIndex int) Resolved {
	return tt.Keyframes.Resolve(frameIndex)
}

// Template is an ordered collection of overlays bound to a base
// animation identity. Read-only during rendering.
type Template struct {
	FrameCount int
	Overlays   []*TextTemplate
}

// Validate checks the model invariants: a positive frame count, unique
// non-empty overlay ids, keyframe indices within [0, FrameCount) and
// parseable colors. It never repairs anything.
func (t *Template) Validate() error {
	if t.FrameCount < 1 {
		return &ValidationError{Reason: fmt.Sprintf("frame count must be at least 1, got %d", t.FrameCount)}
	}

	seen := make(map[string]bool, len(t.Overlays))
	for _, tt := range t.Overlays {
		if tt.ID == "" {
			return &ValidationError{Reason: "text template with empty id"}
		}
		if seen[tt.ID] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate text template id %q", tt.ID)}
		}
		seen[tt.ID] = true

		switch tt.Align {
		case AlignLeft, AlignCenter, AlignRight:
		default:
			return &ValidationError{Reason: fmt.Sprintf("text template %q: unknown alignment %q", tt.ID, tt.Align)}
		}

		if _, err := ParseColor(tt.Color); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("text template %q: bad color %q", tt.ID, tt.Color)}
		}
		if _, err := ParseColor(tt.StrokeColor); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("text template %q: bad stroke color %q", tt.ID, tt.StrokeColor)}
		}
		if tt.Background != "" {
			if _, err := ParseColor(tt.Background); err != nil {
				return &ValidationError{Reason: fmt.Sprintf("text template %q: bad background color %q", tt.ID, tt.Background)}
			}
		}
		if tt.StrokeWidth < 0 {
			return &ValidationError{Reason: fmt.Sprintf("text template %q: negative stroke width", tt.ID)}
		}

		for _, kf := range tt.Keyframes.Keyframes() {
			if kf.FrameIndex < 0 || kf.FrameIndex >= t.FrameCount {
				return &ValidationError{Reason: fmt.Sprintf(
					"text template %q: keyframe index %d outside [0, %d)", tt.ID, kf.FrameIndex, t.FrameCount)}
			}
		}
	}

	return nil
}

// Overlay looks an overlay up by id.
func (t *Template) Overlay(id string) (*TextTemplate, bool) {
	for _, tt := range t.Overlays {
		if tt.ID == id {
			return tt, true
		}
	}
	return nil, false
}

// ParseColor parses a #RGB or #RRGGBB color string.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
