package template

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// On-disk template document. Keyframes are an object keyed by decimal
// frame index; an absent x/y/font_size means "unset" for that field.
type templateJSON struct {
	FrameCount    int           `json:"frame_count"`
	TextTemplates []overlayJSON `json:"text_templates"`
}

type overlayJSON struct {
	ID          string                  `json:"id"`
	Font        string                  `json:"font,omitempty"`
	Color       string                  `json:"color,omitempty"`
	Align       string                  `json:"align,omitempty"`
	Placeholder string                  `json:"placeholder,omitempty"`
	StrokeWidth *int                    `json:"stroke_width,omitempty"`
	StrokeColor string                  `json:"stroke_color,omitempty"`
	Background  string                  `json:"background,omitempty"`
	Keyframes   map[string]keyframeJSON `json:"keyframes,omitempty"`
}

type keyframeJSON struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	FontSize *float64 `json:"font_size,omitempty"`
}

// Load reads and validates a template from a JSON file.
func Load(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Save writes a template as canonical JSON.
func Save(t *Template, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create template %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, t)
}

// Decode parses a template document and validates the model
// invariants. Structural problems come back as *FormatError,
// invariant violations as *ValidationError.
func Decode(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	var doc templateJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Reason: "invalid JSON", Err: err}
	}

	if doc.FrameCount == 0 {
		return nil, &FormatError{Reason: "missing or zero frame_count"}
	}

	t := &Template{FrameCount: doc.FrameCount}
	for _, o := range doc.TextTemplates {
		if o.ID == "" {
			return nil, &FormatError{Reason: "text template missing id"}
		}

		tt := NewTextTemplate(o.ID)
		if o.Font != "" {
			tt.Font = o.Font
		}
		if o.Color != "" {
			tt.Color = o.Color
		}
		if o.Align != "" {
			tt.Align = o.Align
		}
		if o.Placeholder != "" {
			tt.Placeholder = o.Placeholder
		}
		if o.StrokeWidth != nil {
			tt.StrokeWidth = *o.StrokeWidth
		}
		if o.StrokeColor != "" {
			tt.StrokeColor = o.StrokeColor
		}
		tt.Background = o.Background

		seen := make(map[int]bool, len(o.Keyframes))
		for key, kf := range o.Keyframes {
			index, err := strconv.Atoi(key)
			if err != nil {
				return nil, &FormatError{Reason: fmt.Sprintf("text template %q: keyframe key %q is not a frame index", o.ID, key)}
			}
			// JSON objects cannot repeat a key, but "07" and "7"
			// normalize to the same index.
			if seen[index] {
				return nil, &ValidationError{Reason: fmt.Sprintf("text template %q: duplicate keyframe index %d", o.ID, index)}
			}
			seen[index] = true
			tt.Keyframes.Insert(Keyframe{FrameIndex: index, X: kf.X, Y: kf.Y, Size: kf.FontSize})
		}

		t.Overlays = append(t.Overlays, tt)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode writes the canonical JSON form. Every styling field is
// written explicitly so a round trip does not depend on defaults.
func Encode(w io.Writer, t *Template) error {
	doc := templateJSON{FrameCount: t.FrameCount}
	for _, tt := range t.Overlays {
		strokeWidth := tt.StrokeWidth
		o := overlayJSON{
			ID:          tt.ID,
			Font:        tt.Font,
			Color:       tt.Color,
			Align:       tt.Align,
			Placeholder: tt.Placeholder,
			StrokeWidth: &strokeWidth,
			StrokeColor: tt.StrokeColor,
			Background:  tt.Background,
		}
		keyframes := tt.Keyframes.Keyframes()
		if len(keyframes) > 0 {
			o.Keyframes = make(map[string]keyframeJSON, len(keyframes))
			for _, kf := range keyframes {
				o.Keyframes[strconv.Itoa(kf.FrameIndex)] = keyframeJSON{X: kf.X, Y: kf.Y, FontSize: kf.Size}
			}
		}
		doc.TextTemplates = append(doc.TextTemplates, o)
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
