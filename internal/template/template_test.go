package template

import (
	"errors"
	"testing"
)

func validTemplate() *Template {
	top := NewTextTemplate("top")
	top.Keyframes.Insert(Keyframe{FrameIndex: 0, X: Float(10), Y: Float(10), Size: Float(20)})
	top.Keyframes.Insert(Keyframe{FrameIndex: 9, X: Float(100), Y: Float(10)})

	bottom := NewTextTemplate("bottom")

	return &Template{FrameCount: 10, Overlays: []*TextTemplate{top, bottom}}
}

func TestValidateOK(t *testing.T) {
	if err := validTemplate().Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}

func TestValidateDuplicateID(t *testing.T) {
	tpl := validTemplate()
	tpl.Overlays[1].ID = "top"

	var verr *ValidationError
	if err := tpl.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for duplicate id, got %v", err)
	}
}

func TestValidateKeyframeOutOfRange(t *testing.T) {
	tpl := validTemplate()
	tpl.Overlays[0].Keyframes.Insert(Keyframe{FrameIndex: 10, X: Float(0), Y: Float(0)})

	var verr *ValidationError
	if err := tpl.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for index 10 of 10 frames, got %v", err)
	}
}

func TestValidateBadColor(t *testing.T) {
	tpl := validTemplate()
	tpl.Overlays[0].Color = "hot pink"

	var verr *ValidationError
	if err := tpl.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for bad color, got %v", err)
	}
}

func TestValidateBadAlign(t *testing.T) {
	tpl := validTemplate()
	tpl.Overlays[0].Align = "justify"

	var verr *ValidationError
	if err := tpl.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown alignment, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantR   uint8
		wantG   uint8
		wantB   uint8
		wantErr bool
	}{
		{in: "#FFF", wantR: 0xFF, wantG: 0xFF, wantB: 0xFF},
		{in: "#000", wantR: 0, wantG: 0, wantB: 0},
		{in: "#ff8000", wantR: 0xFF, wantG: 0x80, wantB: 0},
		{in: "red", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		c, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if c.R != tc.wantR || c.G != tc.wantG || c.B != tc.wantB || c.A != 0xFF {
			t.Errorf("ParseColor(%q) = %+v", tc.in, c)
		}
	}
}
