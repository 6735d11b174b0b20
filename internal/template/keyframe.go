package template

import "sort"

// Defaults used when a field has no keyframes at all.
const (
	DefaultX    = 20.0
	DefaultY    = 20.0
	DefaultSize = 50.0
)

// Keyframe pins one or more animatable fields at a frame index.
// A nil field means "unset": the field interpolates from the
// neighboring keyframes that do set it.
type Keyframe struct {
	FrameIndex int
	X          *float64
	Y          *float64
	Size       *float64
}

// Resolved is the concrete drawing state for one overlay at one frame.
type Resolved struct {
	X    float64
	Y    float64
	Size float64
}

// Timeline is an ordered set of keyframes, unique per frame index.
type Timeline struct {
	keyframes []Keyframe
}

// Insert adds a keyframe, keeping the timeline sorted. Inserting at an
// index that already has a keyframe merges the set fields into the
// existing entry, so an editor can pin position and size independently.
func (tl *Timeline) Insert(kf Keyframe) {
	i := sort.Search(len(tl.keyframes), func(i int) bool {
		return tl.keyframes[i].FrameIndex >= kf.FrameIndex
	})
	if i < len(tl.keyframes) && tl.keyframes[i].FrameIndex == kf.FrameIndex {
		existing := &tl.keyframes[i]
		if kf.X != nil {
			existing.X = kf.X
		}
		if kf.Y != nil {
			existing.Y = kf.Y
		}
		if kf.Size != nil {
			existing.Size = kf.Size
		}
		return
	}
	tl.keyframes = append(tl.keyframes, Keyframe{})
	copy(tl.keyframes[i+1:], tl.keyframes[i:])
	tl.keyframes[i] = kf
}

// Keyframes returns the entries ordered by frame index.
func (tl *Timeline) Keyframes() []Keyframe {
	out := make([]Keyframe, len(tl.keyframes))
	copy(out, tl.keyframes)
	return out
}

// Get returns the keyframe at the exact frame index, if present.
func (tl *Timeline) Get(frameIndex int) (Keyframe, bool) {
	i := sort.Search(len(tl.keyframes), func(i int) bool {
		return tl.keyframes[i].FrameIndex >= frameIndex
	})
	if i < len(tl.keyframes) && tl.keyframes[i].FrameIndex == frameIndex {
		return tl.keyframes[i], true
	}
	return Keyframe{}, false
}

func (tl *Timeline) Len() int {
	return len(tl.keyframes)
}

// Resolve computes the drawing state at a frame index. Each field is
// interpolated independently over the keyframes that set it: hold
// before the first, hold after the last, exact value at a keyframe,
// linear in between. A field with no keyframes uses its default.
func (tl *Timeline) Resolve(frameIndex int) Resolved {
	return Resolved{
		X:    interpolate(tl.points(func(kf Keyframe) *float64 { return kf.X }), frameIndex, DefaultX),
		Y:    interpolate(tl.points(func(kf Keyframe) *float64 { return kf.Y }), frameIndex, DefaultY),
		Size: interpolate(tl.points(func(kf Keyframe) *float64 { return kf.Size }), frameIndex, DefaultSize),
	}
}

type point struct {
	frame int
	value float64
}

func (tl *Timeline) points(field func(Keyframe) *float64) []point {
	var pts []point
	for _, kf := range tl.keyframes {
		if v := field(kf); v != nil {
			pts = append(pts, point{frame: kf.FrameIndex, value: *v})
		}
	}
	return pts
}

func interpolate(pts []point, frame int, fallback float64) float64 {
	if len(pts) == 0 {
		return fallback
	}

	// Before the first keyframe: hold the first defined value.
	if frame <= pts[0].frame {
		return pts[0].value
	}

	// After the last keyframe: hold the last defined value.
	if frame >= pts[len(pts)-1].frame {
		return pts[len(pts)-1].value
	}

	for i := 0; i < len(pts)-1; i++ {
		k0, k1 := pts[i], pts[i+1]
		if frame == k0.frame {
			return k0.value
		}
		if frame > k0.frame && frame < k1.frame {
			t := float64(frame-k0.frame) / float64(k1.frame-k0.frame)
			return lerp(k0.value, k1.value, t)
		}
	}
	return pts[len(pts)-1].value
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Float is a convenience for building optional keyframe fields.
func Float(v float64) *float64 {
	return &v
}
