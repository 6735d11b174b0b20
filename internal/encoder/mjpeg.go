package encoder

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/ivlev/gifmeme/internal/gifseq"
)

// MJPEG writes a Motion-JPEG AVI. AVI has a single frame rate, so the
// per-frame GIF delays collapse to their average.
type MJPEG struct {
	Quality int
}

func (e *MJPEG) Encode(path string, seq *gifseq.Sequence) error {
	if seq.Len() == 0 {
		return fmt.Errorf("no frames to encode")
	}

	totalDelay := 0
	for _, frame := range seq.Frames {
		totalDelay += frame.Delay
	}
	fps := int32(1)
	if totalDelay > 0 {
		// Delays are in 100ths of a second.
		if f := int32(float64(seq.Len()) * 100 / float64(totalDelay)); f > 0 {
			fps = f
		}
	}

	aw, err := mjpeg.New(path, int32(seq.Width), int32(seq.Height), fps)
	if err != nil {
		return fmt.Errorf("create avi %s: %w", path, err)
	}

	quality := e.Quality
	if quality <= 0 {
		quality = 90
	}

	var buf bytes.Buffer
	for i, frame := range seq.Frames {
		buf.Reset()
		if err := jpeg.Encode(&buf, frame.Image, &jpeg.Options{Quality: quality}); err != nil {
			aw.Close()
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalize avi %s: %w", path, err)
	}
	return nil
}
