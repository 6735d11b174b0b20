package gifseq

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// OpenImageDir builds a sequence from the PNG/JPEG files of a
// directory, sorted by name, each shown for the given delay
// (100ths of a second). All images must share the same dimensions.
func OpenImageDir(dir string, delay int) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	if delay < 1 {
		delay = 1
	}

	var frames []*Frame
	for _, path := range paths {
		img, err := decodeImage(path)
		if err != nil {
			return nil, err
		}
		frames = append(frames, &Frame{Image: img, Delay: delay})
	}

	seq, err := FromFrames(frames)
	if err != nil {
		return nil, fmt.Errorf("images in %s: %w", dir, err)
	}
	return seq, nil
}

func decodeImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
