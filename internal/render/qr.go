package render

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// qrStamp renders a share-link QR code to stamp onto every frame.
func qrStamp(content string, size int) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("build QR code: %w", err)
	}
	return q.Image(size), nil
}
