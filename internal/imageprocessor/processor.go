package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// AvatarMaxSide - максимальная сторона аватара в пикселях
const AvatarMaxSide = 512

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85 // Default quality
	}
	return &Processor{
		quality: quality,
	}
}

// Result is an encoded image ready to be stored
type Result struct {
	Data        *bytes.Reader
	Size        int64
	ContentType string
	Width       int
	Height      int
}

// Fit decodes the image, shrinks it to fit into maxSide x maxSide keeping
// the aspect ratio and re-encodes it in its original format (png or jpeg).
// Smaller images are not enlarged.
func (p *Processor) Fit(reader io.Reader, maxSide int) (*Result, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSide || bounds.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	outFormat := imaging.JPEG
	contentType := "image/jpeg"
	if format == "png" {
		outFormat = imaging.PNG
		contentType = "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, outFormat, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:        bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		ContentType: contentType,
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

// IsValidImage checks if the reader contains a valid image
func IsValidImage(reader io.Reader) bool {
	_, _, err := image.DecodeConfig(reader)
	return err == nil
}
