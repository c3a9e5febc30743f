package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// ThumbSize is the fixed edge length of the thumbnail rendition.
const ThumbSize = 100

// JPEGQuality is the compression quality for thumbnail output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types for uploads.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Validate sniffs the actual MIME type from the bytes (not trusting client
// headers) and rejects anything that is not JPEG or PNG.
func Validate(data []byte) (string, error) {
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return "", fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}
	return detected, nil
}

// Thumbnail renders the fixed 100x100 rendition of an image. The source is
// scaled to cover the square and center-cropped, then encoded as JPEG.
func Thumbnail(data []byte) ([]byte, error) {
	if _, err := Validate(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, ThumbSize, ThumbSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, coverRect(img.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// coverRect returns the centered square sub-rectangle of bounds, so the
// thumbnail crops instead of distorting non-square sources.
func coverRect(bounds image.Rectangle) image.Rectangle {
	w := bounds.Dx()
	h := bounds.Dy()

	if w == h {
		return bounds
	}

	if w > h {
		offset := (w - h) / 2
		return image.Rect(bounds.Min.X+offset, bounds.Min.Y, bounds.Min.X+offset+h, bounds.Max.Y)
	}
	offset := (h - w) / 2
	return image.Rect(bounds.Min.X, bounds.Min.Y+offset, bounds.Max.X, bounds.Min.Y+offset+w)
}

func init() {
	// jpeg is registered by default, but be explicit.
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
