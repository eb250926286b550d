package blobcache

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// ImageCodec converts between decoded images and the bytes stored on disk.
// It is a collaborator: callers with their own encoder inject it via
// WithCodec, and pre-encoded blobs bypass it entirely through Put.
type ImageCodec interface {
	Encode(img image.Image) ([]byte, error)
	Decode(data []byte) (image.Image, error)
}

// JPEGCodec re-encodes images as JPEG. Quality <= 0 means maximum quality.
// Decoding accepts any format registered with the image package.
type JPEGCodec struct {
	Quality int
}

func (c JPEGCodec) Encode(img image.Image) ([]byte, error) {
	quality := c.Quality
	if quality <= 0 {
		quality = 100
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c JPEGCodec) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
