package imageutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"

	// Register the WEBP decoder so image.Decode (used by imaging) can
	// handle uploads from browsers that re-encode camera shots.
	_ "golang.org/x/image/webp"
)

// Kind is the MIME type detected from the leading bytes of an upload.
type Kind string

const (
	KindJPEG    Kind = "image/jpeg"
	KindPNG     Kind = "image/png"
	KindWEBP    Kind = "image/webp"
	KindUnknown Kind = "application/octet-stream"
)

// ErrInvalidImage is returned when the bytes cannot be decoded as an image
// in any supported format.
var ErrInvalidImage = errors.New("invalid image")

// Detect classifies raw bytes by their signature: JPEG (FF D8),
// PNG (89 50 4E 47) or WEBP (RIFF....WEBP container).
func Detect(data []byte) Kind {
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return KindJPEG
	}
	if bytes.HasPrefix(data, []byte("\x89PNG")) {
		return KindPNG
	}
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return KindWEBP
	}
	return KindUnknown
}

// EnsureJPEG returns JPEG bytes for any supported input image. Bytes that
// already carry a JPEG signature are validated and returned untouched, so
// normalizing twice is byte-identical to normalizing once. Everything else
// is decoded and re-encoded as 24-bit RGB JPEG, dropping transparency.
func EnsureJPEG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if Detect(data) == KindJPEG {
		return data, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}
