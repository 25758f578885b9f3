// Package caption turns uploaded images into short text descriptions that
// are fed into the generation prompt.
package caption

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedImage is returned for files that are not png or jpeg.
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// Captioner describes an image in a sentence.
type Captioner interface {
	Caption(ctx context.Context, name string, r io.Reader, mimeType string) (string, error)
}

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// MimeTypeFor returns the image MIME type for a file name based on its
// extension.
func MimeTypeFor(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType, ok := mimeTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, name)
	}
	return mimeType, nil
}

// IsSupported reports whether mimeType is one of the accepted image types.
func IsSupported(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, m := range mimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// Format renders a caption the way it appears in the prompt. A caption that
// adds nothing to the file name renders as the name alone.
func Format(name, text string) string {
	text = strings.TrimSpace(text)
	if text == "" || text == name {
		return name
	}
	return fmt.Sprintf("%s: %s", name, text)
}

// FilenameCaptioner is used when captioning is disabled. The caption is
// the file name itself.
type FilenameCaptioner struct{}

// Caption returns the file name after checking the type is supported.
func (FilenameCaptioner) Caption(ctx context.Context, name string, r io.Reader, mimeType string) (string, error) {
	if !IsSupported(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}
	return filepath.Base(name), nil
}
