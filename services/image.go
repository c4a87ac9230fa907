package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github/itish2003/neuronova/models"
)

var (
	// ErrMissingFile is returned for an upload slot that carries no bytes.
	ErrMissingFile = errors.New("no file uploaded")
	// ErrUnsupportedImage is returned for anything other than JPEG or PNG.
	ErrUnsupportedImage = errors.New("unsupported image type, only JPEG and PNG are accepted")
)

var acceptedImageTypes = map[string]string{
	"image/jpeg":  "image/jpeg",
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/png":   "image/png",
}

// IsInputError reports whether err was caused by the uploaded files rather
// than by the model service.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingFile) || errors.Is(err, ErrUnsupportedImage)
}

// prepareImage validates an upload and settles its MIME type. The declared
// type is trusted when present; otherwise the bytes are sniffed.
func prepareImage(image models.UploadedImage) (models.UploadedImage, error) {
	if len(image.Data) == 0 {
		return image, ErrMissingFile
	}

	declared := strings.ToLower(strings.TrimSpace(image.MIMEType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared == "" || declared == "application/octet-stream" {
		declared = mimetype.Detect(image.Data).String()
	}

	canonical, ok := acceptedImageTypes[declared]
	if !ok {
		return image, fmt.Errorf("%w: %s", ErrUnsupportedImage, declared)
	}
	image.MIMEType = canonical
	return image, nil
}
