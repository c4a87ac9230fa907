package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github/itish2003/neuronova/models"
)

const imagesField = "images"

var errUploadTooLarge = errors.New("upload too large")

// limitBody caps the request body at maxSize bytes. It must run before
// anything parses the form.
func limitBody(ctx *gin.Context, maxSize int64) error {
	if maxSize <= 0 {
		return nil
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxSize)
	if ctx.Request.ContentLength > maxSize {
		return fmt.Errorf("%w: request body exceeds %d bytes", errUploadTooLarge, maxSize)
	}
	return nil
}

// readUploads collects the files posted under the "images" field in the order
// the client sent them. A request that is not multipart carries no images.
// The whole request body is bounded by maxSize.
func readUploads(ctx *gin.Context, maxSize int64) ([]models.UploadedImage, error) {
	if err := limitBody(ctx, maxSize); err != nil {
		return nil, err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request body exceeds %d bytes", errUploadTooLarge, maxSize)
		}
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	headers := form.File[imagesField]
	images := make([]models.UploadedImage, 0, len(headers))
	for _, header := range headers {
		data, err := readFileHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}
		images = append(images, models.UploadedImage{
			Filename: header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return images, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
