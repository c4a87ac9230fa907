package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github/itish2003/neuronova/metrics"
	"github/itish2003/neuronova/models"
)

// ExtractorService turns uploaded screenshots into text context for the chat.
type ExtractorService interface {
	Extract(ctx context.Context, image models.UploadedImage) (string, error)
	ExtractAll(ctx context.Context, images []models.UploadedImage) ([]models.ImageAnalysis, error)
	SetPrompt(prompt string)
}

type extractorServiceImpl struct {
	model VisionModel
	opts  ModelOptions
	log   *zap.Logger

	mu     sync.RWMutex
	prompt string
}

func NewExtractorService(model VisionModel, prompt string, opts ModelOptions, log *zap.Logger) ExtractorService {
	return &extractorServiceImpl{
		model:  model,
		opts:   opts,
		log:    log,
		prompt: GetImagePrompt(prompt),
	}
}

// SetPrompt swaps the instruction used for subsequent images.
func (s *extractorServiceImpl) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = GetImagePrompt(prompt)
}

func (s *extractorServiceImpl) currentPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// Extract analyzes a single image. An image without data fails with
// ErrMissingFile before any model call is made.
func (s *extractorServiceImpl) Extract(ctx context.Context, image models.UploadedImage) (string, error) {
	prepared, err := prepareImage(image)
	if err != nil {
		return "", err
	}
	return s.describe(ctx, prepared)
}

// ExtractAll validates every upload first and only then analyzes them one at a
// time in upload order. The first model failure aborts the batch and nothing
// is returned for the images that did succeed.
func (s *extractorServiceImpl) ExtractAll(ctx context.Context, images []models.UploadedImage) ([]models.ImageAnalysis, error) {
	prepared := make([]models.UploadedImage, 0, len(images))
	for i, image := range images {
		p, err := prepareImage(image)
		if err != nil {
			return nil, fmt.Errorf("image %d (%s): %w", i+1, image.Filename, err)
		}
		prepared = append(prepared, p)
	}

	analyses := make([]models.ImageAnalysis, 0, len(prepared))
	for i, image := range prepared {
		s.log.Info("Analyzing image",
			zap.Int("number", i+1),
			zap.String("filename", image.Filename),
			zap.String("mime_type", image.MIMEType),
			zap.Int("size", len(image.Data)))

		text, err := s.describe(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("could not analyze image %d (%s): %w", i+1, image.Filename, err)
		}
		analyses = append(analyses, models.ImageAnalysis{
			Number:   i + 1,
			Filename: image.Filename,
			Context:  text,
		})
	}
	return analyses, nil
}

func (s *extractorServiceImpl) describe(ctx context.Context, image models.UploadedImage) (string, error) {
	prompt := s.currentPrompt()
	attempt := 0

	operation := func() (string, error) {
		attempt++
		callCtx, cancel := s.opts.callContext(ctx)
		defer cancel()

		start := time.Now()
		text, err := s.model.DescribeImage(callCtx, image, prompt)
		if err != nil {
			metrics.RecordExtraction(metrics.StatusError, time.Since(start).Seconds())
			s.log.Warn("Image analysis failed",
				zap.String("filename", image.Filename),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if !IsRetryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		metrics.RecordExtraction(metrics.StatusSuccess, time.Since(start).Seconds())
		return text, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(s.opts.Retry.newBackOff()),
		backoff.WithMaxTries(s.opts.Retry.maxTries()))
}
