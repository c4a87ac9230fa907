package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	"github/itish2003/neuronova/models"
)

func newTestExtractor(t *testing.T, model VisionModel, opts ModelOptions) ExtractorService {
	return NewExtractorService(model, "", opts, zaptest.NewLogger(t))
}

func fastRetry(n int) ModelOptions {
	return ModelOptions{Retry: RetryPolicy{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}}
}

func TestExtract_ReturnsContext(t *testing.T) {
	model := &fakeVisionModel{replies: map[string]string{"loop.png": "This is a for-loop problem."}}
	extractor := newTestExtractor(t, model, ModelOptions{})

	text, err := extractor.Extract(context.Background(), pngImage("loop.png"))
	require.NoError(t, err)
	assert.Equal(t, "This is a for-loop problem.", text)
	require.Len(t, model.prompts, 1)
	assert.Equal(t, DefaultImagePrompt, model.prompts[0])
}

func TestExtract_MissingFileMakesNoCall(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := newTestExtractor(t, model, ModelOptions{})

	_, err := extractor.Extract(context.Background(), models.UploadedImage{Filename: "empty.png", MIMEType: "image/png"})
	assert.ErrorIs(t, err, ErrMissingFile)
	assert.True(t, IsInputError(err))
	assert.Equal(t, 0, model.callCount())
}

func TestExtract_UnsupportedType(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := newTestExtractor(t, model, ModelOptions{})

	_, err := extractor.Extract(context.Background(), models.UploadedImage{Filename: "a.gif", MIMEType: "image/gif", Data: []byte("GIF89a")})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Equal(t, 0, model.callCount())
}

func TestExtractAll_PreservesUploadOrder(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := newTestExtractor(t, model, ModelOptions{})

	images := []models.UploadedImage{pngImage("first.png"), pngImage("second.png"), pngImage("third.png")}
	analyses, err := extractor.ExtractAll(context.Background(), images)
	require.NoError(t, err)

	require.Len(t, analyses, 3)
	for i, analysis := range analyses {
		assert.Equal(t, i+1, analysis.Number)
		assert.Equal(t, images[i].Filename, analysis.Filename)
		assert.Equal(t, "analysis of "+images[i].Filename, analysis.Context)
		assert.Equal(t, images[i].Filename, model.calls[i].Filename)
	}
}

func TestExtractAll_NoImages(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := newTestExtractor(t, model, ModelOptions{})

	analyses, err := extractor.ExtractAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, analyses)
	assert.Equal(t, 0, model.callCount())
}

func TestExtractAll_MissingSlotAbortsBeforeAnyCall(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := newTestExtractor(t, model, ModelOptions{})

	images := []models.UploadedImage{pngImage("ok.png"), {Filename: "blank.png", MIMEType: "image/png"}}
	analyses, err := extractor.ExtractAll(context.Background(), images)

	assert.ErrorIs(t, err, ErrMissingFile)
	assert.Contains(t, err.Error(), "blank.png")
	assert.Nil(t, analyses)
	assert.Equal(t, 0, model.callCount())
}

func TestExtractAll_ModelFailureAbortsRemaining(t *testing.T) {
	boom := errors.New("quota exhausted")
	model := &fakeVisionModel{errs: []error{nil, boom}}
	extractor := newTestExtractor(t, model, ModelOptions{})

	images := []models.UploadedImage{pngImage("a.png"), pngImage("b.png"), pngImage("c.png")}
	analyses, err := extractor.ExtractAll(context.Background(), images)

	assert.ErrorIs(t, err, boom)
	assert.False(t, IsInputError(err))
	assert.Nil(t, analyses)
	assert.Equal(t, 2, model.callCount())
}

func TestExtract_RetriesRetryableErrors(t *testing.T) {
	model := &fakeVisionModel{errs: []error{genai.APIError{Code: 503, Message: "overloaded"}}}
	extractor := newTestExtractor(t, model, fastRetry(2))

	text, err := extractor.Extract(context.Background(), pngImage("a.png"))
	require.NoError(t, err)
	assert.Equal(t, "analysis of a.png", text)
	assert.Equal(t, 2, model.callCount())
}

func TestExtract_GivesUpAfterMaxRetries(t *testing.T) {
	unavailable := genai.APIError{Code: 429, Message: "slow down"}
	model := &fakeVisionModel{errs: []error{unavailable, unavailable, unavailable, unavailable}}
	extractor := newTestExtractor(t, model, fastRetry(2))

	_, err := extractor.Extract(context.Background(), pngImage("a.png"))
	assert.Error(t, err)
	assert.Equal(t, 3, model.callCount())
}

func TestExtract_DoesNotRetryPermanentErrors(t *testing.T) {
	model := &fakeVisionModel{errs: []error{genai.APIError{Code: 400, Message: "bad request"}}}
	extractor := newTestExtractor(t, model, fastRetry(3))

	_, err := extractor.Extract(context.Background(), pngImage("a.png"))
	var apiErr genai.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, 1, model.callCount())
}

func TestExtract_NoRetryByDefault(t *testing.T) {
	model := &fakeVisionModel{errs: []error{genai.APIError{Code: 503}}}
	extractor := newTestExtractor(t, model, ModelOptions{})

	_, err := extractor.Extract(context.Background(), pngImage("a.png"))
	assert.Error(t, err)
	assert.Equal(t, 1, model.callCount())
}

func TestExtract_SniffsMissingMIMEType(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := newTestExtractor(t, model, ModelOptions{})

	_, err := extractor.Extract(context.Background(), models.UploadedImage{Filename: "shot", Data: jpegBytes})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", model.calls[0].MIMEType)
}

func TestSetPrompt(t *testing.T) {
	model := &fakeVisionModel{}
	extractor := NewExtractorService(model, "Initial prompt", ModelOptions{}, zaptest.NewLogger(t))

	_, err := extractor.Extract(context.Background(), pngImage("a.png"))
	require.NoError(t, err)

	extractor.SetPrompt("Reloaded prompt")
	_, err = extractor.Extract(context.Background(), pngImage("b.png"))
	require.NoError(t, err)

	extractor.SetPrompt("   ")
	_, err = extractor.Extract(context.Background(), pngImage("c.png"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Initial prompt", "Reloaded prompt", DefaultImagePrompt}, model.prompts)
}
