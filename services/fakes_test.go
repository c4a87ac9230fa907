package services

import (
	"context"
	"iter"
	"sync"

	"github/itish2003/neuronova/models"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func pngImage(name string) models.UploadedImage {
	return models.UploadedImage{Filename: name, MIMEType: "image/png", Data: pngBytes}
}

// fakeVisionModel answers with "analysis of <filename>" unless an error is
// queued for the call.
type fakeVisionModel struct {
	mu      sync.Mutex
	calls   []models.UploadedImage
	prompts []string
	replies map[string]string
	errs    []error
}

func (f *fakeVisionModel) DescribeImage(_ context.Context, image models.UploadedImage, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, image)
	f.prompts = append(f.prompts, prompt)

	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if reply, ok := f.replies[image.Filename]; ok {
		return reply, nil
	}
	return "analysis of " + image.Filename, nil
}

func (f *fakeVisionModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeChatModel streams chunks for every call. openErrs fail a call before
// its first chunk; failAfter fails a call once that many chunks were sent.
type fakeChatModel struct {
	mu        sync.Mutex
	prompts   []string
	chunks    []string
	openErrs  []error
	failAfter int
	failErr   error
}

func (f *fakeChatModel) StreamChat(_ context.Context, prompt string) iter.Seq2[string, error] {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	var openErr error
	if len(f.openErrs) > 0 {
		openErr = f.openErrs[0]
		f.openErrs = f.openErrs[1:]
	}
	f.mu.Unlock()

	return func(yield func(string, error) bool) {
		if openErr != nil {
			yield("", openErr)
			return
		}
		for i, chunk := range f.chunks {
			if f.failErr != nil && i == f.failAfter {
				yield("", f.failErr)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func (f *fakeChatModel) sentPrompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
