package services

import (
	"context"
	"iter"

	"github/itish2003/neuronova/models"
)

// VisionModel turns one image plus an instruction into free text.
type VisionModel interface {
	DescribeImage(ctx context.Context, image models.UploadedImage, prompt string) (string, error)
}

// ChatModel answers a prompt in a brand-new conversation, yielding text
// fragments as the model produces them.
type ChatModel interface {
	StreamChat(ctx context.Context, prompt string) iter.Seq2[string, error]
}
