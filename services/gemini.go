package services

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github/itish2003/neuronova/models"
)

// GeminiVisionModel sends an image and an instruction to a multimodal Gemini model.
type GeminiVisionModel struct {
	client *genai.Client
	model  string
}

func NewGeminiVisionModel(client *genai.Client, model string) *GeminiVisionModel {
	return &GeminiVisionModel{client: client, model: model}
}

func (g *GeminiVisionModel) DescribeImage(ctx context.Context, image models.UploadedImage, prompt string) (string, error) {
	// The image goes first, followed by the instruction.
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Data, image.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	return result.Text(), nil
}

// GeminiChatModel starts a chat with no history for every prompt and streams the reply.
type GeminiChatModel struct {
	client *genai.Client
	model  string
}

func NewGeminiChatModel(client *genai.Client, model string) *GeminiChatModel {
	return &GeminiChatModel{client: client, model: model}
}

func (g *GeminiChatModel) StreamChat(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		session, err := g.client.Chats.Create(ctx, g.model, nil, nil)
		if err != nil {
			yield("", fmt.Errorf("could not start new chat session: %w", err))
			return
		}

		for result, err := range session.SendMessageStream(ctx, genai.Part{Text: prompt}) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream failed: %w", err))
				return
			}
			if !yield(result.Text(), nil) {
				return
			}
		}
	}
}
