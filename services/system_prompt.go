package services

import "strings"

// DefaultImagePrompt is the instruction sent alongside every uploaded image.
const DefaultImagePrompt = `You are an expert assignment solver capable of solving coding problems by analyzing images.
Your task is to examine the uploaded images, understand the coding problems depicted, and generate
corresponding Java code that is functional and free of bugs. Please ensure that your responses are
clear, concise, and provide explanations where necessary.`

// GetImagePrompt returns the configured instruction, or DefaultImagePrompt when none is set.
func GetImagePrompt(configured string) string {
	if strings.TrimSpace(configured) == "" {
		return DefaultImagePrompt
	}
	return configured
}
