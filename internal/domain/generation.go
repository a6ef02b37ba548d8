package domain

import (
	"context"
	"strings"
)

const ImageDataURIPrefix = "data:image/jpeg;base64,"

type GenerationRequest struct {
	Prompt string `json:"prompt"`
}

// Trimmed returns the prompt with surrounding whitespace removed.
func (r GenerationRequest) Trimmed() string {
	return strings.TrimSpace(r.Prompt)
}

type GenerationResult struct {
	Prompt string   `json:"prompt"`
	Image  string   `json:"image,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ImageAPI is the upstream that turns a prompt into raw image bytes.
type ImageAPI interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type DirectGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

type BrowserGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
	Refresh(ctx context.Context) (*GenerationResult, error)
}
