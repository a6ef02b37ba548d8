package dto

type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,prompt_text"`
}

type ImageResponse struct {
	Prompt string `json:"prompt"`
	Image  string `json:"image"`
}

type ImagesResponse struct {
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}
