package main

import (
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/llm"
	"codeberg.org/cosmicquirks/server/internal/oracle"
)

// creates and configures all service clients
func InitializeServices(cfg *config.Config) *Services {
	client := llm.NewOpenAIClient(llm.Config{
		Provider:    llm.ProviderOpenAI,
		APIKey:      cfg.OpenAIKey,
		TextModel:   cfg.OpenAITextModel,
		MaxTokens:   1000,
		Temperature: 0.9,
		ImageModel:  cfg.OpenAIImageModel,
		ImageSize:   "1024x1024",
	})

	return &Services{
		Oracle: oracle.New(client, client),
		Text:   client,
		Images: client,
	}
}
