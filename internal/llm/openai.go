package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	openAIImagesURL          = "https://api.openai.com/v1/images/generations"

	defaultMaxTokens   = 600
	defaultTemperature = 0.8
	defaultImageSize   = "1024x1024"
)

// shared HTTP client for OpenAI API calls. The explicit timeout bounds every
// external call; nothing in this layer relies on caller defaults.
var openAIHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for OpenAI API calls (10 requests/second with burst capacity of 5)
var openAIRateLimiter = rate.NewLimiter(10, 5)

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
	N              int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// talks to the OpenAI chat completions and images endpoints
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
}

func NewOpenAIClient(config Config) *OpenAIClient {
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	if config.ImageSize == "" {
		config.ImageSize = defaultImageSize
	}

	return &OpenAIClient{
		config:     config,
		httpClient: openAIHTTPClient,
	}
}

func (c *OpenAIClient) Model() string {
	return c.config.TextModel
}

// requests a chat completion constrained to a JSON object and returns the
// raw assistant message content
func (c *OpenAIClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.config.TextModel,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := c.post(ctx, openAIChatCompletionsURL, reqBody)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// requests a base64 image for the prompt. Returns an empty string when the
// provider yields nothing, retrying once before giving up; that absence is
// not treated as an error.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	b64, err := c.generateImageOnce(ctx, prompt)
	if err != nil {
		return "", err
	}

	if b64 == "" {
		// one retry for an empty payload before declaring "no image"
		b64, err = c.generateImageOnce(ctx, prompt)
		if err != nil {
			return "", err
		}
	}

	if b64 == "" {
		return "", nil
	}

	return "data:image/png;base64," + b64, nil
}

func (c *OpenAIClient) generateImageOnce(ctx context.Context, prompt string) (string, error) {
	reqBody := imageRequest{
		Model:          c.config.ImageModel,
		Prompt:         prompt,
		Size:           c.config.ImageSize,
		ResponseFormat: "b64_json",
		N:              1,
	}

	body, err := c.post(ctx, openAIImagesURL, reqBody)
	if err != nil {
		return "", err
	}

	var parsed imageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}

	if len(parsed.Data) == 0 {
		return "", nil
	}

	return parsed.Data[0].B64JSON, nil
}

// issues one authenticated POST and returns the response body
func (c *OpenAIClient) post(ctx context.Context, url string, payload any) ([]byte, error) {
	if err := openAIRateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to openai failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("openai api error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}

		return nil, fmt.Errorf("openai api returned status %d", resp.StatusCode)
	}

	return body, nil
}
