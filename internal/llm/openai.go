package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/liliang-cn/askpdf/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint
type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	HTTPClient  *http.Client
}

// OpenAIClient is a Generator over any OpenAI-compatible API (Groq by default)
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIClient creates a client. A missing key is a configuration error.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing llm api key", domain.ErrConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: missing llm model", domain.ErrConfig)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends prompt as a single user message.
// Every failure, including an empty choice list, is reported as domain.ErrRemoteCall.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (domain.Completion, error) {
	temperature := c.temperature
	if temperature == 0 {
		// a zero temperature is dropped by omitempty and the provider default applies
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return domain.Completion{}, fmt.Errorf("%w: status %d: %s", domain.ErrRemoteCall, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return domain.Completion{}, fmt.Errorf("%w: %v", domain.ErrRemoteCall, err)
	}

	if len(resp.Choices) == 0 {
		return domain.Completion{}, fmt.Errorf("%w: no choices returned", domain.ErrRemoteCall)
	}

	return domain.Completion{
		Text:   resp.Choices[0].Message.Content,
		Tokens: resp.Usage.TotalTokens,
	}, nil
}
