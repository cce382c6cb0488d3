package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// AnthropicClient completes prompts with the Claude messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a Claude completer. Retries are disabled; failures surface to the caller.
func NewAnthropicClient(apiKey, baseURL string) (client *AnthropicClient) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client = &AnthropicClient{
		client: anthropic.NewClient(opts...),
	}
	return client
}

// Complete sends the prompt as a single user message and joins the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (text string, err error) {
	model := req.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	var message *anthropic.Message
	message, err = c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   DefaultMaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		err = classifyAnthropicError(err)
		return text, err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text = sb.String()
	if strings.TrimSpace(text) == "" {
		err = &CompletionError{
			Provider: ProviderAnthropic,
			Kind:     KindEmpty,
			Err:      errors.New("no content in Claude response"),
		}
		return text, err
	}

	return text, err
}

// classifyAnthropicError wraps an SDK error in a CompletionError.
func classifyAnthropicError(err error) (classified error) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		classified = &CompletionError{
			Provider:   ProviderAnthropic,
			Kind:       kindForStatus(apiErr.StatusCode),
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
		return classified
	}

	classified = &CompletionError{
		Provider: ProviderAnthropic,
		Kind:     KindNetwork,
		Err:      err,
	}
	return classified
}
