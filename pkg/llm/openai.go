package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkg/errors"
)

// OpenAIClient completes prompts with the OpenAI chat completions API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates an OpenAI completer. Retries are disabled; failures surface to the caller.
func NewOpenAIClient(apiKey, baseURL string) (client *OpenAIClient) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client = &OpenAIClient{
		client: openai.NewClient(opts...),
	}
	return client
}

// Complete sends the prompt as a single user message.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (text string, err error) {
	model := req.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	var completion *openai.ChatCompletion
	completion, err = c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		err = classifyOpenAIError(err)
		return text, err
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		err = &CompletionError{
			Provider: ProviderOpenAI,
			Kind:     KindEmpty,
			Err:      errors.New("no content in OpenAI response"),
		}
		return text, err
	}

	text = completion.Choices[0].Message.Content
	return text, err
}

// classifyOpenAIError wraps an SDK error in a CompletionError.
func classifyOpenAIError(err error) (classified error) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		classified = &CompletionError{
			Provider:   ProviderOpenAI,
			Kind:       kindForStatus(apiErr.StatusCode),
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
		return classified
	}

	classified = &CompletionError{
		Provider: ProviderOpenAI,
		Kind:     KindNetwork,
		Err:      err,
	}
	return classified
}
