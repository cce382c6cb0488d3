package llm

import (
	"context"
	"fmt"
	"net/http"
)

const (
	// ProviderOpenAI selects the OpenAI chat completions API.
	ProviderOpenAI = "openai"
	// ProviderAnthropic selects the Anthropic messages API.
	ProviderAnthropic = "anthropic"

	// DefaultOpenAIModel is the OpenAI model used when none is configured.
	DefaultOpenAIModel = "gpt-4"
	// DefaultAnthropicModel is the Anthropic model used when none is configured.
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	// DefaultMaxTokens bounds the length of a single completion.
	DefaultMaxTokens = 4096
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (text string, err error)
}

// CompletionRequest is a single prompt sent to a language model.
type CompletionRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// Kind classifies completion failures.
type Kind int

const (
	// KindNetwork covers transport failures, timeouts and cancellation.
	KindNetwork Kind = iota
	// KindAuth is a rejected or missing credential.
	KindAuth
	// KindQuota is a rate limit or exhausted quota.
	KindQuota
	// KindAPI is any other error status returned by the provider.
	KindAPI
	// KindEmpty is a successful response that carried no text.
	KindEmpty
)

// String returns the kind name.
func (k Kind) String() (name string) {
	switch k {
	case KindNetwork:
		name = "network"
	case KindAuth:
		name = "auth"
	case KindQuota:
		name = "quota"
	case KindAPI:
		name = "api"
	case KindEmpty:
		name = "empty"
	default:
		name = "unknown"
	}
	return name
}

// CompletionError is returned by every Completer implementation.
type CompletionError struct {
	Provider   string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() (msg string) {
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s completion failed (%s, status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
		return msg
	}
	msg = fmt.Sprintf("%s completion failed (%s): %v", e.Provider, e.Kind, e.Err)
	return msg
}

// Unwrap returns the underlying provider error.
func (e *CompletionError) Unwrap() (err error) {
	err = e.Err
	return err
}

// kindForStatus maps an HTTP status returned by a provider to a failure kind.
func kindForStatus(status int) (kind Kind) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusTooManyRequests:
		kind = KindQuota
	case status >= http.StatusInternalServerError:
		kind = KindNetwork
	default:
		kind = KindAPI
	}
	return kind
}
