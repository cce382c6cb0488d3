package llm

import (
	"strings"

	"github.com/pkg/errors"
)

// Settings configures a completion provider.
type Settings struct {
	Provider string
	APIKey   string
	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	BaseURL string
}

// NewCompleter builds the Completer for the configured provider.
// A missing API key fails here rather than on the first request.
func NewCompleter(settings Settings) (completer Completer, err error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}

	if settings.APIKey == "" {
		err = errors.Errorf("%s API key is required", provider)
		return completer, err
	}

	switch provider {
	case ProviderOpenAI:
		completer = NewOpenAIClient(settings.APIKey, settings.BaseURL)
	case ProviderAnthropic:
		completer = NewAnthropicClient(settings.APIKey, settings.BaseURL)
	default:
		err = errors.Errorf("unknown provider '%s': must be '%s' or '%s'", provider, ProviderOpenAI, ProviderAnthropic)
		return completer, err
	}

	return completer, err
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(provider string) (model string) {
	if strings.EqualFold(provider, ProviderAnthropic) {
		model = DefaultAnthropicModel
		return model
	}
	model = DefaultOpenAIModel
	return model
}

// StripMarkdownFences removes a code fence wrapping the whole response, such as
// "```markdown ... ```". Models often wrap generated documents this way.
func StripMarkdownFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		cleaned = text
		return cleaned
	}

	// Drop the opening fence line, including any language tag
	newline := strings.Index(cleaned, "\n")
	if newline == -1 {
		cleaned = text
		return cleaned
	}

	cleaned = cleaned[newline+1 : len(cleaned)-3]
	cleaned = strings.TrimRight(cleaned, " \r\n")

	return cleaned
}
