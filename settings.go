package urlvault

import (
	"context"
	"strings"
)

// Model providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Content extractors.
const (
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
)

// Raw section formats.
const (
	RawFormatText     = "text"
	RawFormatMarkdown = "markdown"
)

// Default setting values.
const (
	DefaultModel        = "gemini-2.5-flash"
	DefaultClaudeModel  = "claude-sonnet-4-5"
	DefaultOutputFolder = "articles"
	DefaultTags         = "news"
	DefaultMaxChars     = 12000
	DefaultMaxRetries   = 3
)

// Settings holds the process-wide configuration. It is loaded once,
// backfilled from DefaultSettings, and read-only during an import.
type Settings struct {
	Model           string `json:"model"`
	Provider        string `json:"provider"`
	OutputFolder    string `json:"outputFolder"`
	DefaultTags     string `json:"defaultTags"`
	MaxChars        int    `json:"maxChars"`
	MaxRetries      int    `json:"maxRetries"`
	OpenAfterCreate bool   `json:"openAfterCreate"`
	IncludeRaw      bool   `json:"includeRaw"`
	IncludeLinks    bool   `json:"includeLinks"`
	IncludeImages   bool   `json:"includeImages"`
	UseCustomPrompt bool   `json:"useCustomPrompt"`
	CustomPrompt    string `json:"customPrompt"`
	VerboseLogging  bool   `json:"verboseLogging"`
	Extractor       string `json:"extractor"`
	RawFormat       string `json:"rawFormat"`
	Render          bool   `json:"render"`

	// APIKeys maps a provider to a fallback key, used only when the secret
	// store has no key for that provider.
	APIKeys map[string]string `json:"apiKeys,omitempty"`
}

// DefaultSettings returns the fixed default configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Model:           DefaultModel,
		Provider:        ProviderGemini,
		OutputFolder:    DefaultOutputFolder,
		DefaultTags:     DefaultTags,
		MaxChars:        DefaultMaxChars,
		MaxRetries:      DefaultMaxRetries,
		OpenAfterCreate: true,
		IncludeRaw:      true,
		Extractor:       ExtractorReadability,
		RawFormat:       RawFormatText,
	}
}

// Validate returns an error if the settings contain invalid fields.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Model) == "" {
		return Errorf(EINVALID, "model required")
	}
	if s.MaxChars <= 0 {
		return Errorf(EINVALID, "max chars must be positive")
	}
	if s.MaxRetries < 0 {
		return Errorf(EINVALID, "max retries must not be negative")
	}
	if !IsProvider(s.Provider) {
		return Errorf(EINVALID, "unknown provider %q", s.Provider)
	}
	if p := ModelProvider(s.Model); p != "" && p != s.Provider {
		return Errorf(EINVALID, "model %q is not served by provider %q", s.Model, s.Provider)
	}
	switch s.Extractor {
	case ExtractorReadability, ExtractorTrafilatura:
	default:
		return Errorf(EINVALID, "unknown extractor %q", s.Extractor)
	}
	switch s.RawFormat {
	case RawFormatText, RawFormatMarkdown:
	default:
		return Errorf(EINVALID, "unknown raw format %q", s.RawFormat)
	}
	return nil
}

// SetProvider switches to provider. A blank model, or one that belongs to
// another provider, is replaced by the provider's default model.
func (s *Settings) SetProvider(provider string) {
	s.Provider = provider
	if strings.TrimSpace(s.Model) == "" {
		s.Model = DefaultModelFor(provider)
		return
	}
	if p := ModelProvider(s.Model); p != "" && p != provider {
		s.Model = DefaultModelFor(provider)
	}
}

// APIKeyFor returns the fallback key stored for provider.
func (s *Settings) APIKeyFor(provider string) string {
	return s.APIKeys[provider]
}

// SetAPIKey stores the fallback key for provider. An empty key removes it.
func (s *Settings) SetAPIKey(provider, key string) {
	if key == "" {
		delete(s.APIKeys, provider)
		return
	}
	if s.APIKeys == nil {
		s.APIKeys = make(map[string]string)
	}
	s.APIKeys[provider] = key
}

// Tags returns the normalized default tag list.
func (s *Settings) Tags() []string {
	return NormalizeTags(s.DefaultTags)
}

// PromptTemplate returns the custom template when it is enabled and not
// blank, and an empty string (meaning the default template) otherwise.
func (s *Settings) PromptTemplate() string {
	if !s.UseCustomPrompt || strings.TrimSpace(s.CustomPrompt) == "" {
		return ""
	}
	return s.CustomPrompt
}

// SettingsStore persists settings.
type SettingsStore interface {
	// Load returns the stored settings. Keys missing from storage are
	// backfilled from DefaultSettings; a missing store yields the defaults.
	Load(ctx context.Context) (*Settings, error)

	// Save persists the settings.
	Save(ctx context.Context, s *Settings) error
}

// IsProvider reports whether provider is a supported model provider.
func IsProvider(provider string) bool {
	return provider == ProviderGemini || provider == ProviderAnthropic
}

// DefaultModelFor returns the default model of provider.
func DefaultModelFor(provider string) string {
	if provider == ProviderAnthropic {
		return DefaultClaudeModel
	}
	return DefaultModel
}

// ModelProvider returns the provider serving model, judged by its family
// prefix, or an empty string when the name does not identify one.
func ModelProvider(model string) string {
	m := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(model)), "models/")
	switch {
	case strings.HasPrefix(m, "claude"):
		return ProviderAnthropic
	case strings.HasPrefix(m, "gemini"), strings.HasPrefix(m, "gemma"):
		return ProviderGemini
	}
	return ""
}

// NormalizeTags splits a comma-separated tag list, trimming entries and
// dropping empty ones.
func NormalizeTags(csv string) []string {
	var tags []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
