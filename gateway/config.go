package gateway

import (
	"fmt"
	"time"
)

// Default models, matching the transcription fallback order the service
// was tuned with: flash first, pro when flash fails.
const (
	DefaultModel = "gemini-1.5-flash"
)

// DefaultTranscriptionModels returns the ordered transcription model list.
func DefaultTranscriptionModels() []string {
	return []string{"gemini-1.5-flash", "gemini-1.5-pro"}
}

// SafetySetting relaxes or tightens a remote content filter category.
type SafetySetting struct {
	Category  string `yaml:"category" mapstructure:"category"`
	Threshold string `yaml:"threshold" mapstructure:"threshold"`
}

// DefaultSafetySettings returns the relaxed content-filter thresholds used
// for transcription. Raw speech routinely trips strict filters.
func DefaultSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
		{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
		{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
		{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
	}
}

// Config holds provider-agnostic gateway configuration. The Dialect field
// selects the backend.
type Config struct {
	// Dialect selects the provider ("gemini", "openai").
	Dialect string `yaml:"dialect" mapstructure:"dialect"`

	// APIKey authenticates against the remote service.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider's default API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Model is the model used for text generation (expand, rewrite,
	// punctuate, chat).
	Model string `yaml:"model" mapstructure:"model"`

	// TranscriptionModels is the ordered list tried for transcription.
	// The first success wins; when all fail the last error surfaces.
	TranscriptionModels []string `yaml:"transcription_models" mapstructure:"transcription_models"`

	// Timeout bounds each remote call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Safety configures the provider content filters where supported.
	Safety []SafetySetting `yaml:"safety" mapstructure:"safety"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = "gemini"
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if len(c.TranscriptionModels) == 0 {
		c.TranscriptionModels = DefaultTranscriptionModels()
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if len(c.Safety) == 0 {
		c.Safety = DefaultSafetySettings()
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("gateway: dialect is required")
	}
	if c.Model == "" {
		return fmt.Errorf("gateway: model is required")
	}
	if len(c.TranscriptionModels) == 0 {
		return fmt.Errorf("gateway: at least one transcription model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("gateway: timeout must be positive")
	}
	return nil
}
