// Package gemini implements the gateway.Provider interface on the Google
// Generative Language REST API. Importing the package registers the
// "gemini" dialect.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LoohanZinho/joraps/gateway"
	"github.com/LoohanZinho/joraps/httpclient"
)

const (
	// ProviderName is the registered dialect name.
	ProviderName = "gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second
)

func init() {
	gateway.RegisterProvider(ProviderName, NewProvider)
}

// Provider talks to the Generative Language API. The API key travels as a
// query parameter, which is how this API authenticates.
type Provider struct {
	client *httpclient.Client
	safety []safetySetting
}

// NewProvider creates a gemini provider from gateway configuration.
func NewProvider(cfg gateway.Config) (gateway.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL: baseURL,
		Timeout: timeout,
		Auth:    httpclient.APIKeyAuthQuery(cfg.APIKey, "key"),
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	safety := make([]safetySetting, 0, len(cfg.Safety))
	for _, s := range cfg.Safety {
		safety = append(safety, safetySetting{Category: s.Category, Threshold: s.Threshold})
	}

	return &Provider{client: client, safety: safety}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks that the API accepts the configured key.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := httpclient.Get[modelListResponse](p.client, ctx, "/models")
	return err == nil
}

// Transcribe sends the media inline with the transcription prompt and
// returns the text of the first candidate.
func (p *Provider) Transcribe(ctx context.Context, model string, req gateway.TranscribeRequest) (string, error) {
	body := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{Text: gateway.TranscribePrompt(req.NoiseSuppression)},
				{InlineData: &inlineData{MIMEType: req.MIMEType, Data: req.AudioData}},
			},
		}},
		SafetySettings: p.safety,
	}
	return p.generateContent(ctx, model, body)
}

// Generate sends a text-only prompt and returns the text of the first
// candidate.
func (p *Provider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	body := generateContentRequest{
		Contents:       []content{{Parts: []part{{Text: prompt}}}},
		SafetySettings: p.safety,
	}
	return p.generateContent(ctx, model, body)
}

func (p *Provider) generateContent(ctx context.Context, model string, body generateContentRequest) (string, error) {
	path := fmt.Sprintf("/models/%s:generateContent", model)
	resp, err := httpclient.Post[generateContentResponse](p.client, ctx, path, body)
	if err != nil {
		// The API reports key and quota problems in a structured error
		// body; surface its message alongside the transport error.
		if resp != nil && resp.Data.Error != nil {
			return "", fmt.Errorf("gemini generate content: %s: %w", resp.Data.Error.Message, err)
		}
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Data.text()
}

// --- internal Generative Language API types ---

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateContentRequest struct {
	Contents       []content       `json:"contents"`
	SafetySettings []safetySetting `json:"safetySettings,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

// text extracts the concatenated text parts of the first candidate.
func (r *generateContentResponse) text() (string, error) {
	if r.Error != nil {
		return "", fmt.Errorf("gemini: %s", r.Error.Message)
	}
	if len(r.Candidates) == 0 {
		return "", fmt.Errorf("gemini: response contained no candidates")
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

type modelListResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
