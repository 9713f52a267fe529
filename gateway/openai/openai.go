// Package openai implements the gateway.Provider interface on the OpenAI
// API: Whisper for transcription, chat completions for text generation.
// Importing the package registers the "openai" dialect.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/LoohanZinho/joraps/gateway"
)

const (
	// ProviderName is the registered dialect name.
	ProviderName = "openai"

	defaultChatModel = goopenai.GPT4oMini
)

func init() {
	gateway.RegisterProvider(ProviderName, NewProvider)
}

// Provider talks to the OpenAI API through the official-style SDK client.
type Provider struct {
	client *goopenai.Client
}

// NewProvider creates an openai provider from gateway configuration.
func NewProvider(cfg gateway.Config) (gateway.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks that the API accepts the configured key.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Transcribe decodes the base64 media and runs it through Whisper. The
// model argument selects the transcription model; gemini-style names fall
// back to whisper-1 so a shared model list does not break this dialect.
func (p *Provider) Transcribe(ctx context.Context, model string, req gateway.TranscribeRequest) (string, error) {
	audio, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		return "", fmt.Errorf("openai transcribe: decode audio: %w", err)
	}

	if !strings.HasPrefix(model, "whisper") {
		model = goopenai.Whisper1
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: "audio" + extensionFor(req.MIMEType),
		Reader:   bytes.NewReader(audio),
		Prompt:   gateway.TranscribePrompt(req.NoiseSuppression),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcribe: %w", err)
	}
	return resp.Text, nil
}

// Generate runs a single-message chat completion and returns the first
// choice.
func (p *Provider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultChatModel
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// extensionFor maps a declared media type to the file extension Whisper
// expects on the upload name.
func extensionFor(mimeType string) string {
	base, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ".webm"
	}
	switch base {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav":
		return ".wav"
	case "audio/mp4", "video/mp4", "audio/x-m4a":
		return ".mp4"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".webm"
	}
}
