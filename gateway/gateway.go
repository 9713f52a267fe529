package gateway

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/httpclient"
	"github.com/LoohanZinho/joraps/logger"
	"github.com/LoohanZinho/joraps/observability"
	"github.com/LoohanZinho/joraps/resilience"
)

// Gateway routes AI operations to a configured Provider, applying model
// fallback for transcription and translating provider failures into
// application errors. It holds no conversational state; chat history is
// passed in on each call.
type Gateway struct {
	provider Provider
	cfg      Config
	log      *logger.Logger
}

// New creates a Gateway on an explicit provider. The provider is injected
// rather than resolved globally so tests can substitute a fake.
func New(provider Provider, cfg Config, log *logger.Logger) *Gateway {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.WithComponent("gateway")
	}
	return &Gateway{provider: provider, cfg: cfg, log: log}
}

// Provider returns the underlying provider.
func (g *Gateway) Provider() Provider { return g.provider }

// IsAvailable reports whether the backing service is reachable.
func (g *Gateway) IsAvailable(ctx context.Context) bool {
	return g.provider.IsAvailable(ctx)
}

// Transcribe converts base64 media into text. Empty or whitespace-only
// audio resolves to an empty transcription without a remote call. Each
// configured transcription model is tried in order; when all fail, the
// error from the last model surfaces.
func (g *Gateway) Transcribe(ctx context.Context, req TranscribeRequest) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrMIMEType, req.MIMEType)

	if strings.TrimSpace(req.AudioData) == "" {
		g.log.Warn("skipping transcription for empty audio data")
		return "", nil
	}

	fallbackCfg := resilience.FallbackConfig{
		OnFallback: func(model string, err error) {
			g.log.Warn("transcription model failed, trying next", logger.Fields(
				logger.FieldModel, model,
				logger.FieldError, err.Error(),
			))
		},
	}

	text, err := resilience.Fallback(ctx, fallbackCfg, g.cfg.TranscriptionModels,
		func(ctx context.Context, model string) (string, error) {
			g.log.Debug("attempting transcription", logger.Fields(logger.FieldModel, model))
			raw, err := g.provider.Transcribe(ctx, model, req)
			if err != nil {
				return "", err
			}
			observability.SetSpanAttribute(ctx, observability.AttrModel, model)
			return raw, nil
		})
	if err != nil {
		observability.SetSpanError(ctx, err)
		return "", g.translateError(err)
	}
	return text, nil
}

// Expand returns a more detailed version of the text.
func (g *Gateway) Expand(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, ActionExpand, expandPrompt(text))
}

// Rewrite returns a more concise, professional version of the text.
func (g *Gateway) Rewrite(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, ActionRewrite, rewritePrompt(text))
}

// Punctuate returns the text with punctuation and grammar cleaned up.
func (g *Gateway) Punctuate(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, ActionPunctuate, punctuatePrompt(text))
}

// Chat answers a question about a transcript, using prior history for
// conversational context.
func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (string, error) {
	return g.generate(ctx, ActionChat, chatPrompt(req.Transcript, req.History, req.Question))
}

// generate runs a single stateless text-generation call on the main model.
func (g *Gateway) generate(ctx context.Context, action Action, prompt string) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanGenerate)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrModel, g.cfg.Model)

	g.log.Debug("generating", logger.Fields(
		logger.FieldAction, string(action),
		logger.FieldModel, g.cfg.Model,
	))

	text, err := g.provider.Generate(ctx, g.cfg.Model, prompt)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return "", g.translateError(err)
	}
	if strings.TrimSpace(text) == "" {
		err := apperrors.EmptyResponse()
		observability.SetSpanError(ctx, err)
		return "", err
	}
	return text, nil
}

// invalidKeyFragment appears in the remote error payload when the API key
// is rejected.
const invalidKeyFragment = "API key not valid"

// translateError maps provider and transport failures onto application
// errors. Already-translated AppErrors pass through unchanged.
func (g *Gateway) translateError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case strings.Contains(err.Error(), invalidKeyFragment), httpclient.IsAuth(err):
		return apperrors.InvalidCredential().WithCause(err)
	case httpclient.IsTimeout(err):
		return apperrors.Timeout("ai request").WithCause(err)
	default:
		return apperrors.Gateway(err)
	}
}
