// Package gateway routes transcription, text-transformation, and chat
// requests to a pluggable AI backend.
//
// Backends implement the Provider interface and register themselves under
// a dialect name at init time; importing a driver package wires it in:
//
//	import _ "github.com/LoohanZinho/joraps/gateway/gemini"
//
//	provider, err := gateway.NewProvider(cfg)
//	g := gateway.New(provider, cfg, log)
//	text, err := g.Transcribe(ctx, req)
//
// Transcription tries each model in Config.TranscriptionModels in order
// and surfaces only the last error when every model fails. Empty or
// whitespace-only audio resolves to an empty transcription without a
// remote call.
package gateway
