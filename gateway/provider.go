package gateway

import (
	"context"
	"fmt"
	"sync"
)

// Provider is the interface AI backends must implement.
//
// Provider implementations live in subpackages (gateway/gemini,
// gateway/openai) and register themselves at init time; importing the
// driver package registers the dialect as a side-effect.
type Provider interface {
	// Name returns the provider identifier (e.g. "gemini", "openai").
	Name() string

	// IsAvailable reports whether the remote service is reachable with the
	// configured credentials.
	IsAvailable(ctx context.Context) bool

	// Transcribe sends media to the given model and returns the raw
	// transcription text.
	Transcribe(ctx context.Context, model string, req TranscribeRequest) (string, error)

	// Generate sends a text prompt to the given model and returns the raw
	// response text.
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// Factory builds a Provider from gateway configuration.
type Factory func(cfg Config) (Provider, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// RegisterProvider adds a provider factory to the global registry.
// Typically called from init() in driver packages:
//
//	func init() {
//	    gateway.RegisterProvider("gemini", NewProvider)
//	}
func RegisterProvider(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// NewProvider builds the provider selected by cfg.Dialect.
func NewProvider(cfg Config) (Provider, error) {
	factoriesMu.RLock()
	f, ok := factories[cfg.Dialect]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("gateway: unknown dialect %q (forgot to import driver?)", cfg.Dialect)
	}
	return f(cfg)
}

// Providers returns the names of all registered provider factories.
func Providers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
