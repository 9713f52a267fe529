// Package prefs holds the persisted user preference flags.
package prefs

import (
	"context"
	"sync"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/kv"
	"github.com/LoohanZinho/joraps/logger"
)

// Preferences caches the flags in memory and writes through to the kv
// store on every mutation. Values load once at construction; unreadable
// storage falls back to the defaults.
type Preferences struct {
	kv  kv.Store
	log *logger.Logger

	mu               sync.RWMutex
	noiseSuppression bool
	effect3D         bool
}

// Load creates the preference set, reading persisted values. Both flags
// default to true.
func Load(ctx context.Context, backend kv.Store, log *logger.Logger) *Preferences {
	if log == nil {
		log = logger.WithComponent("prefs")
	}
	p := &Preferences{
		kv:               backend,
		log:              log,
		noiseSuppression: true,
		effect3D:         true,
	}
	p.noiseSuppression = p.read(ctx, kv.KeyNoiseSuppression, true)
	p.effect3D = p.read(ctx, kv.Key3DEffect, true)
	return p
}

func (p *Preferences) read(ctx context.Context, key string, fallback bool) bool {
	var v bool
	found, err := p.kv.Get(ctx, key, &v)
	if err != nil {
		p.log.Warn("failed to load preference, using default", logger.Fields(
			"key", key,
			logger.FieldError, err.Error(),
		))
		return fallback
	}
	if !found {
		return fallback
	}
	return v
}

// NoiseSuppression reports whether transcription prompts ask the model to
// ignore background noise.
func (p *Preferences) NoiseSuppression() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.noiseSuppression
}

// SetNoiseSuppression updates the flag and persists it.
func (p *Preferences) SetNoiseSuppression(ctx context.Context, enabled bool) error {
	return p.write(ctx, kv.KeyNoiseSuppression, enabled, func() { p.noiseSuppression = enabled })
}

// Effect3D reports the 3D visual effect flag. The service renders no UI;
// the flag is persisted on behalf of API clients that do.
func (p *Preferences) Effect3D() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.effect3D
}

// SetEffect3D updates the flag and persists it.
func (p *Preferences) SetEffect3D(ctx context.Context, enabled bool) error {
	return p.write(ctx, kv.Key3DEffect, enabled, func() { p.effect3D = enabled })
}

func (p *Preferences) write(ctx context.Context, key string, v bool, commit func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.kv.Set(ctx, key, v); err != nil {
		return apperrors.Storage(err)
	}
	commit()
	return nil
}
