// Package history keeps the durable list of past transcriptions, newest
// first.
package history

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/kv"
	"github.com/LoohanZinho/joraps/logger"
)

// Entry is one saved transcription.
type Entry struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Store persists the history list under a single key in the kv store. The
// whole list is re-serialized on every mutation; histories are short and
// the simplicity beats incremental updates.
type Store struct {
	kv  kv.Store
	log *logger.Logger
}

// NewStore creates a history store over the given kv backend.
func NewStore(backend kv.Store, log *logger.Logger) *Store {
	if log == nil {
		log = logger.WithComponent("history")
	}
	return &Store{kv: backend, log: log}
}

// List returns all entries, newest first. Missing or corrupt storage
// degrades to an empty list; persistence problems must never take the
// transcription flow down.
func (s *Store) List(ctx context.Context) []Entry {
	var entries []Entry
	found, err := s.kv.Get(ctx, kv.KeyTranscriptionHistory, &entries)
	if err != nil {
		s.log.Warn("failed to load history, starting empty", logger.Fields(
			logger.FieldError, err.Error(),
		))
		return nil
	}
	if !found {
		return nil
	}
	return entries
}

// Len returns the number of saved entries.
func (s *Store) Len(ctx context.Context) int {
	return len(s.List(ctx))
}

// Append prepends a new entry dated now and persists the list.
func (s *Store) Append(ctx context.Context, text string) (Entry, error) {
	entry := Entry{Text: text, Date: time.Now().UTC()}
	entries := append([]Entry{entry}, s.List(ctx)...)
	if err := s.kv.Set(ctx, kv.KeyTranscriptionHistory, entries); err != nil {
		return Entry{}, apperrors.Storage(err)
	}
	return entry, nil
}

// Remove deletes the entry at the given index (0 is the newest) and
// persists the rest.
func (s *Store) Remove(ctx context.Context, index int) error {
	entries := s.List(ctx)
	if index < 0 || index >= len(entries) {
		return apperrors.InvalidInput(fmt.Sprintf("history index %d out of range [0,%d)", index, len(entries)))
	}
	entries = append(entries[:index], entries[index+1:]...)
	if err := s.kv.Set(ctx, kv.KeyTranscriptionHistory, entries); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeyTranscriptionHistory); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}
