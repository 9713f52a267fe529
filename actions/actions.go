// Package actions runs the transcript post-processing operations: expand,
// rewrite, punctuate.
package actions

import (
	"context"
	"sync"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/logger"
	"github.com/LoohanZinho/joraps/pipeline"
)

// Kind identifies a post-processing action.
type Kind string

const (
	KindExpand    Kind = "expand"
	KindRewrite   Kind = "rewrite"
	KindPunctuate Kind = "punctuate"
)

// Valid reports whether the kind is a known action.
func (k Kind) Valid() bool {
	switch k {
	case KindExpand, KindRewrite, KindPunctuate:
		return true
	}
	return false
}

// State is the per-action status.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateError      State = "error"
)

// Transformer is the slice of the AI gateway the runner needs.
type Transformer interface {
	Expand(ctx context.Context, text string) (string, error)
	Rewrite(ctx context.Context, text string) (string, error)
	Punctuate(ctx context.Context, text string) (string, error)
}

// Status is one action's current state and last error.
type Status struct {
	State State               `json:"state"`
	Err   *apperrors.AppError `json:"error,omitempty"`
}

// Runner applies actions to the pipeline's transcript. Each kind tracks
// its own idle/processing/error status; actions are refused while the
// pipeline is capturing or transcribing, and a failed action never touches
// the transcript.
type Runner struct {
	gw   Transformer
	pipe *pipeline.Pipeline
	log  *logger.Logger

	mu     sync.Mutex
	status map[Kind]Status
}

// NewRunner creates a runner bound to the pipeline whose transcript it
// rewrites.
func NewRunner(gw Transformer, pipe *pipeline.Pipeline, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.WithComponent("actions")
	}
	return &Runner{
		gw:   gw,
		pipe: pipe,
		log:  log,
		status: map[Kind]Status{
			KindExpand:    {State: StateIdle},
			KindRewrite:   {State: StateIdle},
			KindPunctuate: {State: StateIdle},
		},
	}
}

// Status returns the given action's current status.
func (r *Runner) Status(kind Kind) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status[kind]
}

// Statuses returns a snapshot of all action statuses.
func (r *Runner) Statuses() map[Kind]Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[Kind]Status, len(r.status))
	for k, v := range r.status {
		snapshot[k] = v
	}
	return snapshot
}

// Run applies the action to the current transcript. On success the
// transcript is replaced wholesale with the result; on failure the
// action's status records the error and the transcript stays untouched.
func (r *Runner) Run(ctx context.Context, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", apperrors.InvalidInput("unknown action " + string(kind))
	}

	if status := r.pipe.Status(); status.Busy() {
		return "", apperrors.InvalidState(string(kind), string(status))
	}

	text := r.pipe.Transcript()
	if text == "" {
		return "", apperrors.InvalidInput("no transcript to process")
	}

	r.mu.Lock()
	if r.status[kind].State == StateProcessing {
		r.mu.Unlock()
		return "", apperrors.InvalidState(string(kind), string(StateProcessing))
	}
	r.status[kind] = Status{State: StateProcessing}
	r.mu.Unlock()

	result, err := r.apply(ctx, kind, text)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		r.mu.Lock()
		r.status[kind] = Status{State: StateError, Err: appErr}
		r.mu.Unlock()
		r.log.Warn("action failed", logger.Fields(
			logger.FieldAction, string(kind),
			logger.FieldError, appErr.Error(),
		))
		return "", appErr
	}

	r.pipe.SetTranscript(result)
	r.mu.Lock()
	r.status[kind] = Status{State: StateIdle}
	r.mu.Unlock()
	r.log.Info("action applied", logger.Fields(logger.FieldAction, string(kind)))
	return result, nil
}

func (r *Runner) apply(ctx context.Context, kind Kind, text string) (string, error) {
	switch kind {
	case KindExpand:
		return r.gw.Expand(ctx, text)
	case KindRewrite:
		return r.gw.Rewrite(ctx, text)
	default:
		return r.gw.Punctuate(ctx, text)
	}
}
