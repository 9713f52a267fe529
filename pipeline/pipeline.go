package pipeline

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/gateway"
	"github.com/LoohanZinho/joraps/history"
	"github.com/LoohanZinho/joraps/logger"
	"github.com/LoohanZinho/joraps/media"
	"github.com/LoohanZinho/joraps/prefs"
)

// Transcriber is the slice of the AI gateway the pipeline needs.
type Transcriber interface {
	Transcribe(ctx context.Context, req gateway.TranscribeRequest) (string, error)
}

// Options configures optional pipeline collaborators.
type Options struct {
	// Clock overrides wall-clock reads; nil means the system clock.
	Clock Clock
	// Logger overrides the component logger.
	Logger *logger.Logger
	// OnNewSource runs whenever a new transcript source begins (capture
	// start, file load, cancel). The chat session hooks in here to reset.
	OnNewSource func()
}

// Pipeline is the capture/upload -> transcription state machine. All state
// is guarded by one mutex; at most one transcription is in flight per
// pipeline, and a cancelled cycle's results are never committed.
type Pipeline struct {
	gw       Transcriber
	recorder *media.Recorder
	ingestor *media.Ingestor
	hist     *history.Store
	prefs    *prefs.Preferences
	log      *logger.Logger
	onNew    func()

	mu         sync.Mutex
	status     Status
	transcript string
	lastErr    *apperrors.AppError
	staged     *media.Staged
	token      *Token
	tm         timer

	// inflight closes when the current transcription goroutine finishes,
	// commit check included. Nil when nothing was ever dispatched.
	inflight chan struct{}
}

// New assembles a pipeline from its collaborators.
func New(gw Transcriber, recorder *media.Recorder, ingestor *media.Ingestor, hist *history.Store, pf *prefs.Preferences, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("pipeline")
	}
	return &Pipeline{
		gw:       gw,
		recorder: recorder,
		ingestor: ingestor,
		hist:     hist,
		prefs:    pf,
		log:      log,
		onNew:    opts.OnNewSource,
		status:   StatusIdle,
		token:    NewToken(),
		tm:       timer{clock: clock},
	}
}

// Status returns the current pipeline status.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Transcript returns the committed transcript text.
func (p *Pipeline) Transcript() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transcript
}

// SetTranscript replaces the transcript wholesale. Post-processing actions
// commit their results through here.
func (p *Pipeline) SetTranscript(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transcript = text
}

// Err returns the error that moved the pipeline into the error status, or
// nil.
func (p *Pipeline) Err() *apperrors.AppError {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Elapsed returns the recording time accrued this cycle, paused stretches
// excluded.
func (p *Pipeline) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tm.elapsed()
}

// History returns the history store the pipeline commits entries to.
func (p *Pipeline) History() *history.Store { return p.hist }

// Staged returns the currently staged upload, or nil.
func (p *Pipeline) Staged() *media.Staged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staged
}

// StartCapture begins a new recording cycle. Valid from idle and from the
// terminal states; everything from the previous cycle is wiped. Device
// acquisition failures move the pipeline to error with the typed device
// message.
func (p *Pipeline) StartCapture(ctx context.Context) error {
	p.mu.Lock()
	if !CanTransition(p.status, StatusRecording) {
		status := p.status
		p.mu.Unlock()
		return apperrors.InvalidState("start capture", string(status))
	}
	staged := p.staged
	p.beginCycleLocked()
	token := p.token
	p.mu.Unlock()

	p.releaseStaged(ctx, staged)
	if p.onNew != nil {
		p.onNew()
	}

	if err := p.recorder.Start(ctx); err != nil {
		appErr := apperrors.AsAppError(err)
		p.failCycle(token, appErr)
		return appErr
	}

	p.mu.Lock()
	p.status = StatusRecording
	p.tm.start()
	p.mu.Unlock()
	p.log.Info("capture started", logger.Fields("mime_type", p.recorder.MIMEType()))
	return nil
}

// Pause suspends recording. A no-op in every state but recording.
func (p *Pipeline) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusRecording {
		return
	}
	_ = p.recorder.Pause()
	p.tm.pause()
	p.status = StatusPaused
}

// Resume continues a paused recording. A no-op in every state but paused.
func (p *Pipeline) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusPaused {
		return
	}
	_ = p.recorder.Resume()
	p.tm.start()
	p.status = StatusRecording
}

// StopCapture finalizes the recording and dispatches transcription. Valid
// from recording and paused. When the cycle was cancelled in the same
// tick, the finalized media is discarded instead.
func (p *Pipeline) StopCapture(ctx context.Context) error {
	p.mu.Lock()
	if p.status != StatusRecording && p.status != StatusPaused {
		status := p.status
		p.mu.Unlock()
		return apperrors.InvalidState("stop capture", string(status))
	}
	p.tm.pause()
	token := p.token
	p.mu.Unlock()

	blob, err := p.recorder.Stop()
	if err != nil {
		appErr := apperrors.AsAppError(err)
		p.failCycle(token, appErr)
		return appErr
	}

	if token.Cancelled() {
		return nil
	}

	p.dispatchTranscription(ctx, blob, token)
	return nil
}

// LoadFile validates and stages an uploaded file as the transcript source.
// Valid from idle and the terminal states. Rejection moves the pipeline to
// error naming the declared type; nothing is staged on rejection.
func (p *Pipeline) LoadFile(ctx context.Context, name, declaredType string, data []byte) error {
	p.mu.Lock()
	if !CanTransition(p.status, StatusFileLoaded) {
		status := p.status
		p.mu.Unlock()
		return apperrors.InvalidState("load file", string(status))
	}
	previous := p.staged
	p.beginCycleLocked()
	token := p.token
	p.mu.Unlock()

	p.releaseStaged(ctx, previous)
	if p.onNew != nil {
		p.onNew()
	}

	staged, err := p.ingestor.Stage(ctx, name, declaredType, data)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		p.failCycle(token, appErr)
		return appErr
	}

	p.mu.Lock()
	p.staged = staged
	p.status = StatusFileLoaded
	p.mu.Unlock()
	p.log.Info("file staged", logger.Fields("upload_id", staged.ID, "mime_type", staged.MIMEType))
	return nil
}

// TranscribeStaged dispatches transcription of the staged upload. Valid
// only from file-loaded.
func (p *Pipeline) TranscribeStaged(ctx context.Context) error {
	p.mu.Lock()
	if p.status != StatusFileLoaded || p.staged == nil {
		status := p.status
		p.mu.Unlock()
		return apperrors.InvalidState("transcribe upload", string(status))
	}
	staged := p.staged
	token := p.token
	p.mu.Unlock()

	blob, err := staged.Blob(ctx)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		p.failCycle(token, appErr)
		return appErr
	}

	p.dispatchTranscription(ctx, blob, token)
	return nil
}

// Cancel aborts the current cycle from any non-idle state: the token is
// set, the device force-stopped, staged media released, and all session
// state wiped. A transcription already in flight will observe the token
// and discard its result.
func (p *Pipeline) Cancel(ctx context.Context) {
	p.mu.Lock()
	if p.status == StatusIdle {
		p.mu.Unlock()
		return
	}
	p.token.Cancel()
	p.token = NewToken()
	staged := p.staged
	p.staged = nil
	p.transcript = ""
	p.lastErr = nil
	p.tm.reset()
	p.status = StatusIdle
	p.mu.Unlock()

	p.recorder.Abort()
	p.releaseStaged(ctx, staged)
	if p.onNew != nil {
		p.onNew()
	}
	p.log.Info("cycle cancelled")
}

// beginCycleLocked wipes per-cycle state for a fresh source. Callers hold
// the mutex and release the previous staged handle themselves.
func (p *Pipeline) beginCycleLocked() {
	p.token = NewToken()
	p.staged = nil
	p.transcript = ""
	p.lastErr = nil
	p.tm.reset()
}

// dispatchTranscription moves to processing and runs the gateway call in
// its own goroutine. The token decides whether the result commits; a
// cancel landing between finalize and dispatch means nothing runs at all.
func (p *Pipeline) dispatchTranscription(ctx context.Context, blob *media.Blob, token *Token) {
	p.mu.Lock()
	if token.Cancelled() || token != p.token {
		p.mu.Unlock()
		p.log.Info("skipping transcription dispatch after cancellation")
		return
	}
	p.status = StatusProcessing
	done := make(chan struct{})
	p.inflight = done
	p.mu.Unlock()

	// The caller's context usually belongs to an HTTP request that ends
	// the moment the handler returns. The cycle token is what cancels
	// in-flight work, so the gateway call runs on a detached context.
	callCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(done)
		p.runTranscription(callCtx, blob, token)
	}()
}

func (p *Pipeline) runTranscription(ctx context.Context, blob *media.Blob, token *Token) {
	if err := blob.Validate(); err != nil {
		p.commitFailure(token, apperrors.AsAppError(err))
		return
	}

	noiseSuppression := true
	if p.prefs != nil {
		noiseSuppression = p.prefs.NoiseSuppression()
	}

	text, err := p.gw.Transcribe(ctx, gateway.TranscribeRequest{
		MIMEType:         blob.MIMEType,
		AudioData:        blob.Base64(),
		NoiseSuppression: noiseSuppression,
	})
	if err != nil {
		p.commitFailure(token, apperrors.AsAppError(err))
		return
	}
	if text == "" {
		p.commitFailure(token, apperrors.EmptyResponse())
		return
	}
	p.commitSuccess(ctx, token, text)
}

// commitSuccess commits the transcript, prepends the history entry, and
// moves to ready, unless the cycle was cancelled while the call was in
// flight.
func (p *Pipeline) commitSuccess(ctx context.Context, token *Token, text string) {
	p.mu.Lock()
	if token.Cancelled() || token != p.token {
		p.mu.Unlock()
		p.log.Info("discarding transcription result after cancellation")
		return
	}
	staged := p.staged
	p.staged = nil
	p.transcript = text
	p.lastErr = nil
	p.status = StatusReady
	p.mu.Unlock()

	p.releaseStaged(ctx, staged)
	if _, err := p.hist.Append(ctx, text); err != nil {
		p.log.Error("failed to persist history entry", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}
	p.log.Info("transcription ready", logger.Fields(logger.FieldSizeBytes, len(text)))
}

// commitFailure moves the pipeline to error unless the cycle was
// cancelled.
func (p *Pipeline) commitFailure(token *Token, appErr *apperrors.AppError) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token.Cancelled() || token != p.token {
		p.log.Info("discarding transcription failure after cancellation")
		return
	}
	p.lastErr = appErr
	p.status = StatusError
	p.log.Warn("transcription failed", logger.Fields(logger.FieldError, appErr.Error()))
}

// failCycle records a synchronous failure for the cycle the token belongs
// to. A cycle cancelled while the failing call was underway keeps its
// post-cancel state; the error is still returned to the caller.
func (p *Pipeline) failCycle(token *Token, appErr *apperrors.AppError) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token.Cancelled() || token != p.token {
		p.log.Info("discarding cycle failure after cancellation")
		return
	}
	p.lastErr = appErr
	p.status = StatusError
	p.log.Warn("pipeline cycle failed", logger.Fields(logger.FieldError, appErr.Error()))
}

func (p *Pipeline) releaseStaged(ctx context.Context, staged *media.Staged) {
	if staged == nil {
		return
	}
	if err := staged.Release(ctx); err != nil {
		p.log.Warn("failed to release staged media", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}
}
