package server

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LoohanZinho/joraps/actions"
	"github.com/LoohanZinho/joraps/chat"
	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/gateway"
	"github.com/LoohanZinho/joraps/history"
	"github.com/LoohanZinho/joraps/observability"
	"github.com/LoohanZinho/joraps/pipeline"
	"github.com/LoohanZinho/joraps/prefs"
	"github.com/LoohanZinho/joraps/server/endpoint"
)

// API bundles the service components exposed over HTTP.
type API struct {
	Pipeline *pipeline.Pipeline
	Actions  *actions.Runner
	Chat     *chat.Session
	History  *history.Store
	Prefs    *prefs.Preferences
	Gateway  *gateway.Gateway

	// ServiceName and Version feed the /health response.
	ServiceName string
	Version     string
}

// Register mounts the API routes and the system endpoints on the server.
func (a *API) Register(s *Server) {
	engine := s.GinEngine()

	engine.GET("/health", endpoint.Health(a.ServiceName, a.serviceHealth))
	engine.GET("/version", endpoint.Version())

	api := engine.Group("/api")
	{
		api.POST("/recordings", a.recordingVerb)
		api.POST("/uploads", a.upload)
		api.POST("/uploads/:id/transcribe", a.transcribeUpload)
		api.POST("/ai", a.dispatchAI)
		api.GET("/pipeline", a.pipelineState)
		api.POST("/transcript/actions", a.runAction)
		api.GET("/history", a.listHistory)
		api.DELETE("/history/:index", a.removeHistory)
		api.GET("/preferences", a.getPreferences)
		api.PUT("/preferences", a.putPreferences)
		api.POST("/chat", a.ask)
		api.POST("/chat/reset", a.resetChat)
	}
}

// recordingRequest selects a pipeline verb.
type recordingRequest struct {
	Verb string `json:"verb" binding:"required,oneof=start pause resume stop cancel"`
}

// recordingVerb drives the capture side of the pipeline.
func (a *API) recordingVerb(c *gin.Context) {
	var req recordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	ctx := c.Request.Context()
	switch req.Verb {
	case "start":
		if err := a.Pipeline.StartCapture(ctx); err != nil {
			RespondWithError(c, err)
			return
		}
	case "pause":
		a.Pipeline.Pause()
	case "resume":
		a.Pipeline.Resume()
	case "stop":
		if err := a.Pipeline.StopCapture(ctx); err != nil {
			RespondWithError(c, err)
			return
		}
	case "cancel":
		a.Pipeline.Cancel(ctx)
	}
	RespondOK(c, a.snapshot())
}

// upload ingests a multipart file and stages it for transcription.
func (a *API) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput(`missing multipart field "file"`))
		return
	}
	declaredType := fileHeader.Header.Get("Content-Type")

	f, err := fileHeader.Open()
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput("unreadable upload"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		RespondWithError(c, apperrors.Internal(err))
		return
	}

	ctx := c.Request.Context()
	if err := a.Pipeline.LoadFile(ctx, fileHeader.Filename, declaredType, data); err != nil {
		RespondWithError(c, err)
		return
	}

	staged := a.Pipeline.Staged()
	url, err := staged.URL(ctx)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, gin.H{
		"id":         staged.ID,
		"name":       staged.Name,
		"mimeType":   staged.MIMEType,
		"size":       staged.Size,
		"previewUrl": url,
	})
}

// transcribeUpload dispatches transcription of the staged upload named by id.
func (a *API) transcribeUpload(c *gin.Context) {
	staged := a.Pipeline.Staged()
	if staged == nil || staged.ID != c.Param("id") {
		RespondWithError(c, apperrors.NotFound("staged media"))
		return
	}
	if err := a.Pipeline.TranscribeStaged(c.Request.Context()); err != nil {
		RespondWithError(c, err)
		return
	}
	RespondAccepted(c, a.snapshot())
}

// aiRequest mirrors the original {action, payload} dispatch contract.
type aiRequest struct {
	Action  gateway.Action `json:"action" binding:"required"`
	Payload aiPayload      `json:"payload"`
}

type aiPayload struct {
	// Transcription payload.
	MIMEType         string `json:"mimeType,omitempty"`
	AudioData        string `json:"audioData,omitempty"`
	NoiseSuppression *bool  `json:"noiseSuppression,omitempty"`
	// Text transformation payload.
	Text string `json:"text,omitempty"`
	// Chat payload.
	Transcript string                `json:"transcript,omitempty"`
	History    []gateway.ChatMessage `json:"history,omitempty"`
	Question   string                `json:"question,omitempty"`
}

// dispatchAI is the stateless gateway dispatch: {action, payload} in, text
// out. The pipeline routes cover the stateful flows; this one serves direct
// clients that manage their own state.
func (a *API) dispatchAI(c *gin.Context) {
	var req aiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if !req.Action.Valid() {
		RespondWithError(c, apperrors.InvalidInput("unknown action "+string(req.Action)))
		return
	}

	ctx := c.Request.Context()
	var (
		result string
		err    error
	)
	switch req.Action {
	case gateway.ActionTranscribe:
		noiseSuppression := a.Prefs.NoiseSuppression()
		if req.Payload.NoiseSuppression != nil {
			noiseSuppression = *req.Payload.NoiseSuppression
		}
		result, err = a.Gateway.Transcribe(ctx, gateway.TranscribeRequest{
			MIMEType:         req.Payload.MIMEType,
			AudioData:        req.Payload.AudioData,
			NoiseSuppression: noiseSuppression,
		})
	case gateway.ActionExpand:
		result, err = a.Gateway.Expand(ctx, req.Payload.Text)
	case gateway.ActionRewrite:
		result, err = a.Gateway.Rewrite(ctx, req.Payload.Text)
	case gateway.ActionPunctuate:
		result, err = a.Gateway.Punctuate(ctx, req.Payload.Text)
	case gateway.ActionChat:
		result, err = a.Gateway.Chat(ctx, gateway.ChatRequest{
			Transcript: req.Payload.Transcript,
			History:    req.Payload.History,
			Question:   req.Payload.Question,
		})
	}
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

// actionRequest runs a post-processing action against the pipeline transcript.
type actionRequest struct {
	Kind actions.Kind `json:"kind" binding:"required"`
}

func (a *API) runAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	transcript, err := a.Actions.Run(c.Request.Context(), req.Kind)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, gin.H{"transcript": transcript})
}

// pipelineSnapshot is the status body clients poll during processing.
type pipelineSnapshot struct {
	Status     pipeline.Status               `json:"status"`
	Transcript string                        `json:"transcript"`
	ElapsedMs  int64                         `json:"elapsedMs"`
	Error      *apperrors.ErrorBody          `json:"error,omitempty"`
	Actions    map[actions.Kind]actionStatus `json:"actions"`
}

type actionStatus struct {
	State actions.State        `json:"state"`
	Error *apperrors.ErrorBody `json:"error,omitempty"`
}

func (a *API) snapshot() pipelineSnapshot {
	snap := pipelineSnapshot{
		Status:     a.Pipeline.Status(),
		Transcript: a.Pipeline.Transcript(),
		ElapsedMs:  a.Pipeline.Elapsed().Milliseconds(),
		Actions:    make(map[actions.Kind]actionStatus),
	}
	if appErr := a.Pipeline.Err(); appErr != nil {
		body := appErr.ToResponse().Error
		snap.Error = &body
	}
	for kind, status := range a.Actions.Statuses() {
		as := actionStatus{State: status.State}
		if status.Err != nil {
			body := status.Err.ToResponse().Error
			as.Error = &body
		}
		snap.Actions[kind] = as
	}
	return snap
}

func (a *API) pipelineState(c *gin.Context) {
	RespondOK(c, a.snapshot())
}

func (a *API) listHistory(c *gin.Context) {
	entries := a.History.List(c.Request.Context())
	if entries == nil {
		entries = []history.Entry{}
	}
	RespondOK(c, entries)
}

func (a *API) removeHistory(c *gin.Context) {
	var params struct {
		Index int `uri:"index" binding:"min=0"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		RespondWithError(c, apperrors.InvalidInput("history index must be a non-negative integer"))
		return
	}
	if err := a.History.Remove(c.Request.Context(), params.Index); err != nil {
		RespondWithError(c, err)
		return
	}
	RespondNoContent(c)
}

// preferencesBody is the GET/PUT /api/preferences representation.
type preferencesBody struct {
	NoiseSuppression *bool `json:"noiseSuppression,omitempty"`
	Effect3D         *bool `json:"effect3d,omitempty"`
}

func (a *API) getPreferences(c *gin.Context) {
	noiseSuppression := a.Prefs.NoiseSuppression()
	effect3D := a.Prefs.Effect3D()
	RespondOK(c, preferencesBody{
		NoiseSuppression: &noiseSuppression,
		Effect3D:         &effect3D,
	})
}

func (a *API) putPreferences(c *gin.Context) {
	var body preferencesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	ctx := c.Request.Context()
	if body.NoiseSuppression != nil {
		if err := a.Prefs.SetNoiseSuppression(ctx, *body.NoiseSuppression); err != nil {
			RespondWithError(c, err)
			return
		}
	}
	if body.Effect3D != nil {
		if err := a.Prefs.SetEffect3D(ctx, *body.Effect3D); err != nil {
			RespondWithError(c, err)
			return
		}
	}
	a.getPreferences(c)
}

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

func (a *API) ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	reply := a.Chat.Ask(c.Request.Context(), req.Question)
	RespondOK(c, gin.H{
		"reply":    reply,
		"messages": a.Chat.Messages(),
	})
}

func (a *API) resetChat(c *gin.Context) {
	a.Chat.Reset()
	RespondNoContent(c)
}

// serviceHealth aggregates AI provider reachability into the health response.
func (a *API) serviceHealth(ctx context.Context) *observability.ServiceHealth {
	health := observability.NewServiceHealth(a.ServiceName, a.Version)
	if a.Gateway == nil {
		return health
	}

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := observability.HealthStatusUp
	message := ""
	if !a.Gateway.IsAvailable(checkCtx) {
		status = observability.HealthStatusDegraded
		message = "AI provider unreachable"
	}
	health.AddComponent(observability.Health{
		Name:    "gateway",
		Status:  status,
		Message: message,
	})
	return health
}
