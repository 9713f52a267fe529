package gateway

// Action identifies an AI operation requested by a client.
type Action string

const (
	ActionTranscribe Action = "transcribe"
	ActionExpand     Action = "expand"
	ActionRewrite    Action = "rewrite"
	ActionPunctuate  Action = "punctuate"
	ActionChat       Action = "chat"
)

// Valid reports whether the action is one the gateway can dispatch.
func (a Action) Valid() bool {
	switch a {
	case ActionTranscribe, ActionExpand, ActionRewrite, ActionPunctuate, ActionChat:
		return true
	}
	return false
}

// Message senders in a chat session.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// TranscribeRequest asks for a transcription of captured or uploaded media.
type TranscribeRequest struct {
	// MIMEType is the media container type (e.g. "audio/webm; codecs=opus").
	MIMEType string `json:"mimeType" binding:"required"`
	// AudioData is the base64-encoded media payload.
	AudioData string `json:"audioData"`
	// NoiseSuppression asks the model to ignore background noise.
	NoiseSuppression bool `json:"noiseSuppression"`
}

// TranscribeResponse carries the transcribed text.
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

// TransformRequest asks for a text transformation (expand, rewrite, punctuate).
type TransformRequest struct {
	Text string `json:"text" binding:"required"`
}

// TransformResponse carries the transformed text.
type TransformResponse struct {
	Text string `json:"text"`
}

// ChatMessage is one exchange in a Q&A session about a transcript.
type ChatMessage struct {
	// Sender is "user" or "bot".
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatRequest asks a question about a transcript, with prior conversation
// history for context.
type ChatRequest struct {
	Transcript string        `json:"transcript"`
	History    []ChatMessage `json:"history"`
	Question   string        `json:"question" binding:"required"`
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}
