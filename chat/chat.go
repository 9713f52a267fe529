// Package chat holds the Q&A conversation over one transcript.
package chat

import (
	"context"
	"sync"

	"github.com/LoohanZinho/joraps/gateway"
	"github.com/LoohanZinho/joraps/logger"
)

// errorReply is the inline bot message shown when answering fails. Chat
// failures surface as conversation content, not as pipeline errors.
const errorReply = "Desculpe, não consegui processar sua pergunta. Tente novamente."

// Answerer is the slice of the AI gateway the session needs.
type Answerer interface {
	Chat(ctx context.Context, req gateway.ChatRequest) (string, error)
}

// TranscriptSource provides the transcript a session answers questions
// about.
type TranscriptSource interface {
	Transcript() string
}

// Session is the ordered message sequence for one transcript source. A new
// source resets the session.
type Session struct {
	gw     Answerer
	source TranscriptSource
	log    *logger.Logger

	mu       sync.Mutex
	messages []gateway.ChatMessage
}

// NewSession creates a session over the given transcript source.
func NewSession(gw Answerer, source TranscriptSource, log *logger.Logger) *Session {
	if log == nil {
		log = logger.WithComponent("chat")
	}
	return &Session{gw: gw, source: source, log: log}
}

// Ask appends the question immediately, then the assistant's answer on
// success or the inline error reply on failure. The request carries the
// full transcript and the prior message sequence as context.
func (s *Session) Ask(ctx context.Context, question string) gateway.ChatMessage {
	s.mu.Lock()
	prior := make([]gateway.ChatMessage, len(s.messages))
	copy(prior, s.messages)
	s.messages = append(s.messages, gateway.ChatMessage{Sender: gateway.SenderUser, Text: question})
	s.mu.Unlock()

	answer, err := s.gw.Chat(ctx, gateway.ChatRequest{
		Transcript: s.source.Transcript(),
		History:    prior,
		Question:   question,
	})
	if err != nil {
		s.log.Warn("chat answer failed", logger.Fields(logger.FieldError, err.Error()))
		answer = errorReply
	}

	reply := gateway.ChatMessage{Sender: gateway.SenderBot, Text: answer}
	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.mu.Unlock()
	return reply
}

// Messages returns a snapshot of the conversation in order.
func (s *Session) Messages() []gateway.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]gateway.ChatMessage, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

// Reset clears the conversation. The pipeline calls this whenever a new
// transcript source begins.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
