package gateway

import (
	"fmt"
	"strings"
)

// Prompt templates. The service targets Brazilian Portuguese speech, so the
// instructions are written in pt-BR and ask for pt-BR output.

const transcribePromptBase = "Transcreva o seguinte áudio para texto. O áudio está em português do Brasil. " +
	"Por favor, leve em consideração diferentes sotaques, regionalismos e gírias. " +
	"Tente corrigir pequenos erros de fala e focar na intenção do que está sendo dito " +
	"para produzir a transcrição mais clara e precisa possível."

const transcribeNoiseClause = " Ignore ruídos de fundo como conversas, cliques ou zumbidos, focando apenas na voz principal."

// TranscribePrompt builds the transcription instruction, optionally asking
// the model to suppress background noise. It is exported for driver
// packages, which attach it to the media payload themselves.
func TranscribePrompt(noiseSuppression bool) string {
	if noiseSuppression {
		return transcribePromptBase + transcribeNoiseClause
	}
	return transcribePromptBase
}

// expandPrompt asks for a more detailed version of the text.
func expandPrompt(text string) string {
	return "Expanda o seguinte texto, adicionando mais detalhes e explicações: " + text
}

// rewritePrompt asks for a more concise, professional version of the text.
func rewritePrompt(text string) string {
	return "Reescreva o seguinte texto de uma forma mais concisa e profissional: " + text
}

// punctuatePrompt asks for punctuation and grammar cleanup of a raw transcript.
func punctuatePrompt(text string) string {
	return "Please punctuate the following text to make it more readable and grammatically correct:\n\n" + text
}

// chatPrompt assembles the Q&A prompt from the full transcript, the prior
// conversation, and the new question.
func chatPrompt(transcript string, history []ChatMessage, question string) string {
	var formatted strings.Builder
	for i, msg := range history {
		if i > 0 {
			formatted.WriteString("\n")
		}
		speaker := "Assistente"
		if msg.Sender == SenderUser {
			speaker = "Usuário"
		}
		formatted.WriteString(speaker + ": " + msg.Text)
	}

	return fmt.Sprintf(`Você é um assistente de IA amigável e prestativo. Sua principal função é responder a perguntas com base no conteúdo de uma transcrição fornecida.
Você deve ter uma conversa natural e fluida. Use o histórico da conversa para entender o contexto.
Baseie suas respostas estritamente no texto da transcrição. Se a informação não estiver explicitamente no texto, você pode tentar inferir ou educadamente dizer que não consegue encontrar a resposta, mas evite ser robótico.

**Transcrição Completa:**
"""
%s
"""

**Histórico da Conversa:**
%s

**Nova Pergunta do Usuário:** "%s"

**Sua Resposta (como Assistente):**`, transcript, formatted.String(), question)
}
