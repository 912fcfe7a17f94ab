package service

import (
	"context"
	"fmt"
	"strings"

	"compass/internal/config"
	"compass/internal/llm"
	"compass/internal/model"
)

// ResponderService generates the counselor's next utterance from the
// conversation history and the tracker's compass direction. It holds no
// state of its own.
type ResponderService struct {
	config *config.AIConfig
	llm    ChatClient
}

// NewResponderService creates a new responder service
func NewResponderService(cfg *config.AIConfig, client ChatClient) *ResponderService {
	return &ResponderService{config: cfg, llm: client}
}

// Generate produces a short empathetic reply ending in a single question
// steered toward the focus area. Empty or erroring generation aborts the
// turn with ErrGenerationFailed.
func (s *ResponderService) Generate(ctx context.Context, history []model.ChatTurn, focus model.FocusDirection) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockResponse(focus), nil
	}

	response, err := s.llm.Chat(ctx, s.config.Models.Responder, 0.7, []llm.Message{
		{Role: "system", Content: responderPersona},
		{Role: "user", Content: buildResponderPrompt(history, focus)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return response, nil
}

const responderPersona = "You are a counselor engaging in a supportive conversation with a user. " +
	"Use natural, conversational language appropriate for a counselor."

func buildResponderPrompt(history []model.ChatTurn, focus model.FocusDirection) string {
	var sb strings.Builder
	sb.WriteString("Conversation history:\n")
	if len(history) == 0 {
		sb.WriteString("(this is the first exchange)\n")
	}
	for _, turn := range history {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Speaker, turn.Text)
	}

	fmt.Fprintf(&sb, `
Compass direction:
Focus area: %s
Suggested approach: %s
Next question guidance: %s

Generate a response that:
- Briefly acknowledges the user's previous statements.
- Continues the conversation naturally by asking one direct question focused on the focus area.
- Maintains continuity with the previous dialogue.
- Keeps the response concise, ideally within 2-3 sentences.

Your response should be only the counselor's reply to the user.`,
		focus.FocusArea, focus.SuggestedApproach, focus.NextQuestionGuidance)
	return sb.String()
}

func (s *ResponderService) mockResponse(focus model.FocusDirection) string {
	return fmt.Sprintf("Thank you for sharing that with me. I'd like to understand a bit more about your %s - how have things been for you there lately?", focus.FocusArea)
}
