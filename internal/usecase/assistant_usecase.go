package usecase

import (
	"context"
	"strings"
)

// assistantSystemPrompt scopes the helper to questions about the
// platform itself; anything else gets the contact fallback line.
const assistantSystemPrompt = `You are an AI assistant for a hyperlocal skill-exchange web platform.

The platform enables users to create profiles, list skills or learning needs, and connect with others in their locality for skill exchange, micro consulting, or collaborative community projects. Users can discover nearby skill offerings within a customizable radius, propose or join community projects (for example building a community garden, coding a local website, organizing a workshop), track project progress, and exchange real-time messages in project rooms.

Instructions (MUST FOLLOW):
- ONLY answer questions directly about this platform (architecture, features, data models, API design, UI/UX, implementation) or introductions to the website.
- If the user's input is outside the scope or cannot be resolved, reply exactly:
"For further questions or clarifications not directly about this platform, please contact: support@skill-bridge.local"
- Keep answers concise, actionable, and relevant.
- Do not provide marketing text or unrelated tutorials.`

// ChatProvider is a chat-completion backend. A nil provider means the
// assistant is not configured.
type ChatProvider interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type AssistantUsecase interface {
	Reply(ctx context.Context, message string) (string, error)
}

type Assistant struct {
	provider ChatProvider
}

func NewAssistantUsecase(provider ChatProvider) *Assistant {
	return &Assistant{provider: provider}
}

func (u *Assistant) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrInvalidInput
	}
	if u.provider == nil {
		return "", ErrNotConfigured
	}

	reply, err := u.provider.Complete(ctx, assistantSystemPrompt, message)
	if err != nil {
		return "", ErrUpstream
	}
	return reply, nil
}
