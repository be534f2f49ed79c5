// Package assistant backs the floating chat widget: short-lived
// conversations with the AI health assistant, kept in memory per process.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthtrack/healthtrack/internal/platform/ai"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered exchange with the assistant.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Greeting opens every new conversation.
const Greeting = "Hi! I'm your AI health assistant. How can I help you today?"

// historyLimit caps how many prior turns are replayed into the prompt.
const historyLimit = 20

// Service manages conversations and relays turns to the model.
type Service struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*Conversation
	client        ai.Client
	logger        zerolog.Logger
}

func NewService(client ai.Client, logger zerolog.Logger) *Service {
	return &Service{
		conversations: make(map[uuid.UUID]*Conversation),
		client:        client,
		logger:        logger.With().Str("component", "assistant_service").Logger(),
	}
}

// StartConversation creates a conversation seeded with the greeting.
func (s *Service) StartConversation() *Conversation {
	now := time.Now().UTC()
	conv := &Conversation{
		ID: uuid.New(),
		Messages: []Message{
			{Role: RoleAssistant, Content: Greeting, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()
	return s.snapshot(conv)
}

// GetConversation returns a copy of the conversation, or an error when it
// does not exist.
func (s *Service) GetConversation(id uuid.UUID) (*Conversation, error) {
	s.mu.RLock()
	conv, ok := s.conversations[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("conversation %s not found", id)
	}
	return s.snapshot(conv), nil
}

// SendMessage appends the user's turn, asks the model for a reply with the
// conversation history as context, and returns the updated conversation.
func (s *Service) SendMessage(ctx context.Context, id uuid.UUID, content string) (*Conversation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is empty")
	}

	// History is copied under the lock; a concurrent SendMessage on the
	// same conversation appends to conv.Messages while the model call runs.
	s.mu.RLock()
	conv, ok := s.conversations[id]
	var history []Message
	if ok {
		history = make([]Message, len(conv.Messages))
		copy(history, conv.Messages)
	}
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("conversation %s not found", id)
	}

	prompt := buildPrompt(history, content)

	reply, err := s.client.Generate(ctx, ai.DefaultSystemPrompt, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("conversation_id", id.String()).Msg("assistant reply failed")
		return nil, fmt.Errorf("assistant reply: %w", err)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	conv.Messages = append(conv.Messages,
		Message{Role: RoleUser, Content: content, Timestamp: now},
		Message{Role: RoleAssistant, Content: reply, Timestamp: time.Now().UTC()},
	)
	conv.UpdatedAt = conv.Messages[len(conv.Messages)-1].Timestamp
	cp := *conv
	cp.Messages = make([]Message, len(conv.Messages))
	copy(cp.Messages, conv.Messages)
	s.mu.Unlock()

	return &cp, nil
}

func (s *Service) snapshot(conv *Conversation) *Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := *conv
	cp.Messages = make([]Message, len(conv.Messages))
	copy(cp.Messages, conv.Messages)
	return &cp
}

// buildPrompt flattens prior turns into a transcript the model can follow.
func buildPrompt(history []Message, userMessage string) string {
	var b strings.Builder
	b.WriteString("Conversation so far:\n\n")

	start := 0
	if len(history) > historyLimit {
		start = len(history) - historyLimit
	}
	for _, m := range history[start:] {
		switch m.Role {
		case RoleUser:
			b.WriteString("User: ")
		case RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}

	b.WriteString("\nUser: ")
	b.WriteString(userMessage)
	b.WriteString("\n\nReply as the assistant. Be concise, use plain language, and recommend seeing a clinician when appropriate.")
	return b.String()
}
