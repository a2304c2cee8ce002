package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ezlaw/ezlaw/internal/config"
	"github.com/ezlaw/ezlaw/internal/llm"
)

var (
	// ErrEmptyMessage is returned for a blank message.
	ErrEmptyMessage = errors.New("message is required")
	// ErrInvalidSession is returned when session_id is not a UUID.
	ErrInvalidSession = errors.New("invalid session_id")
	// ErrNotConfigured is returned when no LLM provider is available.
	ErrNotConfigured = errors.New("chatbot is not configured")
)

// Service answers chat messages with an LLM, keeping each session's
// transcript so follow-up questions have context.
type Service struct {
	provider llm.Provider
	store    *Store
	md       *Markdown
	cfg      config.ChatConfig
}

// NewService creates a Service. provider may be nil, in which case every
// reply fails with ErrNotConfigured. store may be nil to disable history.
func NewService(provider llm.Provider, store *Store, cfg config.ChatConfig) *Service {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = config.DefaultSystemPrompt
	}
	return &Service{
		provider: provider,
		store:    store,
		md:       NewMarkdown(),
		cfg:      cfg,
	}
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Reply sends message to the model within the given session. An empty
// sessionID starts a new session.
func (s *Service) Reply(ctx context.Context, sessionID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			return nil, ErrInvalidSession
		}
	}
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	var history []Message
	if s.store != nil {
		id, err := s.store.EnsureSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		sessionID = id
		history, err = s.store.Recent(ctx, sessionID, s.cfg.HistoryTurns*2)
		if err != nil {
			return nil, err
		}
	} else if sessionID == "" {
		sessionID = uuid.New().String()
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.cfg.Model,
		Messages:    buildMessages(s.cfg.SystemPrompt, history, message),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	answer := strings.TrimSpace(resp.Content)

	if s.store != nil {
		if err := s.store.AddExchange(ctx, sessionID, message, answer); err != nil {
			return nil, err
		}
	}

	rendered, err := s.md.ToHTML(answer)
	if err != nil {
		log.Printf("chat: rendering markdown: %v", err)
	}

	return &Reply{SessionID: sessionID, Text: answer, HTML: rendered}, nil
}

// Transcript returns every message of a session.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]Message, error) {
	if s.store == nil {
		return []Message{}, nil
	}
	return s.store.Messages(ctx, sessionID)
}

func buildMessages(system string, history []Message, message string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, h := range history {
		role := llm.RoleUser
		if h.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: h.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}
