package chat

import "time"

// Message is one turn of a chat session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Roles stored in chat_messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is the body of POST /api/chatbot.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Response is the body returned by POST /api/chatbot.
type Response struct {
	Success      bool   `json:"success"`
	Response     string `json:"response,omitempty"`
	ResponseHTML string `json:"response_html,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Reply is the outcome of Service.Reply.
type Reply struct {
	SessionID string
	Text      string
	HTML      string
}
