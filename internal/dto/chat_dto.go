package dto

import "time"

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type SendChatResponse struct {
	SessionId string    `json:"session_id"`
	Reply     string    `json:"reply"`
	Degraded  bool      `json:"degraded,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ShowTranscriptResponse struct {
	SessionId string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}
