package dto

import (
	"time"

	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/store"
)

type CreateSessionRequest struct {
	Class     string `json:"class" validate:"required,oneof=screening record-chat diagnostic"`
	Record    string `json:"record" validate:"required"`
	SessionId string         `json:"session_id"` // optional, generated when absent
	Context   map[string]any `json:"context"`
}

type CreateSessionResponse struct {
	Id        string    `json:"id"`
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ShowSessionResponse struct {
	Id               string             `json:"id"`
	Class            string             `json:"class"`
	Record           string             `json:"record"`
	Context          map[string]any     `json:"context,omitempty"`
	Transcript       []store.Message    `json:"transcript"`
	Result           *evaluation.Result `json:"result,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	ExpiresAt        time.Time          `json:"expires_at"`
	TimeRemainingSec int                `json:"time_remaining_sec"`
}

type DeleteSessionResponse struct {
	Id string `json:"id"`
}
