package dto

import (
	"time"

	"clinical-eval-be/pkg/evaluation"
)

type CriterionInput struct {
	Text      string `json:"text" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=inclusion exclusion"`
	Rationale string `json:"rationale"`
}

type EvaluateEligibilityRequest struct {
	SessionId string           `json:"session_id" validate:"required"`
	Criteria  []CriterionInput `json:"criteria" validate:"required,min=1,dive"`
}

type EvaluateEligibilityResponse struct {
	SessionId   string                       `json:"session_id"`
	Verdict     evaluation.Verdict           `json:"verdict"`
	Results     []evaluation.CriterionResult `json:"results"`
	CompletedAt time.Time                    `json:"completed_at"`
}
