package dto

import (
	"time"

	"clinical-eval-be/pkg/evaluation"
)

type AssessChecklistRequest struct {
	SessionId  string   `json:"session_id" validate:"required"`
	Categories []string `json:"categories"` // empty means the full catalog
}

type AssessChecklistResponse struct {
	SessionId       string                           `json:"session_id"`
	Items           []evaluation.ChecklistItemResult `json:"items"`
	Categories      []evaluation.CategoryStats       `json:"categories"`
	TotalItems      int                              `json:"total_items"`
	ItemsFound      int                              `json:"items_found"`
	CompletionPct   int                              `json:"completion_pct"`
	MissingItems    []evaluation.MissingItem         `json:"missing_items"`
	Recommendations []evaluation.Recommendation      `json:"recommendations"`
	CompletedAt     time.Time                        `json:"completed_at"`
}

type ListCatalogResponse struct {
	Categories []CatalogCategory `json:"categories"`
}

type CatalogCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}
