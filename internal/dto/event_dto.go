package dto

type EvaluationCompletedMessage struct {
	SessionId     string `json:"session_id"`
	Kind          string `json:"kind"`
	Verdict       string `json:"verdict,omitempty"`
	CompletionPct int    `json:"completion_pct,omitempty"`
}
