package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EvaluationAudit is the write-only audit trail of completed evaluations.
// Sessions themselves stay in memory; this table only records what each
// pipeline run concluded.
type EvaluationAudit struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     string         `gorm:"type:varchar(64);not null;index"`
	Kind          string         `gorm:"type:varchar(20);not null"`
	Verdict       *string        `gorm:"type:varchar(20)"`
	CompletionPct *int           `gorm:"type:smallint"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"default:now();not null;index"`
}

func (EvaluationAudit) TableName() string {
	return "evaluation_audits"
}
