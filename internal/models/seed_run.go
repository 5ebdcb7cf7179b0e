package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SeedRun records one full reseed of the store: source file, document
// counters and a capped sample of per-document failure diagnostics.
type SeedRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SourceFile     string         `json:"sourceFile"`
	TotalDocuments int            `json:"totalDocuments"`
	ProcessedCount int            `json:"processedCount"`
	SkippedCount   int            `json:"skippedCount"`
	Status         string         `gorm:"index" json:"status"`
	FailureSamples datatypes.JSON `json:"failureSamples"`
	StartedAt      time.Time      `json:"startedAt"`
	CompletedAt    *time.Time     `json:"completedAt"`
	CreatedAt      time.Time      `json:"createdAt"`
}
