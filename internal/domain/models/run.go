package models

import (
	"time"

	"github.com/google/uuid"
)

// IngestionRun is the audit row written at the end of every ingestion.
type IngestionRun struct {
	RunID           uuid.UUID
	ReferenceDate   time.Time
	ResolvedDays    int
	CompleteCodes   []string
	IncompleteCodes []string
	PersistedRows   int
}
