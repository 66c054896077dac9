package vocabulary

import (
	"sync"

	"github.com/rs/zerolog"
)

// ConditionEntry holds the coded identifiers for one canonical condition term.
type ConditionEntry struct {
	Term    string `db:"term" json:"term"`
	ICD10   string `db:"icd10_code" json:"icd10"`
	SNOMED  string `db:"snomed_code" json:"snomed"`
	Display string `db:"display" json:"display"`
}

// ConditionRepository owns the canonical term table and the alias table.
// It is populated once at startup and read-only afterwards.
type ConditionRepository struct {
	entries map[string]ConditionEntry // canonical term -> entry
	aliases map[string]string         // alias -> canonical term
	mu      sync.RWMutex
	log     zerolog.Logger
}

// ConditionService resolves free-text terms against the repository.
type ConditionService struct {
	repo *ConditionRepository
	log  zerolog.Logger
}
