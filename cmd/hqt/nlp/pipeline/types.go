package pipeline

import (
	"context"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/parser"
)

// Outcome classifies a pipeline run.
type Outcome string

const (
	// OutcomeOK means one or more queries were produced.
	OutcomeOK Outcome = "ok"
	// OutcomeUnsupportedCondition means the query announced a condition the
	// vocabulary does not know. No queries are produced for it; callers must
	// not fall back to an unfiltered search.
	OutcomeUnsupportedCondition Outcome = "unsupported-condition"
)

// Result is the outward-facing product of one pipeline run. Failure states
// are carried here rather than raised: a lookup that failed simply leaves the
// patient query without an identifier filter.
type Result struct {
	Input          string
	Criteria       parser.Criteria
	ConditionQuery string
	PatientQuery   string
	Outcome        Outcome
}

// Strategy resolves one free-text query into queries against the repository.
// Implementations must be safe for concurrent use; each call is independent.
type Strategy interface {
	Process(ctx context.Context, query string) (Result, error)
}

// SubjectSearcher executes a condition-lookup query and returns the distinct
// subject identifiers it matched. A transport failure is an error; a lookup
// that matched nobody is an empty, non-nil slice. The two are not the same
// thing downstream.
type SubjectSearcher interface {
	SubjectIDs(ctx context.Context, conditionQuery string) ([]string, error)
}
