package extractor

import (
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
	"github.com/rs/zerolog"
)

// Comparison classifies an age expression. Values match the FHIR search
// prefixes used downstream.
type Comparison string

const (
	ComparisonGreaterThan Comparison = "gt"
	ComparisonLessThan    Comparison = "lt"
	ComparisonEqual       Comparison = "eq"
)

// AgeCriterion is one recognized age expression, in whole years.
type AgeCriterion struct {
	Comparison Comparison
	Value      int
}

// Extraction is the result of scanning one query text.
type Extraction struct {
	Conditions []vocabulary.ConditionEntry
	Age        *AgeCriterion
}

// EntityExtractor recognizes condition mentions and age expressions in
// lower-cased, tokenized query text. It holds no state beyond the read-only
// vocabulary, so one instance serves concurrent callers.
type EntityExtractor struct {
	conditions *vocabulary.ConditionService
	log        zerolog.Logger
}
