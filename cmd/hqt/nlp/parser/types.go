package parser

import (
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/extractor"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
	"github.com/rs/zerolog"
)

// MatchType selects how a name criterion is applied.
type MatchType string

const (
	MatchStartsWith MatchType = "starts-with"
	MatchExact      MatchType = "exact"
)

// NameCriterion is a name filter extracted from the query text.
type NameCriterion struct {
	MatchType MatchType
	Value     string
}

// Criteria is the structured form of one free-text query. It is built fresh
// per input and handed to the query builder unchanged.
type Criteria struct {
	Resource   string
	Conditions []vocabulary.ConditionEntry
	Age        *extractor.AgeCriterion
	Gender     string
	Name       *NameCriterion
}

// CriteriaParser turns free-text queries into Criteria records. It is a pure
// function of its input plus the read-only vocabulary.
type CriteriaParser struct {
	extractor *extractor.EntityExtractor
	log       zerolog.Logger
}
