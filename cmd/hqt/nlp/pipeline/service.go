package pipeline

import (
	"context"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/parser"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/querybuilder"
	"github.com/rs/zerolog"
)

// CombinedStrategy encodes the condition directly into one query via the
// _has linkage parameter. No intermediate fetch is performed.
type CombinedStrategy struct {
	parser  *parser.CriteriaParser
	builder *querybuilder.Builder
	log     zerolog.Logger
}

// NewCombinedStrategy creates the single-phase strategy.
func NewCombinedStrategy(criteriaParser *parser.CriteriaParser, builder *querybuilder.Builder, log zerolog.Logger) *CombinedStrategy {
	return &CombinedStrategy{
		parser:  criteriaParser,
		builder: builder,
		log:     log,
	}
}

// Process parses the query and builds one combined query string.
func (s *CombinedStrategy) Process(ctx context.Context, query string) (Result, error) {
	criteria := s.parser.Parse(query)

	if unsupported(query, criteria) {
		s.log.Info().Str("query", query).Msg("Condition phrase present but no known condition extracted")
		return Result{Input: query, Criteria: criteria, Outcome: OutcomeUnsupportedCondition}, nil
	}

	return Result{
		Input:        query,
		Criteria:     criteria,
		PatientQuery: s.builder.Build(criteria),
		Outcome:      OutcomeOK,
	}, nil
}

// TwoPhaseStrategy first resolves the condition to a set of subject
// identifiers through the repository, then constrains the patient query to
// those identifiers.
type TwoPhaseStrategy struct {
	parser   *parser.CriteriaParser
	builder  *querybuilder.Builder
	searcher SubjectSearcher
	log      zerolog.Logger
}

// NewTwoPhaseStrategy creates the lookup-then-query strategy.
func NewTwoPhaseStrategy(criteriaParser *parser.CriteriaParser, builder *querybuilder.Builder, searcher SubjectSearcher, log zerolog.Logger) *TwoPhaseStrategy {
	return &TwoPhaseStrategy{
		parser:   criteriaParser,
		builder:  builder,
		searcher: searcher,
		log:      log,
	}
}

// Process runs PARSE, then CONDITION_LOOKUP when a condition is present,
// then PATIENT_QUERY. A failed lookup degrades to a patient query without an
// identifier filter; a lookup that matched nobody produces a query that
// matches nothing.
func (s *TwoPhaseStrategy) Process(ctx context.Context, query string) (Result, error) {
	criteria := s.parser.Parse(query)

	if unsupported(query, criteria) {
		s.log.Info().Str("query", query).Msg("Condition phrase present but no known condition extracted")
		return Result{Input: query, Criteria: criteria, Outcome: OutcomeUnsupportedCondition}, nil
	}

	// Direct condition searches have no second phase.
	if criteria.Resource == "Condition" {
		return Result{
			Input:        query,
			Criteria:     criteria,
			PatientQuery: s.builder.Build(criteria),
			Outcome:      OutcomeOK,
		}, nil
	}

	result := Result{Input: query, Criteria: criteria, Outcome: OutcomeOK}

	var subjectIDs []string
	if conditionQuery, ok := s.builder.ConditionLookup(criteria); ok {
		result.ConditionQuery = conditionQuery

		ids, err := s.searcher.SubjectIDs(ctx, conditionQuery)
		switch {
		case err != nil:
			// Lookup failed: the identifier list is unknown, not empty.
			s.log.Warn().Err(err).Str("condition_query", conditionQuery).
				Msg("Condition lookup failed, building patient query without identifier filter")
			subjectIDs = nil
		case ids == nil:
			subjectIDs = []string{}
		default:
			subjectIDs = ids
		}
	}

	result.PatientQuery = s.builder.PatientQuery(criteria, subjectIDs)
	return result, nil
}

// unsupported reports the sentinel case: a condition-bearing phrase with zero
// recognized conditions.
func unsupported(query string, criteria parser.Criteria) bool {
	return len(criteria.Conditions) == 0 && parser.HasConditionTrigger(query)
}
