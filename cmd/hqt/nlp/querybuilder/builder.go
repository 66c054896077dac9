package querybuilder

import (
	"fmt"
	"strings"
	"time"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/extractor"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/parser"
	"github.com/rs/zerolog"
)

// Builder turns a criteria record into FHIR query strings. It is a pure
// function of the criteria and the clock; the clock is a field so boundary
// dates can be pinned in tests.
type Builder struct {
	baseURL     string
	lookupCount int
	now         func() time.Time
	log         zerolog.Logger
}

// NewBuilder creates a query builder rooted at the given FHIR base URL.
// lookupCount bounds the record count requested by condition lookups.
func NewBuilder(baseURL string, lookupCount int, log zerolog.Logger) *Builder {
	return &Builder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		lookupCount: lookupCount,
		now:         time.Now,
		log:         log,
	}
}

// Build assembles the single-phase query: the condition is encoded directly
// as a linkage parameter on the primary resource.
func (b *Builder) Build(criteria parser.Criteria) string {
	resource := criteria.Resource
	if resource == "" {
		resource = "Patient"
	}

	var params []string
	switch resource {
	case "Condition":
		if len(criteria.Conditions) > 0 {
			params = append(params, "code="+criteria.Conditions[0].ICD10)
		}
		params = append(params, b.birthdateParams("subject.birthdate", criteria.Age)...)
		if criteria.Gender != "" {
			params = append(params, "subject.gender="+criteria.Gender)
		}
	default:
		if len(criteria.Conditions) > 0 {
			params = append(params, "_has:Condition:subject:code="+criteria.Conditions[0].ICD10)
		}
		params = append(params, b.patientParams(criteria)...)
	}

	return b.queryLine(resource, params)
}

// ConditionLookup builds the first-phase query that resolves a condition to
// its subjects. The richer SNOMED code is used for the cross-reference. The
// second return value is false when the criteria carry no condition.
func (b *Builder) ConditionLookup(criteria parser.Criteria) (string, bool) {
	if len(criteria.Conditions) == 0 {
		return "", false
	}
	params := []string{
		"code=" + criteria.Conditions[0].SNOMED,
		fmt.Sprintf("_count=%d", b.lookupCount),
	}
	return b.queryLine("Condition", params), true
}

// PatientQuery builds the second-phase patient query. subjectIDs semantics:
// a nil slice means the lookup failed or was skipped, so no identifier filter
// is applied; an empty non-nil slice means the lookup matched nobody, which
// is encoded as an empty _id filter so the query matches nothing.
func (b *Builder) PatientQuery(criteria parser.Criteria, subjectIDs []string) string {
	var params []string
	if subjectIDs != nil {
		params = append(params, "_id="+strings.Join(subjectIDs, ","))
	}
	params = append(params, b.patientParams(criteria)...)
	return b.queryLine("Patient", params)
}

// patientParams appends the non-linkage patient filters in their fixed order:
// birthdate, gender, name.
func (b *Builder) patientParams(criteria parser.Criteria) []string {
	params := b.birthdateParams("birthdate", criteria.Age)

	if criteria.Gender != "" {
		params = append(params, "gender="+criteria.Gender)
	}

	if criteria.Name != nil {
		switch criteria.Name.MatchType {
		case parser.MatchStartsWith:
			params = append(params, "name:starts-with="+criteria.Name.Value)
		case parser.MatchExact:
			params = append(params, "name="+criteria.Name.Value)
		}
	}
	return params
}

// birthdateParams resolves an age comparison into date-range parameters.
//
// The convention, at day granularity with today = call date:
//
//	over N   -> le(today - (N+1)y)   born at least N+1 years ago
//	under N  -> gt(today - Ny)       born strictly less than N years ago
//	exactly N -> gt(today - (N+1)y) AND le(today - Ny)
//
// The exclusive lower / inclusive upper pairing keeps adjacent exact-age
// ranges disjoint: a person born exactly N years ago today is N, not N-1.
func (b *Builder) birthdateParams(param string, age *extractor.AgeCriterion) []string {
	if age == nil {
		return nil
	}

	today := b.now()
	yearsAgo := func(years int) string {
		return today.AddDate(-years, 0, 0).Format("2006-01-02")
	}

	switch age.Comparison {
	case extractor.ComparisonGreaterThan:
		return []string{param + "=le" + yearsAgo(age.Value+1)}
	case extractor.ComparisonLessThan:
		return []string{param + "=gt" + yearsAgo(age.Value)}
	case extractor.ComparisonEqual:
		return []string{
			param + "=gt" + yearsAgo(age.Value+1),
			param + "=le" + yearsAgo(age.Value),
		}
	default:
		b.log.Warn().Str("comparison", string(age.Comparison)).Msg("Unknown age comparison, skipping birthdate filter")
		return nil
	}
}

func (b *Builder) queryLine(resource string, params []string) string {
	if len(params) == 0 {
		return fmt.Sprintf("GET %s/%s", b.baseURL, resource)
	}
	return fmt.Sprintf("GET %s/%s?%s", b.baseURL, resource, strings.Join(params, "&"))
}
