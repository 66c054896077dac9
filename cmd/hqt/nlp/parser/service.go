package parser

import (
	"regexp"
	"strings"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/extractor"
	"github.com/rs/zerolog"
)

// genderPatterns is scanned in order; female-coded terms come first so that
// e.g. "woman" is not swallowed by the "man" pattern.
var genderPatterns = []struct {
	pattern *regexp.Regexp
	gender  string
}{
	{regexp.MustCompile(`\bfemale\b`), "female"},
	{regexp.MustCompile(`\bwomen\b`), "female"},
	{regexp.MustCompile(`\bwoman\b`), "female"},
	{regexp.MustCompile(`\bgirl\b`), "female"},
	{regexp.MustCompile(`\bgirls\b`), "female"},
	{regexp.MustCompile(`\bmale\b`), "male"},
	{regexp.MustCompile(`\bmen\b`), "male"},
	{regexp.MustCompile(`\bman\b`), "male"},
	{regexp.MustCompile(`\bboy\b`), "male"},
	{regexp.MustCompile(`\bboys\b`), "male"},
}

// namePatterns is scanned in order; the first hit wins. The captured value
// stops at whitespace or a quote character.
var namePatterns = []struct {
	pattern   *regexp.Regexp
	matchType MatchType
}{
	{regexp.MustCompile("name\\s+starts?\\s+with\\s+[\"`]?([^\"`\\s]+)[\"`]?"), MatchStartsWith},
	{regexp.MustCompile("name\\s+begins?\\s+with\\s+[\"`]?([^\"`\\s]+)[\"`]?"), MatchStartsWith},
	{regexp.MustCompile("named\\s+[\"`]?([^\"`\\s]+)[\"`]?"), MatchExact},
}

// conditionTriggers are phrases that announce a condition criterion. A query
// containing one of these with no recognized condition is reported as
// unsupported rather than built into an unfiltered search.
var conditionTriggers = []string{
	"patients with",
	"diagnosed with",
	"suffering from",
	"history of",
	"having",
}

// NewCriteriaParser creates a new criteria parser
func NewCriteriaParser(entityExtractor *extractor.EntityExtractor, log zerolog.Logger) *CriteriaParser {
	return &CriteriaParser{
		extractor: entityExtractor,
		log:       log,
	}
}

// Parse extracts all supported criterion types from one query text.
func (p *CriteriaParser) Parse(query string) Criteria {
	lowered := strings.ToLower(query)
	extraction := p.extractor.Extract(query)

	criteria := Criteria{
		Resource:   extractResource(lowered),
		Conditions: extraction.Conditions,
		Age:        extraction.Age,
		Gender:     extractGender(lowered),
		Name:       extractName(lowered),
	}

	p.log.Debug().
		Str("resource", criteria.Resource).
		Int("conditions", len(criteria.Conditions)).
		Bool("has_age", criteria.Age != nil).
		Str("gender", criteria.Gender).
		Bool("has_name", criteria.Name != nil).
		Msg("Parsed query criteria")

	return criteria
}

// HasConditionTrigger reports whether the query contains a phrase that
// normally introduces a condition criterion.
func HasConditionTrigger(query string) bool {
	lowered := strings.ToLower(query)
	for _, trigger := range conditionTriggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}

// extractResource picks the primary resource kind. Checked on the whole
// lower-cased string, condition words before patient words, Patient default.
func extractResource(lowered string) string {
	if strings.Contains(lowered, "condition") || strings.Contains(lowered, "diagnosis") {
		return "Condition"
	}
	for _, term := range []string{"patient", "patients", "people", "person"} {
		if strings.Contains(lowered, term) {
			return "Patient"
		}
	}
	return "Patient"
}

func extractGender(lowered string) string {
	for _, gp := range genderPatterns {
		if gp.pattern.MatchString(lowered) {
			return gp.gender
		}
	}
	return ""
}

func extractName(lowered string) *NameCriterion {
	for _, np := range namePatterns {
		if m := np.pattern.FindStringSubmatch(lowered); m != nil {
			return &NameCriterion{MatchType: np.matchType, Value: m[1]}
		}
	}
	return nil
}
