package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

var (
	tokenPattern       = regexp.MustCompile(`[a-z]+|[0-9]+`)
	comparatorFallback = regexp.MustCompile(`\b(under|below|over|above)\s+(\d+)\b`)
)

// ageQuantifiers start a quantified age span ("over 50 years").
var ageQuantifiers = map[string]Comparison{
	"over":  ComparisonGreaterThan,
	"above": ComparisonGreaterThan,
	"under": ComparisonLessThan,
	"below": ComparisonLessThan,
}

// NewEntityExtractor creates a new entity extractor backed by the given
// condition vocabulary.
func NewEntityExtractor(conditions *vocabulary.ConditionService, log zerolog.Logger) *EntityExtractor {
	return &EntityExtractor{
		conditions: conditions,
		log:        log,
	}
}

// Extract scans the text for condition mentions and age expressions.
func (ex *EntityExtractor) Extract(text string) Extraction {
	lowered := strings.ToLower(text)
	tokens := tokenPattern.FindAllString(lowered, -1)

	return Extraction{
		Conditions: ex.extractConditions(tokens),
		Age:        ex.extractAge(tokens, lowered),
	}
}

// extractConditions matches every vocabulary term (canonical and alias) as a
// token sequence, longest terms first, and normalizes hits to their canonical
// entry. First-seen order is kept; repeated mentions collapse to one entry.
func (ex *EntityExtractor) extractConditions(tokens []string) []vocabulary.ConditionEntry {
	type match struct {
		pos   int
		entry vocabulary.ConditionEntry
	}

	var matches []match
	claimed := make([]bool, len(tokens))
	seen := make(map[string]bool)

	for _, term := range ex.conditions.Terms() {
		parts := strings.Fields(term)
		for i := 0; i+len(parts) <= len(tokens); i++ {
			if !tokensEqual(tokens[i:i+len(parts)], parts) || anyClaimed(claimed[i:i+len(parts)]) {
				continue
			}
			entry, ok := ex.conditions.Resolve(term)
			if !ok {
				continue
			}
			for j := i; j < i+len(parts); j++ {
				claimed[j] = true
			}
			if seen[entry.Term] {
				continue
			}
			seen[entry.Term] = true
			matches = append(matches, match{pos: i, entry: entry})
		}
	}

	// Terms are matched longest-first, so restore text order afterwards.
	slices.SortStableFunc(matches, func(a, b match) int { return a.pos - b.pos })

	entries := make([]vocabulary.ConditionEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, m.entry)
	}
	return entries
}

// extractAge recognizes quantifier+number+unit spans and bare number spans.
// When several expressions appear the last one wins. When no span matches at
// all, a direct comparator+number scan runs as a fallback.
func (ex *EntityExtractor) extractAge(tokens []string, lowered string) *AgeCriterion {
	var age *AgeCriterion

	for i := 0; i < len(tokens); i++ {
		if cmp, ok := ageQuantifiers[tokens[i]]; ok && i+2 < len(tokens) {
			if value, isNum := parseNumber(tokens[i+1]); isNum && isAgeUnit(tokens[i+2]) {
				age = &AgeCriterion{Comparison: cmp, Value: value}
				i += 2
				continue
			}
		}

		value, isNum := parseNumber(tokens[i])
		if !isNum {
			continue
		}

		// Bare number span, optionally followed by a unit and "old". The
		// comparison comes from the surrounding text when the span itself
		// carries no quantifier.
		j := i + 1
		if j < len(tokens) && isAgeUnit(tokens[j]) {
			j++
		}
		if j < len(tokens) && tokens[j] == "old" {
			j++
		}
		age = &AgeCriterion{Comparison: ex.comparisonFromContext(lowered, value), Value: value}
		i = j - 1
	}

	if age == nil {
		age = fallbackAgeScan(lowered)
	}
	return age
}

// comparisonFromContext looks for an under/below or over/above token directly
// before the number in the full query text; ambiguous numbers read as an
// exact age.
func (ex *EntityExtractor) comparisonFromContext(lowered string, value int) Comparison {
	if matched, _ := regexp.MatchString(fmt.Sprintf(`(under|below)\s+%d\b`, value), lowered); matched {
		return ComparisonLessThan
	}
	if matched, _ := regexp.MatchString(fmt.Sprintf(`(over|above)\s+%d\b`, value), lowered); matched {
		return ComparisonGreaterThan
	}
	return ComparisonEqual
}

// fallbackAgeScan catches "under 18" style phrases with no unit word. This
// path never yields an exact-age criterion.
func fallbackAgeScan(lowered string) *AgeCriterion {
	m := comparatorFallback.FindStringSubmatch(lowered)
	if m == nil {
		return nil
	}
	value, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	return &AgeCriterion{Comparison: ageQuantifiers[m[1]], Value: value}
}

func tokensEqual(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func anyClaimed(claimed []bool) bool {
	for _, c := range claimed {
		if c {
			return true
		}
	}
	return false
}

func parseNumber(token string) (int, bool) {
	if token == "" || token[0] < '0' || token[0] > '9' {
		return 0, false
	}
	value, err := strconv.Atoi(token)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func isAgeUnit(token string) bool {
	return token == "year" || token == "years"
}
