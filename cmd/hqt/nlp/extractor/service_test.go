package extractor

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
)

func newTestExtractor() *EntityExtractor {
	log := zerolog.Nop()
	svc := vocabulary.NewConditionService(vocabulary.NewConditionRepository(log), log)
	return NewEntityExtractor(svc, log)
}

func conditionTerms(ex Extraction) []string {
	terms := make([]string, 0, len(ex.Conditions))
	for _, c := range ex.Conditions {
		terms = append(terms, c.Term)
	}
	return terms
}

func TestExtract_SingleCondition(t *testing.T) {
	ex := newTestExtractor()

	result := ex.Extract("list all patients with diabetes")
	if got := conditionTerms(result); len(got) != 1 || got[0] != "diabetes" {
		t.Fatalf("conditions = %v, want [diabetes]", got)
	}
	if result.Conditions[0].ICD10 != "E11" {
		t.Errorf("icd10 = %q, want E11", result.Conditions[0].ICD10)
	}
}

func TestExtract_AliasNormalizesToCanonical(t *testing.T) {
	ex := newTestExtractor()

	fromAlias := ex.Extract("show diabetic patients")
	fromCanonical := ex.Extract("show patients with diabetes")

	if len(fromAlias.Conditions) != 1 || len(fromCanonical.Conditions) != 1 {
		t.Fatalf("expected one condition from each form, got %d and %d",
			len(fromAlias.Conditions), len(fromCanonical.Conditions))
	}
	if fromAlias.Conditions[0] != fromCanonical.Conditions[0] {
		t.Errorf("alias extraction %+v differs from canonical %+v",
			fromAlias.Conditions[0], fromCanonical.Conditions[0])
	}
}

func TestExtract_MultiWordCondition(t *testing.T) {
	ex := newTestExtractor()

	result := ex.Extract("male patients with heart disease over 40 years old")
	if got := conditionTerms(result); len(got) != 1 || got[0] != "heart disease" {
		t.Fatalf("conditions = %v, want [heart disease]", got)
	}
	if result.Age == nil || result.Age.Comparison != ComparisonGreaterThan || result.Age.Value != 40 {
		t.Errorf("age = %+v, want gt 40", result.Age)
	}
}

func TestExtract_MultipleConditionsKeepTextOrder(t *testing.T) {
	ex := newTestExtractor()

	result := ex.Extract("patients with hypertension and diabetes")
	if got := conditionTerms(result); len(got) != 2 || got[0] != "hypertension" || got[1] != "diabetes" {
		t.Fatalf("conditions = %v, want [hypertension diabetes]", got)
	}
}

func TestExtract_RepeatedMentionCollapses(t *testing.T) {
	ex := newTestExtractor()

	result := ex.Extract("diabetic patients with diabetes")
	if got := conditionTerms(result); len(got) != 1 || got[0] != "diabetes" {
		t.Fatalf("conditions = %v, want [diabetes]", got)
	}
}

func TestExtract_AgeQuantifiedSpans(t *testing.T) {
	ex := newTestExtractor()

	cases := []struct {
		text string
		want AgeCriterion
	}{
		{"patients over 50 years of age", AgeCriterion{ComparisonGreaterThan, 50}},
		{"patients above 65 years", AgeCriterion{ComparisonGreaterThan, 65}},
		{"patients under 18 years", AgeCriterion{ComparisonLessThan, 18}},
		{"patients below 30 year", AgeCriterion{ComparisonLessThan, 30}},
	}

	for _, tc := range cases {
		result := ex.Extract(tc.text)
		if result.Age == nil || *result.Age != tc.want {
			t.Errorf("%q: age = %+v, want %+v", tc.text, result.Age, tc.want)
		}
	}
}

func TestExtract_BareAgeUsesContext(t *testing.T) {
	ex := newTestExtractor()

	// No unit word after the number, so the span itself is just "18"; the
	// comparison must come from the text before the number.
	result := ex.Extract("show patients under 18 with asthma")
	if result.Age == nil || result.Age.Comparison != ComparisonLessThan || result.Age.Value != 18 {
		t.Fatalf("age = %+v, want lt 18", result.Age)
	}

	result = ex.Extract("patients that are 47 years old")
	if result.Age == nil || result.Age.Comparison != ComparisonEqual || result.Age.Value != 47 {
		t.Fatalf("age = %+v, want eq 47", result.Age)
	}
}

func TestExtract_FallbackComparatorScan(t *testing.T) {
	// fallbackAgeScan only runs when the token patterns found nothing, so
	// exercise it directly: it must never produce an exact-age criterion.
	if got := fallbackAgeScan("everyone over 65"); got == nil || got.Comparison != ComparisonGreaterThan || got.Value != 65 {
		t.Errorf("fallback scan = %+v, want gt 65", got)
	}
	if got := fallbackAgeScan("everyone aged 65"); got != nil {
		t.Errorf("fallback scan = %+v, want nil for unquantified text", got)
	}
}

func TestExtract_LastAgeExpressionWins(t *testing.T) {
	ex := newTestExtractor()

	result := ex.Extract("patients over 50 years or exactly 60 years old")
	if result.Age == nil || result.Age.Comparison != ComparisonEqual || result.Age.Value != 60 {
		t.Fatalf("age = %+v, want eq 60 (last expression wins)", result.Age)
	}
}

func TestExtract_NoEntities(t *testing.T) {
	ex := newTestExtractor()

	result := ex.Extract("show me everything")
	if len(result.Conditions) != 0 {
		t.Errorf("conditions = %v, want none", conditionTerms(result))
	}
	if result.Age != nil {
		t.Errorf("age = %+v, want nil", result.Age)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	ex := newTestExtractor()

	text := "female patients with diabetes over 50 years of age"
	first := ex.Extract(text)
	for i := 0; i < 10; i++ {
		again := ex.Extract(text)
		if len(again.Conditions) != len(first.Conditions) || *again.Age != *first.Age {
			t.Fatalf("extraction changed between runs: %+v vs %+v", again, first)
		}
	}
}
