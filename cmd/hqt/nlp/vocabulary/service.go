package vocabulary

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// NewConditionService creates a new condition service
func NewConditionService(repo *ConditionRepository, log zerolog.Logger) *ConditionService {
	return &ConditionService{
		repo: repo,
		log:  log,
	}
}

// Resolve looks a term up case-insensitively, following the alias table to the
// canonical entry when needed. Unknown terms report false, never an error.
func (svc *ConditionService) Resolve(term string) (ConditionEntry, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ConditionEntry{}, false
	}

	if entry, ok := svc.repo.GetEntry(term); ok {
		return entry, true
	}
	if canonical, ok := svc.repo.GetAlias(term); ok {
		return svc.repo.GetEntry(canonical)
	}
	return ConditionEntry{}, false
}

// Terms returns every matchable term (canonical and alias), multi-word terms
// first so token matchers can prefer the longest sequence.
func (svc *ConditionService) Terms() []string {
	terms := svc.repo.AllTerms()
	slices.SortFunc(terms, func(a, b string) int {
		aTokens := strings.Count(a, " ")
		bTokens := strings.Count(b, " ")
		if aTokens != bTokens {
			return bTokens - aTokens
		}
		return strings.Compare(a, b)
	})
	return terms
}
