package vocabulary

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// NewConditionRepository creates a repository populated with the built-in
// condition table.
func NewConditionRepository(log zerolog.Logger) *ConditionRepository {
	repo := &ConditionRepository{
		entries: make(map[string]ConditionEntry),
		aliases: make(map[string]string),
		log:     log,
	}
	repo.load(seedEntries, seedAliases)
	return repo
}

// load replaces the repository contents. Aliases pointing at unknown terms
// are skipped so the invariant "every alias resolves to a known entry" holds.
func (repo *ConditionRepository) load(entries []ConditionEntry, aliases map[string]string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.entries = make(map[string]ConditionEntry, len(entries))
	repo.aliases = make(map[string]string, len(aliases))

	for _, entry := range entries {
		term := strings.ToLower(strings.TrimSpace(entry.Term))
		if term == "" {
			continue
		}
		entry.Term = term
		repo.entries[term] = entry
	}

	for alias, term := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		term = strings.ToLower(strings.TrimSpace(term))
		if _, ok := repo.entries[term]; !ok {
			repo.log.Warn().
				Str("alias", alias).
				Str("term", term).
				Msg("Skipping alias for unknown condition term")
			continue
		}
		repo.aliases[alias] = term
	}
}

// aliasRow mirrors the condition_aliases table.
type aliasRow struct {
	Alias string `db:"alias"`
	Term  string `db:"term"`
}

// LoadFromDB replaces the built-in table with the contents of the
// condition_codes and condition_aliases tables.
func (repo *ConditionRepository) LoadFromDB(db *sqlx.DB) error {
	var entries []ConditionEntry
	if err := db.Select(&entries, "SELECT term, icd10_code, snomed_code, display FROM condition_codes"); err != nil {
		return fmt.Errorf("failed to load condition codes: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("condition_codes table is empty")
	}

	var rows []aliasRow
	if err := db.Select(&rows, "SELECT alias, term FROM condition_aliases"); err != nil {
		return fmt.Errorf("failed to load condition aliases: %w", err)
	}

	aliases := make(map[string]string, len(rows))
	for _, row := range rows {
		aliases[row.Alias] = row.Term
	}

	repo.load(entries, aliases)
	repo.log.Info().
		Int("terms", len(entries)).
		Int("aliases", len(aliases)).
		Msg("Loaded condition vocabulary from database")
	return nil
}

// GetEntry returns the entry for a canonical term.
func (repo *ConditionRepository) GetEntry(term string) (ConditionEntry, bool) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	entry, ok := repo.entries[term]
	return entry, ok
}

// GetAlias returns the canonical term an alias points at.
func (repo *ConditionRepository) GetAlias(alias string) (string, bool) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	term, ok := repo.aliases[alias]
	return term, ok
}

// AllTerms returns every canonical term and alias known to the repository.
func (repo *ConditionRepository) AllTerms() []string {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	terms := make([]string, 0, len(repo.entries)+len(repo.aliases))
	for term := range repo.entries {
		terms = append(terms, term)
	}
	for alias := range repo.aliases {
		terms = append(terms, alias)
	}
	return terms
}
