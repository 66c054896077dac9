package main

import (
	"os"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
)

// ConditionCode mirrors the condition_codes table read by the service.
type ConditionCode struct {
	Term       string `gorm:"primary_key;column:term"`
	ICD10Code  string `gorm:"column:icd10_code"`
	SNOMEDCode string `gorm:"column:snomed_code"`
	Display    string `gorm:"column:display"`
}

// TableName overrides gorm's pluralization
func (ConditionCode) TableName() string {
	return "condition_codes"
}

// ConditionAlias mirrors the condition_aliases table.
type ConditionAlias struct {
	Alias string `gorm:"primary_key;column:alias"`
	Term  string `gorm:"column:term"`
}

// TableName overrides gorm's pluralization
func (ConditionAlias) TableName() string {
	return "condition_aliases"
}

// vocabloader migrates the vocabulary tables and upserts the built-in
// condition table, so DB-backed deployments start from the canonical seed.
func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	db, err := gorm.Open("postgres", databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()

	if err := db.AutoMigrate(&ConditionCode{}, &ConditionAlias{}).Error; err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate vocabulary tables")
	}

	entries, aliases := vocabulary.Seed()

	for _, entry := range entries {
		row := ConditionCode{
			Term:       entry.Term,
			ICD10Code:  entry.ICD10,
			SNOMEDCode: entry.SNOMED,
			Display:    entry.Display,
		}
		if err := db.Where(ConditionCode{Term: row.Term}).Assign(row).FirstOrCreate(&ConditionCode{}).Error; err != nil {
			log.Fatal().Err(err).Str("term", row.Term).Msg("Failed to upsert condition code")
		}
	}

	for alias, term := range aliases {
		row := ConditionAlias{Alias: alias, Term: term}
		if err := db.Where(ConditionAlias{Alias: alias}).Assign(row).FirstOrCreate(&ConditionAlias{}).Error; err != nil {
			log.Fatal().Err(err).Str("alias", alias).Msg("Failed to upsert condition alias")
		}
	}

	log.Info().
		Int("terms", len(entries)).
		Int("aliases", len(aliases)).
		Msg("Vocabulary tables are up to date")
}
