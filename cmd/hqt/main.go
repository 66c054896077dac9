package main

import (
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/api"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/fhir/client"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/extractor"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/parser"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/pipeline"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/querybuilder"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).With().Timestamp().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}
	cfg := loadConfig()

	repo := vocabulary.NewConditionRepository(log)
	if cfg.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to the database")
		}
		defer db.Close()

		if err := repo.LoadFromDB(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to load condition vocabulary from database")
		}
	}

	conditionService := vocabulary.NewConditionService(repo, log)
	entityExtractor := extractor.NewEntityExtractor(conditionService, log)
	criteriaParser := parser.NewCriteriaParser(entityExtractor, log)
	builder := querybuilder.NewBuilder(cfg.FHIRBaseURL, cfg.LookupCount, log)
	fhirClient := client.NewClient(log)

	var strategy pipeline.Strategy
	switch cfg.Strategy {
	case "combined":
		strategy = pipeline.NewCombinedStrategy(criteriaParser, builder, log)
	case "two-phase":
		strategy = pipeline.NewTwoPhaseStrategy(criteriaParser, builder, fhirClient, log)
	default:
		log.Fatal().Str("strategy", cfg.Strategy).Msg("Unknown query strategy")
	}

	router := api.NewQueryRouter(strategy, fhirClient, cfg.CORSOrigins, log)

	log.Info().
		Str("port", cfg.Port).
		Str("strategy", cfg.Strategy).
		Str("fhir_base_url", cfg.FHIRBaseURL).
		Msg("Starting healthcare query tool")
	if err := http.ListenAndServe(":"+cfg.Port, router.SetupRoutes()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
