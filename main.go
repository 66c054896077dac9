package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/extractor"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/parser"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/pipeline"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/querybuilder"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/vocabulary"
)

// Runs a fixed query corpus through the combined-strategy pipeline and prints
// the derived FHIR queries. Handy for eyeballing extraction changes without
// standing up the service.
func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	repo := vocabulary.NewConditionRepository(log)
	conditionService := vocabulary.NewConditionService(repo, log)
	entityExtractor := extractor.NewEntityExtractor(conditionService, log)
	criteriaParser := parser.NewCriteriaParser(entityExtractor, log)
	builder := querybuilder.NewBuilder("[base]", 1000, log)
	strategy := pipeline.NewCombinedStrategy(criteriaParser, builder, log)

	examples := []string{
		"list all female patients with diabetes over 50 years of age",
		"find patients that are male with hypertension",
		"show patients under 18 with asthma and are female",
		"get all active conditions for patients over 65",
		"list patients diagnosed with covid in 2023",
		"find male patients with heart disease over 40 years old",
		"Show me patients with hypertension and are male and below 18 years of age",
		"List all people with asthma that are male",
		"Show all people with diabetes whose name starts with Sid",
	}

	for _, example := range examples {
		result, err := strategy.Process(context.Background(), example)
		if err != nil {
			log.Error().Err(err).Str("query", example).Msg("Pipeline failed")
			continue
		}

		fmt.Printf("\nInput: %s\n", result.Input)
		if result.Outcome == pipeline.OutcomeUnsupportedCondition {
			fmt.Println("FHIR Query: (condition not supported)")
			continue
		}
		fmt.Printf("FHIR Query: %s\n", result.PatientQuery)
	}
}
