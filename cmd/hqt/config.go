package main

import (
	"os"
	"strconv"
	"strings"
)

// Config carries everything the service reads from the environment.
type Config struct {
	Port        string
	FHIRBaseURL string
	Strategy    string
	DatabaseURL string
	CORSOrigins []string
	LookupCount int
}

func loadConfig() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		FHIRBaseURL: getEnv("FHIR_BASE_URL", "https://hapi.fhir.org/baseR4"),
		Strategy:    getEnv("QUERY_STRATEGY", "two-phase"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LookupCount: 1000,
	}

	origins := getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if raw := os.Getenv("CONDITION_LOOKUP_COUNT"); raw != "" {
		if count, err := strconv.Atoi(raw); err == nil && count > 0 {
			cfg.LookupCount = count
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
