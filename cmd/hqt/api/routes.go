package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/fhir/client"
	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/pipeline"
)

// QueryRouter exposes the query-derivation pipeline over HTTP.
type QueryRouter struct {
	strategy    pipeline.Strategy
	fhirClient  *client.Client
	corsOrigins []string
	log         zerolog.Logger
}

// NewQueryRouter creates a router around the given orchestration strategy.
func NewQueryRouter(strategy pipeline.Strategy, fhirClient *client.Client, corsOrigins []string, log zerolog.Logger) *QueryRouter {
	return &QueryRouter{
		strategy:    strategy,
		fhirClient:  fhirClient,
		corsOrigins: corsOrigins,
		log:         log,
	}
}

// QueryRequest is the body of POST /nlp and POST /fhir/execute.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the body of POST /nlp responses.
type QueryResponse struct {
	ConditionQuery string `json:"condition_query,omitempty"`
	PatientQuery   string `json:"patient_query"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

// ExecuteResponse is the body of POST /fhir/execute responses.
type ExecuteResponse struct {
	Records []client.PatientRecord `json:"records"`
	Total   int                    `json:"total"`
}

// SetupRoutes builds the HTTP handler with request-id, logging and CORS
// middleware applied.
func (qr *QueryRouter) SetupRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", qr.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/health", qr.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/nlp", qr.handleNLPQuery).Methods(http.MethodPost)
	r.HandleFunc("/fhir/execute", qr.handleExecute).Methods(http.MethodPost)

	cors := handlers.CORS(
		handlers.AllowedOrigins(qr.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	return qr.requestID(qr.logRequests(cors(r)))
}

func (qr *QueryRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Healthcare Query Tool API is running",
		"status":  "healthy",
	})
}

func (qr *QueryRouter) handleNLPQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, QueryResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	// The pipeline assumes non-empty text; reject blanks at the boundary.
	query := strings.TrimSpace(req.Query)
	if query == "" {
		respondWithJSON(w, http.StatusBadRequest, QueryResponse{
			Success: false,
			Error:   "query cannot be empty",
		})
		return
	}

	result, err := qr.strategy.Process(r.Context(), query)
	if err != nil {
		qr.log.Error().Err(err).Str("query", query).Msg("Pipeline failed")
		respondWithJSON(w, http.StatusInternalServerError, QueryResponse{
			Success: false,
			Error:   "failed to process query",
		})
		return
	}

	if result.Outcome == pipeline.OutcomeUnsupportedCondition {
		respondWithJSON(w, http.StatusOK, QueryResponse{
			Success: false,
			Error:   "the condition mentioned in the query is not supported",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, QueryResponse{
		ConditionQuery: result.ConditionQuery,
		PatientQuery:   result.PatientQuery,
		Success:        true,
	})
}

func (qr *QueryRouter) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "a query line is required"})
		return
	}

	records, err := qr.fhirClient.SearchPatients(r.Context(), strings.TrimSpace(req.Query))
	if err != nil {
		qr.log.Error().Err(err).Msg("Failed to execute patient query")
		respondWithJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to fetch results from the FHIR server"})
		return
	}

	respondWithJSON(w, http.StatusOK, ExecuteResponse{Records: records, Total: len(records)})
}

// requestID tags every request with an identifier for log correlation.
func (qr *QueryRouter) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (qr *QueryRouter) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		qr.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", w.Header().Get("X-Request-ID")).
			Msg("Handling request")
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
