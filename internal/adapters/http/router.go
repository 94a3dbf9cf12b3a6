// Package httpadapter exposes the feedback enrichment service over HTTP.
// Responses use the {ok:true,...}/{ok:false,error} envelope; the enrichment
// path never reports ok:false for provider failures because the core always
// falls back to rule-based classification.
package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
	"github.com/kirillkom/feedback-insights/internal/core/ports"
)

type Router struct {
	enricher ports.FeedbackEnricher
	seeder   ports.FeedbackSeeder
	advisor  ports.AdviceService
	repo     ports.FeedbackRepository
	logger   *slog.Logger

	defaultBatchSize int
}

func NewRouter(
	enricher ports.FeedbackEnricher,
	seeder ports.FeedbackSeeder,
	advisor ports.AdviceService,
	repo ports.FeedbackRepository,
	logger *slog.Logger,
	defaultBatchSize int,
) *Router {
	if defaultBatchSize <= 0 {
		defaultBatchSize = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		enricher:         enricher,
		seeder:           seeder,
		advisor:          advisor,
		repo:             repo,
		logger:           logger,
		defaultBatchSize: defaultBatchSize,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/process", rt.process)
	mux.HandleFunc("/v1/seed", rt.seed)
	mux.HandleFunc("/v1/ai-advice", rt.aiAdvice)
	mux.HandleFunc("/v1/feedback/", rt.getFeedbackByID)
	return requestIDMiddleware(rt.accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type processRequest struct {
	FeedbackID string `json:"feedbackId"`
	BatchSize  int    `json:"batchSize"`
}

func (rt *Router) process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req processRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.FeedbackID != "" {
		enriched, err := rt.enricher.ProcessOne(r.Context(), req.FeedbackID)
		if err != nil {
			writeError(w, mapErrorToHTTPStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"feedback": enriched,
		})
		return
	}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = rt.defaultBatchSize
	}
	report, err := rt.enricher.ProcessBatch(r.Context(), batchSize)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"processed": report.Processed,
		"results":   report.Results,
	})
}

type seedRequest struct {
	Count int `json:"count"`
}

func (rt *Router) seed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req seedRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	inserted, err := rt.seeder.Seed(r.Context(), req.Count)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"inserted": inserted,
	})
}

func (rt *Router) aiAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req domain.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := rt.advisor.Advise(r.Context(), req)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	payload := map[string]any{
		"ok":     true,
		"advice": result.Advice,
	}
	if result.AIResponse != "" {
		payload["aiResponse"] = result.AIResponse
	}
	if result.Fallback {
		payload["fallback"] = true
	}
	if result.Error != "" {
		payload["error"] = result.Error
	}
	writeJSON(w, http.StatusOK, payload)
}

func (rt *Router) getFeedbackByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/feedback/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "feedback id is required")
		return
	}

	raw, err := rt.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	enriched, err := rt.repo.GetEnrichedByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"raw":      raw,
		"enriched": enriched,
	})
}

// decodeBody tolerates an empty body so endpoints with all-optional fields
// can be POSTed without one.
func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": message,
	})
}
