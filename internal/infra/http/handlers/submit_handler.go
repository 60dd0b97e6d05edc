package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angushq/prospect-sync/internal/infra/http/middleware"
	"github.com/angushq/prospect-sync/internal/usecase"
)

type SubmitHandler struct {
	UseCase     *usecase.SubmitSurveyUseCase
	rateLimiter *RateLimiter
}

func NewSubmitHandler(uc *usecase.SubmitSurveyUseCase) *SubmitHandler {
	return &SubmitHandler{
		UseCase:     uc,
		rateLimiter: NewRateLimiter(10, time.Minute),
	}
}

type SubmitResponse struct {
	Status         string `json:"status"`
	LegacyCode     string `json:"legacy_code,omitempty"`
	RedirectTarget string `json:"redirect_target,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (h *SubmitHandler) Handle(w http.ResponseWriter, r *http.Request) {
	submissionID := uuid.New().String()

	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, SubmitResponse{
			Status: "error",
			Error:  "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.SubmitSurveyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Status: "error", Error: "Invalid JSON"})
		return
	}

	output, err := h.UseCase.Execute(r.Context(), input)
	if err != nil {
		switch {
		case usecase.IsValidationError(err):
			middleware.RecordSubmission("rejected")
			writeJSON(w, http.StatusBadRequest, SubmitResponse{Status: "error", Error: err.Error()})
		case usecase.IsIdentityResolutionError(err):
			middleware.RecordSubmission("failed")
			middleware.RecordIntegrationError("recordstore")
			log.Printf("🔥 Submission %s failed: %v", submissionID, err)
			writeJSON(w, http.StatusInternalServerError, SubmitResponse{Status: "error", Error: err.Error()})
		default:
			middleware.RecordSubmission("failed")
			log.Printf("🔥 Submission %s failed: %v", submissionID, err)
			writeJSON(w, http.StatusInternalServerError, SubmitResponse{Status: "error", Error: err.Error()})
		}
		return
	}

	middleware.RecordSubmission("accepted")
	middleware.RecordCrmSync(string(output.State))
	if output.State == usecase.StateCrmFailed {
		middleware.RecordIntegrationError("crm")
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		Status:         "success",
		LegacyCode:     output.LegacyCode,
		RedirectTarget: output.RedirectTarget,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
