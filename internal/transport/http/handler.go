package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Handler exposes the assessment flow as a JSON API for the presentation
// layer. The presentation layer itself (forms, charts, exports) lives in
// the browser; this surface only serves and accepts its data.
type Handler struct {
	service *app.AssessmentService
	ws      *WSHandler
}

func NewHandler(service *app.AssessmentService) *Handler {
	return &Handler{service: service, ws: NewWSHandler(service)}
}

// Router builds the chi router with the full API surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	// Browser clients call this API directly.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", h.ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.handleCatalog)
		r.Get("/maturity-levels", h.handleMaturityLevels)
		r.Get("/stats", h.handleStats)

		r.Post("/sessions", h.handleStartSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/begin", h.handleBegin)
			r.Post("/evaluator", h.handleSetEvaluator)
			r.Post("/answers", h.handleRecordAnswer)
			r.Post("/random-fill", h.handleRandomFill)
			r.Get("/results", h.handleResults)
			r.Post("/submit", h.handleSubmit)
			r.Post("/view-stats", h.handleViewStats)
			r.Post("/view-maturity-report", h.handleViewMaturityReport)
			r.Post("/back", h.handleBack)
			r.Post("/reset", h.handleReset)
		})
	})
	return r
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Catalog(r.Context()))
}

func (h *Handler) handleMaturityLevels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.MaturityLevels())
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.GlobalStats(r.Context()))
}

type sessionResponse struct {
	SessionID string   `json:"sessionId"`
	Step      app.Step `json:"step"`
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session := h.service.StartSession()
	respondJSON(w, http.StatusCreated, sessionResponse{SessionID: session.ID(), Step: session.Step()})
}

func (h *Handler) handleBegin(w http.ResponseWriter, r *http.Request) {
	h.stepAction(w, r, h.service.Begin)
}

func (h *Handler) handleSetEvaluator(w http.ResponseWriter, r *http.Request) {
	var info domain.EvaluatorInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid evaluator payload")
		return
	}
	if err := h.service.SetEvaluator(r.Context(), chi.URLParam(r, "sessionID"), info); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondSession(w, r)
}

type answerRequest struct {
	DomainID string `json:"domainId"`
	Question string `json:"question"`
	Score    int    `json:"score"`
}

func (h *Handler) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid answer payload")
		return
	}
	progress, err := h.service.RecordAnswer(r.Context(), chi.URLParam(r, "sessionID"), req.DomainID, req.Question, req.Score)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (h *Handler) handleRandomFill(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.RandomFill(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

type resultsResponse struct {
	Results  []domain.Result      `json:"results"`
	Overall  float64              `json:"overall"`
	Maturity domain.MaturityLevel `json:"maturity"`
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	results, overall, maturity, err := h.service.Results(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resultsResponse{Results: results, Overall: overall, Maturity: maturity})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleViewStats(w http.ResponseWriter, r *http.Request) {
	h.stepAction(w, r, h.service.ViewStats)
}

func (h *Handler) handleViewMaturityReport(w http.ResponseWriter, r *http.Request) {
	h.stepAction(w, r, h.service.ViewMaturityReport)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	h.stepAction(w, r, h.service.Back)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondSession(w, r)
}

func (h *Handler) stepAction(w http.ResponseWriter, r *http.Request, fn func(string) error) {
	if err := fn(chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondSession(w, r)
}

func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.service.Session(chi.URLParam(r, "sessionID"))
	if !ok {
		respondServiceError(w, domain.ErrSessionNotFound)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{SessionID: session.ID(), Step: session.Step()})
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownDomain),
		errors.Is(err, domain.ErrUnknownQuestion):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSubmitInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrIncompleteAssessment),
		errors.Is(err, domain.ErrScoreOutOfRange),
		errors.Is(err, domain.ErrEvaluatorRequired),
		errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
