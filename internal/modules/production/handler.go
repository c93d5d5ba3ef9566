package production

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler exposes production readiness HTTP endpoints.
type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/production", func(r chi.Router) {
		r.Get("/stage-graph", h.stageGraph)                      // GET    /api/v1/production/stage-graph
		r.Get("/jobs/{id}/readiness", h.jobReadiness)            // GET    /api/v1/production/jobs/{id}/readiness
		r.Get("/jobs/{id}/available-stages", h.availableStages)  // GET    /api/v1/production/jobs/{id}/available-stages
		r.Post("/jobs/{id}/transition-check", h.checkTransition) // POST   /api/v1/production/jobs/{id}/transition-check
		r.Get("/orders/{order_id}/readiness", h.orderReadiness)  // GET    /api/v1/production/orders/{id}/readiness
		r.Get("/calendar", h.calendar)                           // GET    /api/v1/production/calendar?from=&to=
	})
}

func (h *Handler) stageGraph(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.StageGraph())
}

func (h *Handler) jobReadiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	strict := false
	if raw := r.URL.Query().Get("strict"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid strict flag: " + raw})
			return
		}
		strict = v
	}
	res, err := h.service.JobReadiness(r.Context(), id, strict)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) availableStages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stages, err := h.service.AvailableStages(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string][]Stage{"stages": stages})
}

func (h *Handler) checkTransition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	check, err := h.service.CheckTransition(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, check)
}

func (h *Handler) orderReadiness(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	jobs, err := h.service.OrderReadiness(r.Context(), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, jobs)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	q := CalendarQuery{From: r.URL.Query().Get("from"), To: r.URL.Query().Get("to")}
	if err := h.validate.Struct(&q); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	from, err := time.Parse(time.RFC3339, q.From)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid from format, use RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, q.To)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid to format, use RFC3339"})
		return
	}
	events, err := h.service.CalendarEvents(r.Context(), from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, events)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrJobNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		code = http.StatusBadRequest
	case errors.Is(err, ErrUnknownMethod), errors.Is(err, ErrUnknownStage):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
