package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/discovery"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/middleware"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/monitor"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

type Handler struct {
	discovery *discovery.Service
	monitor   *monitor.Service
}

func NewHandler(discoveryService *discovery.Service, monitorService *monitor.Service) *Handler {
	return &Handler{discovery: discoveryService, monitor: monitorService}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, discovery.ErrOpportunityGone),
		errors.Is(err, discovery.ErrCampaignGone),
		errors.Is(err, monitor.ErrAcquiredGone),
		errors.Is(err, monitor.ErrOpportunityGone):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, discovery.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, discovery.ErrNoKeywords),
		errors.Is(err, discovery.ErrInvalidType),
		errors.Is(err, discovery.ErrInvalidStatus),
		errors.Is(err, discovery.ErrInvalidBand),
		errors.Is(err, monitor.ErrDomainRequired),
		errors.Is(err, monitor.ErrSourceURLMissing):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func websiteIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "websiteID"))
	if err != nil {
		http.Error(w, "invalid website id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	var req discovery.DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	opps, err := h.discovery.DiscoverOpportunities(r.Context(), websiteID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opps)
}

func (h *Handler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	var status *storage.OpportunityStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := storage.OpportunityStatus(raw)
		status = &s
	}

	opps, err := h.discovery.ListOpportunities(r.Context(), websiteID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opps)
}

type updateStatusRequest struct {
	Status storage.OpportunityStatus `json:"status"`
	Notes  *string                   `json:"notes,omitempty"`
}

func (h *Handler) UpdateOpportunityStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "opportunityID"))
	if err != nil {
		http.Error(w, "invalid opportunity id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	opp, err := h.discovery.UpdateOpportunityStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	var req discovery.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	campaign, err := h.discovery.CreateCampaign(r.Context(), websiteID, &req)
	if err != nil {
		if errors.Is(err, discovery.ErrInvalidType) {
			writeError(w, err)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	campaigns, err := h.discovery.ListCampaigns(r.Context(), websiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

type runCheckRequest struct {
	Domain string `json:"domain"`
}

func (h *Handler) RunBacklinkCheck(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	var req runCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.monitor.RunBacklinkCheck(r.Context(), websiteID, req.Domain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	summary, err := h.monitor.GetMetrics(r.Context(), websiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
		days = n
	}

	series, err := h.monitor.GetHistory(r.Context(), websiteID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	summary, err := h.monitor.GetHealth(r.Context(), websiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) RecordAcquired(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	var req monitor.RecordAcquiredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	acquired, err := h.monitor.RecordAcquired(r.Context(), websiteID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acquired)
}

func (h *Handler) ListAcquired(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := websiteIDParam(w, r)
	if !ok {
		return
	}

	acquired, err := h.monitor.ListAcquired(r.Context(), websiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acquired)
}

func (h *Handler) VerifyAcquired(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "acquiredID"))
	if err != nil {
		http.Error(w, "invalid acquired backlink id", http.StatusBadRequest)
		return
	}

	result, err := h.monitor.VerifyAcquired(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func SetupRoutes(r *chi.Mux, handler *Handler, oauthMiddleware *middleware.OAuthMiddleware) {
	r.Use(middleware.CorrelationID)
	r.Get("/health", handler.HealthCheck)
	r.Route("/v1", func(r chi.Router) {
		read := func(r chi.Router) chi.Router { return r }
		write := func(r chi.Router) chi.Router { return r }
		if oauthMiddleware != nil {
			read = func(r chi.Router) chi.Router { return r.With(oauthMiddleware.Authenticate("backlinks:read")) }
			write = func(r chi.Router) chi.Router { return r.With(oauthMiddleware.Authenticate("backlinks:write")) }
		}

		write(r).Post("/websites/{websiteID}/discover", handler.Discover)
		read(r).Get("/websites/{websiteID}/opportunities", handler.ListOpportunities)
		write(r).Patch("/opportunities/{opportunityID}/status", handler.UpdateOpportunityStatus)
		write(r).Post("/websites/{websiteID}/campaigns", handler.CreateCampaign)
		read(r).Get("/websites/{websiteID}/campaigns", handler.ListCampaigns)
		write(r).Post("/websites/{websiteID}/checks", handler.RunBacklinkCheck)
		read(r).Get("/websites/{websiteID}/metrics", handler.GetMetrics)
		read(r).Get("/websites/{websiteID}/history", handler.GetHistory)
		read(r).Get("/websites/{websiteID}/health", handler.GetHealth)
		write(r).Post("/websites/{websiteID}/acquired", handler.RecordAcquired)
		read(r).Get("/websites/{websiteID}/acquired", handler.ListAcquired)
		write(r).Post("/acquired/{acquiredID}/verify", handler.VerifyAcquired)
	})
}
