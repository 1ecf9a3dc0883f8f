package handlers

import (
	"net/http"

	"github.com/ferreirogomes/propfolio/services"
)

// DashboardHandler expõe as métricas do painel administrativo.
type DashboardHandler struct {
	Service *services.DashboardService
}

// NewDashboardHandler cria uma nova instância do handler do dashboard.
func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// Metrics retorna total, preço médio e imóveis recentes, com filtros opcionais
// type, start_date e end_date (YYYY-MM-DD).
// GET /api/admin/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	f, err := services.ParseMetricsFilter(q.Get("type"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		return err
	}

	metrics, err := h.Service.Metrics(r.Context(), f)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, metrics)
	return nil
}

// TypeDistribution retorna a contagem de imóveis por tipo.
// GET /api/admin/dashboard/distribution/type
func (h *DashboardHandler) TypeDistribution(w http.ResponseWriter, r *http.Request) error {
	dist, err := h.Service.TypeDistribution(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, dist)
	return nil
}
