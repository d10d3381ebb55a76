package handlers

import (
	"net/http"

	"github.com/ferreirogomes/fracoes/services"
)

// HealthHandler expõe as verificações de saúde, fora do controle de ator.
type HealthHandler struct {
	Health HealthService
}

// NewHealthHandler cria uma nova instância do handler de saúde.
func NewHealthHandler(health HealthService) *HealthHandler {
	return &HealthHandler{Health: health}
}

// Basic responde 200 enquanto o processo estiver de pé.
// GET /health
func (h *HealthHandler) Basic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Health.Basic())
}

// Database responde 503 se o banco não responder ao ping.
// GET /health/db
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.Health.Database(r.Context()))
}

// Detailed inclui pool de conexões e tempo no ar; 503 se o banco estiver fora.
// GET /health/detailed
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.Health.Detailed(r.Context()))
}

func writeHealth(w http.ResponseWriter, report services.HealthReport) {
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
