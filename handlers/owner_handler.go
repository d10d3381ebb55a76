package handlers

import (
	"net/http"
	"strconv"

	"github.com/ferreirogomes/fracoes/services"
)

// OwnerHandler lida com requisições HTTP relacionadas a usuários e suas carteiras.
type OwnerHandler struct {
	Owners    OwnerService
	Portfolio PortfolioService
}

// NewOwnerHandler cria uma nova instância do handler de usuários.
func NewOwnerHandler(owners OwnerService, portfolio PortfolioService) *OwnerHandler {
	return &OwnerHandler{Owners: owners, Portfolio: portfolio}
}

// CreateOwner cadastra um novo usuário.
// POST /owners
func (h *OwnerHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var req services.OwnerInput
	if !decodeBody(w, r, &req) {
		return
	}
	owner, err := h.Owners.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, owner)
}

// GetOwnerByID obtém um usuário pelo ID.
// GET /owners/{id}
func (h *OwnerHandler) GetOwnerByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	owner, err := h.Owners.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// DeleteOwner marca o usuário como removido.
// DELETE /owners/{id}
func (h *OwnerHandler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Owners.SoftDelete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type portfolioResponse struct {
	OwnerID  int64       `json:"owner_id"`
	Holdings interface{} `json:"holdings"`
	Total    string      `json:"total_estimated_value"`
}

// GetPortfolio devolve as posições do usuário com o valor estimado.
// GET /owners/{id}/portfolio
func (h *OwnerHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	holdings, err := h.Portfolio.Holdings(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolioResponse{
		OwnerID:  id,
		Holdings: holdings,
		Total:    services.Total(holdings).StringFixed(2),
	})
}

// GetTransactions devolve o extrato do usuário.
// GET /owners/{id}/transactions?asset_id=&limit=
func (h *OwnerHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	assetID, err := optionalInt(r, "asset_id")
	if err != nil {
		badRequest(w, "asset_id inválido")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			badRequest(w, "limit inválido")
			return
		}
	}

	txs, err := h.Portfolio.Transactions(r.Context(), id, assetID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
