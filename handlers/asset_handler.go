package handlers

import (
	"net/http"
	"time"

	"github.com/ferreirogomes/fracoes/services"
	"github.com/shopspring/decimal"
)

// AssetHandler lida com requisições HTTP relacionadas a ativos e ao valor deles.
type AssetHandler struct {
	Assets     AssetService
	Valuations ValuationService
	Trading    TradingService
}

// NewAssetHandler cria uma nova instância do handler de ativos.
func NewAssetHandler(assets AssetService, valuations ValuationService, trading TradingService) *AssetHandler {
	return &AssetHandler{Assets: assets, Valuations: valuations, Trading: trading}
}

// CreateAsset cria um novo ativo e distribui as frações iniciais.
// POST /assets
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req services.AssetInput
	if !decodeBody(w, r, &req) {
		return
	}

	minted, err := h.Assets.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, minted)
}

// ListAssets lista todos os ativos.
// GET /assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// GetAssetByID obtém um ativo pelo ID.
// GET /assets/{id}
func (h *AssetHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	asset, err := h.Assets.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// GetFractions lista as frações do ativo.
// GET /assets/{id}/fractions
func (h *AssetHandler) GetFractions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	fractions, err := h.Assets.Fractions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fractions)
}

// GetFractionHistory devolve a procedência de uma fração e as transações ligadas a ela.
// GET /fractions/{id}/history
func (h *AssetHandler) GetFractionHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	history, err := h.Assets.FractionHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// GetValue devolve o valor atual do ativo.
// GET /assets/{id}/value
func (h *AssetHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	val, err := h.Valuations.Latest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, val)
}

// GetHistory devolve o histórico de valor.
// GET /assets/{id}/history?from=&to= (RFC 3339)
func (h *AssetHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	from, err := optionalTime(r, "from")
	if err != nil {
		badRequest(w, "from inválido")
		return
	}
	to, err := optionalTime(r, "to")
	if err != nil {
		badRequest(w, "to inválido")
		return
	}

	history, err := h.Valuations.History(r.Context(), id, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// AdjustValue registra uma reavaliação manual.
// POST /assets/{id}/history
func (h *AssetHandler) AdjustValue(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Value  decimal.Decimal `json:"value"`
		Reason string          `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.Valuations.Adjust(r.Context(), actor, id, req.Value, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GetOrderBook devolve as ofertas ativas do ativo.
// GET /assets/{id}/offers
func (h *AssetHandler) GetOrderBook(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	book, err := h.Trading.OrderBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func optionalTime(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
