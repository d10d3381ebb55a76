package handlers

import (
	"net/http"
	"strconv"

	"github.com/ferreirogomes/fracoes/services"
	"github.com/shopspring/decimal"
)

// OfferHandler lida com requisições HTTP de ofertas e com a execução de negociações.
type OfferHandler struct {
	Offers  OfferService
	Trading TradingService
}

// NewOfferHandler cria uma nova instância do handler de ofertas.
func NewOfferHandler(offers OfferService, trading TradingService) *OfferHandler {
	return &OfferHandler{Offers: offers, Trading: trading}
}

// CreateOffer cria uma oferta de compra ou venda.
// POST /offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req services.OfferInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		req.UserID = actor.UserID
	}

	offer, err := h.Offers.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

// GetOfferByID obtém uma oferta pelo ID.
// GET /offers/{id}
func (h *OfferHandler) GetOfferByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	offer, err := h.Offers.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// ListOffers lista ofertas com filtros.
// GET /offers?asset_id=&user_id=&type=buy|sell&active=&min_price=&max_price=&min_units=&max_units=
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	f, err := parseOfferFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	offers, err := h.Offers.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// UpdateOffer altera quantidade e/ou preço.
// PATCH /offers/{id}
func (h *OfferHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req services.OfferUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	offer, err := h.Offers.Update(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// DeactivateOffer cancela a oferta.
// DELETE /offers/{id}
func (h *OfferHandler) DeactivateOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	changed, err := h.Offers.Deactivate(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"offer_id": id, "deactivated": changed})
}

// ExecuteTrade aceita a oferta. Sem counterparty_id, a contraparte é o próprio ator.
// POST /offers/{id}/trade
func (h *OfferHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		CounterpartyID int64 `json:"counterparty_id"`
	}
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	if req.CounterpartyID == 0 {
		req.CounterpartyID = actor.UserID
	}

	result, err := h.Trading.ExecuteTrade(r.Context(), actor, id, req.CounterpartyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type filterError string

func (e filterError) Error() string { return string(e) + " inválido" }

func parseOfferFilter(r *http.Request) (services.OfferFilter, error) {
	q := r.URL.Query()
	f := services.OfferFilter{ActiveOnly: true}

	var err error
	if f.AssetID, err = optionalInt(r, "asset_id"); err != nil {
		return f, filterError("asset_id")
	}
	if f.UserID, err = optionalInt(r, "user_id"); err != nil {
		return f, filterError("user_id")
	}
	if f.MinUnits, err = optionalInt(r, "min_units"); err != nil {
		return f, filterError("min_units")
	}
	if f.MaxUnits, err = optionalInt(r, "max_units"); err != nil {
		return f, filterError("max_units")
	}

	switch q.Get("type") {
	case "":
	case "buy":
		isBuyer := true
		f.IsBuyer = &isBuyer
	case "sell":
		isBuyer := false
		f.IsBuyer = &isBuyer
	default:
		return f, filterError("type")
	}

	if v := q.Get("active"); v != "" {
		if f.ActiveOnly, err = strconv.ParseBool(v); err != nil {
			return f, filterError("active")
		}
	}

	for name, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, filterError(name)
		}
		*dst = &d
	}
	return f, nil
}

// GetPriceStatistics resume os preços das ofertas válidas recentes.
// GET /offers/stats?asset_id=&days=
func (h *OfferHandler) GetPriceStatistics(w http.ResponseWriter, r *http.Request) {
	assetID, err := optionalInt(r, "asset_id")
	if err != nil {
		badRequest(w, "asset_id inválido")
		return
	}
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		if days, err = strconv.Atoi(v); err != nil {
			badRequest(w, "days inválido")
			return
		}
	}

	stats, err := h.Offers.PriceStatistics(r.Context(), assetID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
