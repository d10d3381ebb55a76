package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ferreirogomes/fracoes/handlers"
	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	owners     *MockOwnerService
	assets     *MockAssetService
	valuations *MockValuationService
	offers     *MockOfferService
	trading    *MockTradingService
	portfolio  *MockPortfolioService
	health     *MockHealthService
	router     http.Handler
}

func newEnv() *testEnv {
	env := &testEnv{
		owners:     new(MockOwnerService),
		assets:     new(MockAssetService),
		valuations: new(MockValuationService),
		offers:     new(MockOfferService),
		trading:    new(MockTradingService),
		portfolio:  new(MockPortfolioService),
		health:     new(MockHealthService),
	}
	env.router = handlers.NewRouter(handlers.Deps{
		Owners:     env.owners,
		Assets:     env.assets,
		Valuations: env.valuations,
		Offers:     env.offers,
		Trading:    env.trading,
		Portfolio:  env.portfolio,
		Health:     env.health,
	})
	return env
}

// withActor registra o dono que o middleware vai resolver a partir do cabeçalho.
func (e *testEnv) withActor(owner models.Owner) {
	e.owners.On("Get", mock.Anything, owner.ID).Return(owner, nil)
}

func (e *testEnv) do(method, path string, body interface{}, actorID int64) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID != 0 {
		req.Header.Set(handlers.ActorHeader, strconv.FormatInt(actorID, 10))
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

type errorResponse struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func decEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

var (
	alice   = models.Owner{ID: 1, Name: "Alice", Email: "alice@fracoes.test"}
	bob     = models.Owner{ID: 2, Name: "Bob", Email: "bob@fracoes.test"}
	manager = models.Owner{ID: 9, Name: "Gestora", Email: "gestora@fracoes.test", IsManager: true}
)

// TestCreateOwner testa o cadastro de um usuário
func TestCreateOwner(t *testing.T) {
	env := newEnv()
	in := services.OwnerInput{Name: "Alice", Email: "alice@fracoes.test"}
	env.owners.On("Create", mock.Anything, in).Return(alice, nil)

	rr := env.do(http.MethodPost, "/owners", in, 0)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got models.Owner
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, alice.ID, got.ID)
	env.owners.AssertExpectations(t)
}

func TestCreateOwnerRejectsUnknownFields(t *testing.T) {
	env := newEnv()
	rr := env.do(http.MethodPost, "/owners", map[string]string{"nome": "x"}, 0)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation", decodeError(t, rr).Error.Kind)
	env.owners.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDecodeErrorsHideGoTypes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"tipo errado", `{"name": 5, "email": "a@b.c"}`, "campo name com tipo inválido"},
		{"campo desconhecido", `{"nome": "x"}`, "campo desconhecido: nome"},
		{"json quebrado", `{"name": `, "corpo da requisição não é um JSON válido"},
		{"vazio", ``, "corpo da requisição vazio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv()
			req := httptest.NewRequest(http.MethodPost, "/owners", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			env.router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			msg := decodeError(t, rr).Error.Message
			assert.Equal(t, tt.want, msg)
			assert.NotContains(t, msg, "OwnerInput")
			assert.NotContains(t, msg, "Go struct")
		})
	}
}

func TestGetOwnerNotFound(t *testing.T) {
	env := newEnv()
	env.owners.On("Get", mock.Anything, int64(5)).
		Return(models.Owner{}, &services.Error{Kind: services.KindNotFound, Message: "usuário 5 não encontrado"})

	rr := env.do(http.MethodGet, "/owners/5", nil, 0)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "not_found", body.Error.Kind)
	assert.Equal(t, "usuário 5 não encontrado", body.Error.Message)
}

func TestInvalidID(t *testing.T) {
	env := newEnv()
	rr := env.do(http.MethodGet, "/offers/abc", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestActorRequired(t *testing.T) {
	env := newEnv()
	rr := env.do(http.MethodPost, "/offers", services.OfferInput{AssetID: 1, Units: 1}, 0)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", decodeError(t, rr).Error.Kind)
}

func TestUnknownActor(t *testing.T) {
	env := newEnv()
	env.owners.On("Get", mock.Anything, int64(77)).
		Return(models.Owner{}, &services.Error{Kind: services.KindNotFound, Message: "usuário 77 não encontrado"})

	rr := env.do(http.MethodGet, "/assets", nil, 77)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	req.Header.Set(handlers.ActorHeader, "x")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateOffer(t *testing.T) {
	env := newEnv()
	env.withActor(alice)
	created := models.Offer{ID: 10, AssetID: 3, UserID: alice.ID, Units: 5, PricePerUnit: decimal.RequireFromString("12.50"), IsValid: true}
	env.offers.On("Create", mock.Anything, models.ActorFor(alice), mock.MatchedBy(func(in services.OfferInput) bool {
		// sem user_id a oferta é do próprio ator
		return in.UserID == alice.ID && in.AssetID == 3 && in.Units == 5 && in.PricePerUnit.Equal(decimal.RequireFromString("12.50"))
	})).Return(created, nil)

	rr := env.do(http.MethodPost, "/offers", map[string]interface{}{
		"asset_id": 3, "units": 5, "price_perunit": "12.50",
	}, alice.ID)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got models.Offer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, int64(10), got.ID)
	assert.True(t, got.PricePerUnit.Equal(decimal.RequireFromString("12.50")))
	env.offers.AssertExpectations(t)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		kind   services.Kind
		status int
	}{
		{services.KindValidation, http.StatusBadRequest},
		{services.KindSelfTrade, http.StatusBadRequest},
		{services.KindForbidden, http.StatusForbidden},
		{services.KindNotFound, http.StatusNotFound},
		{services.KindOfferNotFound, http.StatusNotFound},
		{services.KindInactiveOffer, http.StatusConflict},
		{services.KindDuplicateOffer, http.StatusConflict},
		{services.KindInsufficientHoldings, http.StatusConflict},
		{services.KindInsufficientUnits, http.StatusConflict},
		{services.KindTradeExecutionFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			env := newEnv()
			env.withActor(bob)
			env.trading.On("ExecuteTrade", mock.Anything, models.ActorFor(bob), int64(4), bob.ID).
				Return(models.TradeResult{}, &services.Error{Kind: tt.kind, Message: "falhou", Cause: errors.New("detalhe interno")})

			rr := env.do(http.MethodPost, "/offers/4/trade", nil, bob.ID)

			assert.Equal(t, tt.status, rr.Code)
			body := decodeError(t, rr)
			assert.Equal(t, string(tt.kind), body.Error.Kind)
			assert.Equal(t, "falhou", body.Error.Message)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	env := newEnv()
	env.assets.On("List", mock.Anything).Return([]models.Asset(nil), errors.New("pq: relation \"assets\" does not exist"))

	rr := env.do(http.MethodGet, "/assets", nil, 0)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "internal", body.Error.Kind)
	assert.NotContains(t, body.Error.Message, "relation")
}

func TestExecuteTradeWithCounterparty(t *testing.T) {
	env := newEnv()
	env.withActor(manager)
	result := models.TradeResult{OfferID: 4, OfferType: "sell", BuyerID: bob.ID, SellerID: alice.ID, UnitsTraded: 100,
		PricePerUnit: decimal.RequireFromString("12.00"), TotalValue: decimal.RequireFromString("1200.00"), TransactionsCount: 1}
	env.trading.On("ExecuteTrade", mock.Anything, models.ActorFor(manager), int64(4), bob.ID).Return(result, nil)

	rr := env.do(http.MethodPost, "/offers/4/trade", map[string]int64{"counterparty_id": bob.ID}, manager.ID)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "1200.00", got["total_value"])
	assert.Equal(t, float64(1), got["transactions_count"])
	env.trading.AssertExpectations(t)
}

func TestListOffersFilters(t *testing.T) {
	env := newEnv()
	env.offers.On("List", mock.Anything, mock.MatchedBy(func(f services.OfferFilter) bool {
		return f.AssetID != nil && *f.AssetID == 3 &&
			f.IsBuyer != nil && !*f.IsBuyer &&
			f.ActiveOnly &&
			f.MinPrice != nil && f.MinPrice.Equal(decimal.RequireFromString("10.5")) &&
			f.MaxPrice == nil && f.UserID == nil
	})).Return([]models.Offer{{ID: 1}}, nil)

	rr := env.do(http.MethodGet, "/offers?asset_id=3&type=sell&min_price=10.5", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)
	env.offers.AssertExpectations(t)

	for _, q := range []string{"?type=both", "?min_price=abc", "?asset_id=x", "?active=talvez"} {
		rr = env.do(http.MethodGet, "/offers"+q, nil, 0)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestUpdateAndDeactivateOffer(t *testing.T) {
	env := newEnv()
	env.withActor(alice)
	env.offers.On("Update", mock.Anything, models.ActorFor(alice), int64(8), mock.MatchedBy(func(u services.OfferUpdate) bool {
		return u.Units == nil && u.PricePerUnit != nil && u.PricePerUnit.Equal(decimal.RequireFromString("9.90"))
	})).Return(models.Offer{ID: 8}, nil)
	env.offers.On("Deactivate", mock.Anything, models.ActorFor(alice), int64(8)).Return(false, nil)

	rr := env.do(http.MethodPatch, "/offers/8", map[string]string{"price_perunit": "9.90"}, alice.ID)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodDelete, "/offers/8", nil, alice.ID)
	assert.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, false, got["deactivated"])
	env.offers.AssertExpectations(t)
}

func TestCreateAsset(t *testing.T) {
	env := newEnv()
	env.withActor(manager)
	env.assets.On("Create", mock.Anything, models.ActorFor(manager), mock.MatchedBy(func(in services.AssetInput) bool {
		return in.Name == "Casa" && in.TotalUnit == 100 && in.InitialOwnership[alice.ID] == 40 &&
			in.InitialValue.Equal(decimal.RequireFromString("1000"))
	})).Return(services.MintedAsset{Asset: models.Asset{ID: 3, Name: "Casa"}}, nil)

	rr := env.do(http.MethodPost, "/assets", map[string]interface{}{
		"name": "Casa", "total_unit": 100, "unit_min": 1, "unit_max": 100,
		"initial_value": "1000", "initial_ownership": map[string]int64{"1": 40},
	}, manager.ID)

	assert.Equal(t, http.StatusCreated, rr.Code)
	env.assets.AssertExpectations(t)
}

func TestAssetValueAndHistory(t *testing.T) {
	env := newEnv()
	env.withActor(manager)
	env.valuations.On("Latest", mock.Anything, int64(3)).Return(models.Valuation{
		AssetID: 3, Value: decimal.RequireFromString("1000"), PerUnit: decimal.RequireFromString("3.3333"),
	}, nil)
	env.valuations.On("History", mock.Anything, int64(3), mock.AnythingOfType("*time.Time"), (*time.Time)(nil)).
		Return([]models.ValueRecord{}, nil)
	env.valuations.On("Adjust", mock.Anything, models.ActorFor(manager), int64(3), decEq("1100.00"), "reavaliação").
		Return(models.ValueRecord{ID: 2}, nil)

	rr := env.do(http.MethodGet, "/assets/3/value", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)
	var val map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&val))
	assert.Equal(t, "3.3333", val["value_perunit"])

	rr = env.do(http.MethodGet, "/assets/3/history?from=2024-01-01T00:00:00Z", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodGet, "/assets/3/history?from=ontem", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/assets/3/history", map[string]string{"value": "1100.00", "reason": "reavaliação"}, manager.ID)
	assert.Equal(t, http.StatusCreated, rr.Code)
	env.valuations.AssertExpectations(t)
}

func TestOrderBookRoute(t *testing.T) {
	env := newEnv()
	env.trading.On("OrderBook", mock.Anything, int64(3)).Return(models.OrderBook{
		AssetID: 3, Buy: []models.Offer{{ID: 1, IsBuyer: true}}, Sell: []models.Offer{},
	}, nil)

	rr := env.do(http.MethodGet, "/assets/3/offers", nil, 0)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Len(t, got["buy_offers"], 1)
	assert.Len(t, got["sell_offers"], 0)
}

func TestPortfolioRoutes(t *testing.T) {
	env := newEnv()
	env.portfolio.On("Holdings", mock.Anything, alice.ID).Return([]models.Holding{
		{AssetID: 3, Units: 10, EstimatedValue: decimal.RequireFromString("100.25")},
		{AssetID: 4, Units: 1, EstimatedValue: decimal.RequireFromString("0.75")},
	}, nil)
	assetID := int64(3)
	env.portfolio.On("Transactions", mock.Anything, alice.ID, &assetID, 5).Return([]models.Transaction{{ID: 1}}, nil)

	rr := env.do(http.MethodGet, "/owners/1/portfolio", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "101.00", got["total_estimated_value"])

	rr = env.do(http.MethodGet, "/owners/1/transactions?asset_id=3&limit=5", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodGet, "/owners/1/transactions?limit=muitos", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env.portfolio.AssertExpectations(t)
}

func TestDeleteOwner(t *testing.T) {
	env := newEnv()
	env.withActor(manager)
	env.owners.On("SoftDelete", mock.Anything, models.ActorFor(manager), bob.ID).Return(nil)

	rr := env.do(http.MethodDelete, "/owners/2", nil, manager.ID)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	env.owners.AssertExpectations(t)
}

func TestHealthRoutes(t *testing.T) {
	env := newEnv()
	env.health.On("Basic").Return(services.HealthReport{Status: services.HealthOK, Service: services.ServiceName})
	env.health.On("Database", mock.Anything).Return(services.HealthReport{
		Status:   services.HealthError,
		Database: &services.DatabaseHealth{Status: "disconnected", Error: "banco de dados não respondeu"},
	})
	env.health.On("Detailed", mock.Anything).Return(services.HealthReport{
		Status:   services.HealthOK,
		Database: &services.DatabaseHealth{Status: "connected", Driver: "sqlite"},
	})

	// sem cabeçalho de ator
	rr := env.do(http.MethodGet, "/health", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodGet, "/health/db", nil, 0)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "error", got["status"])

	rr = env.do(http.MethodGet, "/health/detailed", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)
	env.health.AssertExpectations(t)
	env.owners.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestPriceStatisticsRoute(t *testing.T) {
	env := newEnv()
	buy := models.PriceStats{Count: 1, Avg: decimal.RequireFromString("10"), Min: decimal.RequireFromString("10"), Max: decimal.RequireFromString("10")}
	sell := models.PriceStats{Count: 1, Avg: decimal.RequireFromString("12.5"), Min: decimal.RequireFromString("12.5"), Max: decimal.RequireFromString("12.5")}
	assetID := int64(3)
	env.offers.On("PriceStatistics", mock.Anything, &assetID, 7).Return(models.PriceStatistics{
		AssetID: &assetID, PeriodDays: 7, DataAvailable: true, Buy: buy, Sell: sell, Spread: models.NewSpread(buy, sell),
	}, nil)

	rr := env.do(http.MethodGet, "/offers/stats?asset_id=3&days=7", nil, 0)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		PeriodDays int `json:"period_days"`
		Buy        struct {
			Count int     `json:"count"`
			Avg   *string `json:"avg_price"`
		} `json:"buy_offers"`
		All struct {
			Avg *string `json:"avg_price"`
		} `json:"all_offers"`
		Spread map[string]string `json:"spread"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, 7, got.PeriodDays)
	assert.Equal(t, 1, got.Buy.Count)
	require.NotNil(t, got.Buy.Avg)
	assert.Equal(t, "10.00", *got.Buy.Avg)
	assert.Nil(t, got.All.Avg)
	assert.Equal(t, "2.50", got.Spread["value"])
	assert.Equal(t, "25.00", got.Spread["percentage"])

	rr = env.do(http.MethodGet, "/offers/stats?days=muitos", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env.offers.AssertExpectations(t)
}

func TestFractionHistoryRoute(t *testing.T) {
	env := newEnv()
	env.assets.On("FractionHistory", mock.Anything, int64(2)).Return(models.FractionHistory{
		Fraction:     models.Fraction{ID: 2, ParentFractionID: sql.NullInt64{Int64: 1, Valid: true}, Units: 5},
		Lineage:      []models.Fraction{{ID: 1, Units: 95}},
		Acquisitions: []models.Transaction{{ID: 1, FractionID: 2, UnitsMoved: 5}},
		Disposals:    []models.Transaction{},
	}, nil)
	env.assets.On("FractionHistory", mock.Anything, int64(9)).
		Return(models.FractionHistory{}, &services.Error{Kind: services.KindNotFound, Message: "fração 9 não encontrada"})

	rr := env.do(http.MethodGet, "/fractions/2/history", nil, 0)
	assert.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Fraction map[string]interface{}   `json:"fraction"`
		Lineage  []map[string]interface{} `json:"lineage"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, float64(1), got.Fraction["parent_fraction_id"])
	require.Len(t, got.Lineage, 1)
	assert.Nil(t, got.Lineage[0]["parent_fraction_id"])

	rr = env.do(http.MethodGet, "/fractions/9/history", nil, 0)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	env.assets.AssertExpectations(t)
}
