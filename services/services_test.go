package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/services"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/ferreirogomes/fracoes/storage/storagetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture monta todos os serviços sobre um banco SQLite descartável.
type fixture struct {
	db         *storage.DB
	owners     *services.OwnerService
	assets     *services.AssetService
	valuations *services.ValuationService
	offers     *services.OfferService
	trading    *services.TradingService
	portfolio  *services.PortfolioService
	feed       *recordingFeed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.New(t)
	assets, err := services.NewAssetService(db, 16)
	require.NoError(t, err)
	valuations := services.NewValuationService(db, assets)
	feed := &recordingFeed{}
	return &fixture{
		db:         db,
		owners:     services.NewOwnerService(db),
		assets:     assets,
		valuations: valuations,
		offers:     services.NewOfferService(db),
		trading:    services.NewTradingService(db, feed),
		portfolio:  services.NewPortfolioService(db, assets, valuations),
		feed:       feed,
	}
}

// recordingFeed guarda as liquidações publicadas.
type recordingFeed struct {
	mu      sync.Mutex
	results []models.TradeResult
}

func (f *recordingFeed) Publish(r models.TradeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
}

func (f *recordingFeed) published() []models.TradeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TradeResult(nil), f.results...)
}

func actor(o models.Owner) models.Actor {
	return models.ActorFor(o)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (fx *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, fx.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (fx *fixture) sellOffer(t *testing.T, seller models.Owner, assetID, units int64, price string) models.Offer {
	t.Helper()
	offer, err := fx.offers.Create(context.Background(), actor(seller), services.OfferInput{
		AssetID: assetID, UserID: seller.ID, Units: units, PricePerUnit: dec(price),
	})
	require.NoError(t, err)
	return offer
}

func (fx *fixture) buyOffer(t *testing.T, buyer models.Owner, assetID, units int64, price string) models.Offer {
	t.Helper()
	offer, err := fx.offers.Create(context.Background(), actor(buyer), services.OfferInput{
		AssetID: assetID, UserID: buyer.ID, IsBuyer: true, Units: units, PricePerUnit: dec(price),
	})
	require.NoError(t, err)
	return offer
}
