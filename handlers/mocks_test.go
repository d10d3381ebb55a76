package handlers_test

import (
	"context"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOwnerService é uma implementação mock de handlers.OwnerService
type MockOwnerService struct {
	mock.Mock
}

func (m *MockOwnerService) Create(ctx context.Context, in services.OwnerInput) (models.Owner, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Owner), args.Error(1)
}

func (m *MockOwnerService) Get(ctx context.Context, id int64) (models.Owner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Owner), args.Error(1)
}

func (m *MockOwnerService) SoftDelete(ctx context.Context, actor models.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) Create(ctx context.Context, actor models.Actor, in services.AssetInput) (services.MintedAsset, error) {
	args := m.Called(ctx, actor, in)
	return args.Get(0).(services.MintedAsset), args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, id int64) (models.Asset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Asset), args.Error(1)
}

func (m *MockAssetService) List(ctx context.Context) ([]models.Asset, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetService) Fractions(ctx context.Context, id int64) ([]models.Fraction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]models.Fraction), args.Error(1)
}

func (m *MockAssetService) FractionHistory(ctx context.Context, fractionID int64) (models.FractionHistory, error) {
	args := m.Called(ctx, fractionID)
	return args.Get(0).(models.FractionHistory), args.Error(1)
}

type MockValuationService struct {
	mock.Mock
}

func (m *MockValuationService) Latest(ctx context.Context, assetID int64) (models.Valuation, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(models.Valuation), args.Error(1)
}

func (m *MockValuationService) History(ctx context.Context, assetID int64, from, to *time.Time) ([]models.ValueRecord, error) {
	args := m.Called(ctx, assetID, from, to)
	return args.Get(0).([]models.ValueRecord), args.Error(1)
}

func (m *MockValuationService) Adjust(ctx context.Context, actor models.Actor, assetID int64, value decimal.Decimal, reason string) (models.ValueRecord, error) {
	args := m.Called(ctx, actor, assetID, value, reason)
	return args.Get(0).(models.ValueRecord), args.Error(1)
}

type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Create(ctx context.Context, actor models.Actor, in services.OfferInput) (models.Offer, error) {
	args := m.Called(ctx, actor, in)
	return args.Get(0).(models.Offer), args.Error(1)
}

func (m *MockOfferService) Get(ctx context.Context, offerID int64) (models.Offer, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(models.Offer), args.Error(1)
}

func (m *MockOfferService) Update(ctx context.Context, actor models.Actor, offerID int64, upd services.OfferUpdate) (models.Offer, error) {
	args := m.Called(ctx, actor, offerID, upd)
	return args.Get(0).(models.Offer), args.Error(1)
}

func (m *MockOfferService) Deactivate(ctx context.Context, actor models.Actor, offerID int64) (bool, error) {
	args := m.Called(ctx, actor, offerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOfferService) List(ctx context.Context, f services.OfferFilter) ([]models.Offer, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockOfferService) PriceStatistics(ctx context.Context, assetID *int64, days int) (models.PriceStatistics, error) {
	args := m.Called(ctx, assetID, days)
	return args.Get(0).(models.PriceStatistics), args.Error(1)
}

type MockTradingService struct {
	mock.Mock
}

func (m *MockTradingService) ExecuteTrade(ctx context.Context, actor models.Actor, offerID, counterpartyID int64) (models.TradeResult, error) {
	args := m.Called(ctx, actor, offerID, counterpartyID)
	return args.Get(0).(models.TradeResult), args.Error(1)
}

func (m *MockTradingService) OrderBook(ctx context.Context, assetID int64) (models.OrderBook, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(models.OrderBook), args.Error(1)
}

type MockPortfolioService struct {
	mock.Mock
}

func (m *MockPortfolioService) Holdings(ctx context.Context, ownerID int64) ([]models.Holding, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Holding), args.Error(1)
}

func (m *MockPortfolioService) Transactions(ctx context.Context, ownerID int64, assetID *int64, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, ownerID, assetID, limit)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Basic() services.HealthReport {
	return m.Called().Get(0).(services.HealthReport)
}

func (m *MockHealthService) Database(ctx context.Context) services.HealthReport {
	return m.Called(ctx).Get(0).(services.HealthReport)
}

func (m *MockHealthService) Detailed(ctx context.Context) services.HealthReport {
	return m.Called(ctx).Get(0).(services.HealthReport)
}
