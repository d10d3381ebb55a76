package handlers

import (
	"context"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/services"
	"github.com/shopspring/decimal"
)

// As interfaces abaixo descrevem o que os handlers usam de cada serviço; os serviços
// concretos de services as satisfazem e os testes usam mocks.

type OwnerService interface {
	Create(ctx context.Context, in services.OwnerInput) (models.Owner, error)
	Get(ctx context.Context, id int64) (models.Owner, error)
	SoftDelete(ctx context.Context, actor models.Actor, id int64) error
}

type AssetService interface {
	Create(ctx context.Context, actor models.Actor, in services.AssetInput) (services.MintedAsset, error)
	Get(ctx context.Context, id int64) (models.Asset, error)
	List(ctx context.Context) ([]models.Asset, error)
	Fractions(ctx context.Context, id int64) ([]models.Fraction, error)
	FractionHistory(ctx context.Context, fractionID int64) (models.FractionHistory, error)
}

type ValuationService interface {
	Latest(ctx context.Context, assetID int64) (models.Valuation, error)
	History(ctx context.Context, assetID int64, from, to *time.Time) ([]models.ValueRecord, error)
	Adjust(ctx context.Context, actor models.Actor, assetID int64, value decimal.Decimal, reason string) (models.ValueRecord, error)
}

type OfferService interface {
	Create(ctx context.Context, actor models.Actor, in services.OfferInput) (models.Offer, error)
	Get(ctx context.Context, offerID int64) (models.Offer, error)
	Update(ctx context.Context, actor models.Actor, offerID int64, upd services.OfferUpdate) (models.Offer, error)
	Deactivate(ctx context.Context, actor models.Actor, offerID int64) (bool, error)
	List(ctx context.Context, f services.OfferFilter) ([]models.Offer, error)
	PriceStatistics(ctx context.Context, assetID *int64, days int) (models.PriceStatistics, error)
}

type TradingService interface {
	ExecuteTrade(ctx context.Context, actor models.Actor, offerID, counterpartyID int64) (models.TradeResult, error)
	OrderBook(ctx context.Context, assetID int64) (models.OrderBook, error)
}

type PortfolioService interface {
	Holdings(ctx context.Context, ownerID int64) ([]models.Holding, error)
	Transactions(ctx context.Context, ownerID int64, assetID *int64, limit int) ([]models.Transaction, error)
}

type HealthService interface {
	Basic() services.HealthReport
	Database(ctx context.Context) services.HealthReport
	Detailed(ctx context.Context) services.HealthReport
}
