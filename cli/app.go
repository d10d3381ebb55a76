package cli

import (
	"fmt"
	"net/http"

	"github.com/ferreirogomes/fracoes/config"
	"github.com/ferreirogomes/fracoes/feed"
	"github.com/ferreirogomes/fracoes/handlers"
	"github.com/ferreirogomes/fracoes/services"
	"github.com/ferreirogomes/fracoes/storage"
)

// app reúne o banco e os serviços montados a partir da configuração.
type app struct {
	db         *storage.DB
	feed       *feed.TradeFeed
	owners     *services.OwnerService
	assets     *services.AssetService
	valuations *services.ValuationService
	offers     *services.OfferService
	trading    *services.TradingService
	portfolio  *services.PortfolioService
	health     *services.HealthService
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := storage.NewDB(cfg.Database.StorageOptions())
	if err != nil {
		return nil, err
	}

	assets, err := services.NewAssetService(db, cfg.Market.AssetCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao inicializar serviço de ativos: %w", err)
	}
	tradeFeed := feed.NewTradeFeed(cfg.Feed.Buffer)
	valuations := services.NewValuationService(db, assets)

	return &app{
		db:         db,
		feed:       tradeFeed,
		owners:     services.NewOwnerService(db),
		assets:     assets,
		valuations: valuations,
		offers:     services.NewOfferService(db),
		trading:    services.NewTradingService(db, tradeFeed),
		portfolio:  services.NewPortfolioService(db, assets, valuations),
		health:     services.NewHealthService(db, version),
	}, nil
}

func (a *app) router() http.Handler {
	return handlers.NewRouter(handlers.Deps{
		Owners:     a.owners,
		Assets:     a.assets,
		Valuations: a.valuations,
		Offers:     a.offers,
		Trading:    a.trading,
		Portfolio:  a.portfolio,
		Health:     a.health,
		TradeFeed:  a.feed,
	})
}

func (a *app) Close() error {
	a.feed.Close()
	return a.db.Close()
}
