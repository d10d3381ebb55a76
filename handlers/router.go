package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps reúne os serviços usados pelas rotas. Health e TradeFeed são opcionais.
type Deps struct {
	Owners     OwnerService
	Assets     AssetService
	Valuations ValuationService
	Offers     OfferService
	Trading    TradingService
	Portfolio  PortfolioService
	Health     HealthService
	TradeFeed  http.Handler
}

// NewRouter monta as rotas da API.
func NewRouter(d Deps) http.Handler {
	ownerHandler := NewOwnerHandler(d.Owners, d.Portfolio)
	assetHandler := NewAssetHandler(d.Assets, d.Valuations, d.Trading)
	offerHandler := NewOfferHandler(d.Offers, d.Trading)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if d.Health != nil {
		healthHandler := NewHealthHandler(d.Health)
		r.Get("/health", healthHandler.Basic)
		r.Get("/health/db", healthHandler.Database)
		r.Get("/health/detailed", healthHandler.Detailed)
	}
	if d.TradeFeed != nil {
		r.Handle("/ws/trades", d.TradeFeed)
	}

	r.Group(func(r chi.Router) {
		r.Use(ActorMiddleware(d.Owners))

		r.Route("/owners", func(r chi.Router) {
			r.Post("/", ownerHandler.CreateOwner)
			r.Get("/{id}", ownerHandler.GetOwnerByID)
			r.Delete("/{id}", ownerHandler.DeleteOwner)
			r.Get("/{id}/portfolio", ownerHandler.GetPortfolio)
			r.Get("/{id}/transactions", ownerHandler.GetTransactions)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Post("/", assetHandler.CreateAsset)
			r.Get("/", assetHandler.ListAssets)
			r.Get("/{id}", assetHandler.GetAssetByID)
			r.Get("/{id}/fractions", assetHandler.GetFractions)
			r.Get("/{id}/value", assetHandler.GetValue)
			r.Get("/{id}/history", assetHandler.GetHistory)
			r.Post("/{id}/history", assetHandler.AdjustValue)
			r.Get("/{id}/offers", assetHandler.GetOrderBook)
		})

		r.Get("/fractions/{id}/history", assetHandler.GetFractionHistory)

		r.Route("/offers", func(r chi.Router) {
			r.Post("/", offerHandler.CreateOffer)
			r.Get("/", offerHandler.ListOffers)
			r.Get("/stats", offerHandler.GetPriceStatistics)
			r.Get("/{id}", offerHandler.GetOfferByID)
			r.Patch("/{id}", offerHandler.UpdateOffer)
			r.Delete("/{id}", offerHandler.DeactivateOffer)
			r.Post("/{id}/trade", offerHandler.ExecuteTrade)
		})
	})

	return r
}
