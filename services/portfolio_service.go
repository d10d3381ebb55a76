package services

import (
	"context"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTransactionsLimit = 50
	maxTransactionsLimit     = 500
	// valuationWorkers limita as consultas de valor em paralelo por carteira
	valuationWorkers = 4
)

// PortfolioService monta a carteira e o extrato de um usuário.
type PortfolioService struct {
	DB         *storage.DB
	Assets     *AssetService
	Valuations *ValuationService
}

func NewPortfolioService(db *storage.DB, assets *AssetService, valuations *ValuationService) *PortfolioService {
	return &PortfolioService{DB: db, Assets: assets, Valuations: valuations}
}

// Holdings devolve, por ativo, as unidades ativas do usuário e o valor estimado
// (unidades × valor por unidade mais recente).
func (s *PortfolioService) Holdings(ctx context.Context, ownerID int64) ([]models.Holding, error) {
	q := s.DB.Queries()
	if _, err := requireOwner(ctx, q, ownerID); err != nil {
		return nil, err
	}
	units, err := q.UnitsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(valuationWorkers)
	for i, u := range units {
		g.Go(func() error {
			asset, err := s.Assets.Get(gctx, u.AssetID)
			if err != nil {
				return err
			}
			val, err := s.Valuations.Latest(gctx, u.AssetID)
			if err != nil {
				return err
			}
			holdings[i] = models.Holding{
				AssetID:        u.AssetID,
				AssetName:      asset.Name,
				Units:          u.Units,
				PerUnit:        val.PerUnit,
				EstimatedValue: val.PerUnit.Mul(decimal.NewFromInt(u.Units)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return holdings, nil
}

// Total soma o valor estimado das posições.
func Total(holdings []models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.EstimatedValue)
	}
	return total
}

// Transactions devolve as movimentações em que o usuário enviou ou recebeu unidades, das mais
// recentes para as mais antigas. assetID é opcional; limit <= 0 usa o padrão.
func (s *PortfolioService) Transactions(ctx context.Context, ownerID int64, assetID *int64, limit int) ([]models.Transaction, error) {
	q := s.DB.Queries()
	if _, err := requireOwner(ctx, q, ownerID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = defaultTransactionsLimit
	case limit > maxTransactionsLimit:
		limit = maxTransactionsLimit
	}
	return q.TransactionsByOwner(ctx, ownerID, assetID, limit)
}
