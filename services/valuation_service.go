package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/shopspring/decimal"
)

// ValuationService consulta e ajusta o histórico de valor dos ativos.
type ValuationService struct {
	DB     *storage.DB
	Assets *AssetService
}

// NewValuationService cria uma nova instância do serviço de avaliação.
func NewValuationService(db *storage.DB, assets *AssetService) *ValuationService {
	return &ValuationService{DB: db, Assets: assets}
}

// Latest devolve o valor mais recente do ativo e o valor por unidade. Um ativo sem histórico
// vale zero.
func (s *ValuationService) Latest(ctx context.Context, assetID int64) (models.Valuation, error) {
	asset, err := s.Assets.Get(ctx, assetID)
	if err != nil {
		return models.Valuation{}, err
	}

	rec, found, err := s.DB.Queries().LatestValue(ctx, assetID)
	if err != nil {
		return models.Valuation{}, err
	}
	if !found {
		return models.Valuation{AssetID: assetID, Value: decimal.Zero, PerUnit: decimal.Zero}, nil
	}
	return valuationOf(asset, rec), nil
}

func valuationOf(asset models.Asset, rec models.ValueRecord) models.Valuation {
	recordedAt := rec.RecordedAt
	return models.Valuation{
		AssetID:    asset.ID,
		Value:      rec.Value,
		PerUnit:    rec.Value.DivRound(decimal.NewFromInt(asset.TotalUnit), models.PerUnitPlaces),
		RecordedAt: &recordedAt,
	}
}

// History devolve o histórico de valor do ativo em ordem cronológica. from e to são opcionais.
func (s *ValuationService) History(ctx context.Context, assetID int64, from, to *time.Time) ([]models.ValueRecord, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, validationError("intervalo inválido: to é anterior a from")
	}
	if _, err := s.Assets.Get(ctx, assetID); err != nil {
		return nil, err
	}
	return s.DB.Queries().ValueHistory(ctx, assetID, from, to)
}

// Adjust registra uma reavaliação manual do ativo. Apenas gestores.
func (s *ValuationService) Adjust(ctx context.Context, actor models.Actor, assetID int64, value decimal.Decimal, reason string) (models.ValueRecord, error) {
	if !actor.IsManager {
		return models.ValueRecord{}, newError(KindForbidden, "apenas gestores podem ajustar o valor de um ativo")
	}
	if err := validateMoney("value", value); err != nil {
		return models.ValueRecord{}, err
	}
	if _, err := s.Assets.Get(ctx, assetID); err != nil {
		return models.ValueRecord{}, err
	}

	rec := models.ValueRecord{
		AssetID:    assetID,
		Value:      value,
		Source:     models.ValueSourceManual,
		AdjustedBy: sql.NullInt64{Int64: actor.UserID, Valid: true},
		Reason:     reason,
	}
	if err := s.DB.Queries().SaveValueRecord(ctx, &rec); err != nil {
		return models.ValueRecord{}, err
	}
	log.Printf("Valor do ativo %d ajustado para %s por usuário %d", assetID, value.StringFixed(2), actor.UserID)
	return rec, nil
}
