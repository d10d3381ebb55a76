package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferreirogomes/fracoes/models"
)

const assetColumns = `id, name, description, total_unit, unit_min, unit_max, created_at`

// SaveAsset insere um novo ativo e preenche ID e CreatedAt. Ativos não são atualizados depois.
func (q *Queries) SaveAsset(ctx context.Context, asset *models.Asset) error {
	asset.CreatedAt = now()
	err := q.get(ctx, &asset.ID,
		`INSERT INTO assets (name, description, total_unit, unit_min, unit_max, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		asset.Name, asset.Description, asset.TotalUnit, asset.UnitMin, asset.UnitMax, asset.CreatedAt)
	return classify("falha ao salvar ativo", err)
}

// GetAsset busca um ativo pelo ID.
func (q *Queries) GetAsset(ctx context.Context, id int64) (models.Asset, bool, error) {
	var asset models.Asset
	err := q.get(ctx, &asset, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, false, nil
	}
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("falha ao buscar ativo %d: %w", id, err)
	}
	return asset, true, nil
}

// ListAssets devolve todos os ativos por ordem de criação.
func (q *Queries) ListAssets(ctx context.Context) ([]models.Asset, error) {
	assets := []models.Asset{}
	if err := q.selectAll(ctx, &assets, `SELECT `+assetColumns+` FROM assets ORDER BY id`); err != nil {
		return nil, fmt.Errorf("falha ao listar ativos: %w", err)
	}
	return assets, nil
}
