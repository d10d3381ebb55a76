package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferreirogomes/fracoes/models"
)

const fractionColumns = `id, asset_id, owner_id, parent_fraction_id, units, is_active, created_at, value_perunit`

// SaveFraction insere uma fração nova (ativa). CreatedAt é preenchido se vier zerado.
func (q *Queries) SaveFraction(ctx context.Context, f *models.Fraction) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now()
	}
	f.IsActive = true
	err := q.get(ctx, &f.ID,
		`INSERT INTO fractions (asset_id, owner_id, parent_fraction_id, units, is_active, created_at, value_perunit)
		 VALUES (?, ?, ?, ?, TRUE, ?, ?) RETURNING id`,
		f.AssetID, f.OwnerID, f.ParentFractionID, f.Units, f.CreatedAt, f.ValuePerUnit)
	return classify("falha ao salvar fração", err)
}

// GetFraction busca uma fração pelo ID.
func (q *Queries) GetFraction(ctx context.Context, id int64) (models.Fraction, bool, error) {
	var f models.Fraction
	err := q.get(ctx, &f, `SELECT `+fractionColumns+` FROM fractions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Fraction{}, false, nil
	}
	if err != nil {
		return models.Fraction{}, false, fmt.Errorf("falha ao buscar fração %d: %w", id, err)
	}
	return f, true, nil
}

// ActiveFractions devolve as frações ativas de um dono num ativo, das mais antigas para as mais novas.
// Com lock=true as linhas ficam bloqueadas até o fim da transação (PostgreSQL).
func (q *Queries) ActiveFractions(ctx context.Context, ownerID, assetID int64, lock bool) ([]models.Fraction, error) {
	fractions := []models.Fraction{}
	err := q.selectAll(ctx, &fractions,
		`SELECT `+fractionColumns+` FROM fractions
		 WHERE owner_id = ? AND asset_id = ? AND is_active = TRUE AND units > 0
		 ORDER BY created_at, id`+q.forUpdate(lock),
		ownerID, assetID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar frações do dono %d: %w", ownerID, err)
	}
	return fractions, nil
}

// FractionsByAsset devolve todas as frações de um ativo, ativas ou não.
func (q *Queries) FractionsByAsset(ctx context.Context, assetID int64) ([]models.Fraction, error) {
	fractions := []models.Fraction{}
	err := q.selectAll(ctx, &fractions,
		`SELECT `+fractionColumns+` FROM fractions WHERE asset_id = ? ORDER BY id`, assetID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar frações do ativo %d: %w", assetID, err)
	}
	return fractions, nil
}

// ConsumeFraction retira units de uma fração ativa e a desativa quando zera.
// A atualização é condicional: devolve false se a fração não tem mais as unidades pedidas.
func (q *Queries) ConsumeFraction(ctx context.Context, id, units int64) (bool, error) {
	n, err := q.exec(ctx,
		`UPDATE fractions
		 SET units = units - ?, is_active = (units - ? > 0)
		 WHERE id = ? AND is_active = TRUE AND units >= ?`,
		units, units, id, units)
	if err != nil {
		return false, fmt.Errorf("falha ao consumir fração %d: %w", id, err)
	}
	return n == 1, nil
}

// AssetUnits é o total de unidades ativas de um dono num ativo.
type AssetUnits struct {
	AssetID int64 `db:"asset_id"`
	Units   int64 `db:"units"`
}

// UnitsByOwner soma as unidades ativas de um dono, agrupadas por ativo.
func (q *Queries) UnitsByOwner(ctx context.Context, ownerID int64) ([]AssetUnits, error) {
	rows := []AssetUnits{}
	err := q.selectAll(ctx, &rows,
		`SELECT asset_id, CAST(SUM(units) AS BIGINT) AS units FROM fractions
		 WHERE owner_id = ? AND is_active = TRUE
		 GROUP BY asset_id ORDER BY asset_id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("falha ao somar unidades do dono %d: %w", ownerID, err)
	}
	return rows, nil
}
