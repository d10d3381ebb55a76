package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ferreirogomes/fracoes/models"
)

const valueColumns = `id, asset_id, value, recorded_at, source, adjusted_by, reason`

// SaveValueRecord acrescenta um ponto ao histórico de valor de um ativo.
func (q *Queries) SaveValueRecord(ctx context.Context, r *models.ValueRecord) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = now()
	}
	err := q.get(ctx, &r.ID,
		`INSERT INTO asset_value_history (asset_id, value, recorded_at, source, adjusted_by, reason)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		r.AssetID, r.Value, r.RecordedAt, r.Source, r.AdjustedBy, r.Reason)
	return classify("falha ao salvar valor do ativo", err)
}

// LatestValue devolve o registro de valor mais recente de um ativo.
func (q *Queries) LatestValue(ctx context.Context, assetID int64) (models.ValueRecord, bool, error) {
	var r models.ValueRecord
	err := q.get(ctx, &r,
		`SELECT `+valueColumns+` FROM asset_value_history
		 WHERE asset_id = ? ORDER BY recorded_at DESC, id DESC LIMIT 1`, assetID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ValueRecord{}, false, nil
	}
	if err != nil {
		return models.ValueRecord{}, false, fmt.Errorf("falha ao buscar valor do ativo %d: %w", assetID, err)
	}
	return r, true, nil
}

// ValueHistory devolve o histórico de valor de um ativo em ordem cronológica, opcionalmente
// limitado a [from, to].
func (q *Queries) ValueHistory(ctx context.Context, assetID int64, from, to *time.Time) ([]models.ValueRecord, error) {
	query := `SELECT ` + valueColumns + ` FROM asset_value_history WHERE asset_id = ?`
	args := []interface{}{assetID}
	if from != nil {
		query += ` AND recorded_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		query += ` AND recorded_at <= ?`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY recorded_at, id`

	records := []models.ValueRecord{}
	if err := q.selectAll(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao buscar histórico do ativo %d: %w", assetID, err)
	}
	return records, nil
}
