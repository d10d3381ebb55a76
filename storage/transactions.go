package storage

import (
	"context"
	"fmt"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/jmoiron/sqlx"
)

const transactionColumns = `t.id, t.fraction_id, t.units_moved, t.from_owner_id, t.to_owner_id, t.offer_id,
	t.price_perunit, t.settlement_ref, t.created_at`

// AppendTransaction grava uma transação no razão. Não existe atualização nem remoção:
// o razão é só de acréscimo.
func (q *Queries) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	err := q.get(ctx, &t.ID,
		`INSERT INTO transactions (fraction_id, units_moved, from_owner_id, to_owner_id, offer_id,
		                           price_perunit, settlement_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		t.FractionID, t.UnitsMoved, t.FromOwnerID, t.ToOwnerID, t.OfferID,
		t.PricePerUnit, t.SettlementRef, t.CreatedAt)
	return classify("falha ao gravar transação", err)
}

// TransactionsByOffer devolve as transações geradas pela liquidação de uma oferta.
func (q *Queries) TransactionsByOffer(ctx context.Context, offerID int64) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := q.selectAll(ctx, &txs,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.offer_id = ? ORDER BY t.id`, offerID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar transações da oferta %d: %w", offerID, err)
	}
	return txs, nil
}

// TransactionsByOwner devolve as transações em que o dono enviou ou recebeu unidades, das mais novas
// para as mais antigas. assetID opcional restringe a um ativo.
func (q *Queries) TransactionsByOwner(ctx context.Context, ownerID int64, assetID *int64, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t
		JOIN fractions f ON f.id = t.fraction_id
		WHERE (t.from_owner_id = ? OR t.to_owner_id = ?)`
	args := []interface{}{ownerID, ownerID}
	if assetID != nil {
		query += ` AND f.asset_id = ?`
		args = append(args, *assetID)
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC LIMIT ?`
	args = append(args, limit)

	txs := []models.Transaction{}
	if err := q.selectAll(ctx, &txs, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao buscar transações do dono %d: %w", ownerID, err)
	}
	return txs, nil
}

// TransactionsByFraction devolve as transações que criaram as frações indicadas, das mais novas
// para as mais antigas.
func (q *Queries) TransactionsByFraction(ctx context.Context, fractionIDs ...int64) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if len(fractionIDs) == 0 {
		return txs, nil
	}
	query, args, err := sqlx.In(`SELECT `+transactionColumns+` FROM transactions t
		WHERE t.fraction_id IN (?) ORDER BY t.created_at DESC, t.id DESC`, fractionIDs)
	if err != nil {
		return nil, fmt.Errorf("falha ao montar consulta de transações: %w", err)
	}
	if err := q.selectAll(ctx, &txs, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao buscar transações das frações %v: %w", fractionIDs, err)
	}
	return txs, nil
}

// TransactionsFromFraction devolve as vendas que consumiram unidades da fração, isto é, as
// transações cujas frações filhas apontam para ela, das mais novas para as mais antigas.
func (q *Queries) TransactionsFromFraction(ctx context.Context, fractionID int64) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := q.selectAll(ctx, &txs,
		`SELECT `+transactionColumns+` FROM transactions t
		 JOIN fractions f ON f.id = t.fraction_id
		 WHERE f.parent_fraction_id = ?
		 ORDER BY t.created_at DESC, t.id DESC`, fractionID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar vendas da fração %d: %w", fractionID, err)
	}
	return txs, nil
}
