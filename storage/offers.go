package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/shopspring/decimal"
)

const offerColumns = `id, asset_id, user_id, is_buyer, units, price_perunit, created_at, is_valid`

// SaveOffer insere uma oferta válida. Uma segunda oferta válida para o mesmo
// (usuário, ativo, lado) é recusada pelo índice único parcial com ErrUniqueViolation.
func (q *Queries) SaveOffer(ctx context.Context, offer *models.Offer) error {
	offer.CreatedAt = now()
	offer.IsValid = true
	err := q.get(ctx, &offer.ID,
		`INSERT INTO offers (asset_id, user_id, is_buyer, units, price_perunit, created_at, is_valid)
		 VALUES (?, ?, ?, ?, ?, ?, TRUE) RETURNING id`,
		offer.AssetID, offer.UserID, offer.IsBuyer, offer.Units, offer.PricePerUnit, offer.CreatedAt)
	return classify("falha ao salvar oferta", err)
}

// GetOffer busca uma oferta pelo ID. Com lock=true a linha fica bloqueada até o fim da transação.
func (q *Queries) GetOffer(ctx context.Context, id int64, lock bool) (models.Offer, bool, error) {
	var offer models.Offer
	err := q.get(ctx, &offer, `SELECT `+offerColumns+` FROM offers WHERE id = ?`+q.forUpdate(lock), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Offer{}, false, nil
	}
	if err != nil {
		return models.Offer{}, false, fmt.Errorf("falha ao buscar oferta %d: %w", id, err)
	}
	return offer, true, nil
}

// FindValidOffer procura a oferta válida de um usuário num ativo e lado.
func (q *Queries) FindValidOffer(ctx context.Context, userID, assetID int64, isBuyer bool) (models.Offer, bool, error) {
	var offer models.Offer
	err := q.get(ctx, &offer,
		`SELECT `+offerColumns+` FROM offers
		 WHERE user_id = ? AND asset_id = ? AND is_buyer = ? AND is_valid = TRUE`,
		userID, assetID, isBuyer)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Offer{}, false, nil
	}
	if err != nil {
		return models.Offer{}, false, fmt.Errorf("falha ao buscar oferta válida: %w", err)
	}
	return offer, true, nil
}

// UpdateOfferTerms troca quantidade e preço de uma oferta ainda válida.
// Devolve false se a oferta não está mais válida.
func (q *Queries) UpdateOfferTerms(ctx context.Context, id, units int64, price decimal.Decimal) (bool, error) {
	n, err := q.exec(ctx,
		`UPDATE offers SET units = ?, price_perunit = ? WHERE id = ? AND is_valid = TRUE`,
		units, price, id)
	if err != nil {
		return false, fmt.Errorf("falha ao atualizar oferta %d: %w", id, err)
	}
	return n == 1, nil
}

// InvalidateOffer invalida a oferta se ela ainda estiver válida (compare-and-swap em is_valid).
// Só uma chamada concorrente recebe true.
func (q *Queries) InvalidateOffer(ctx context.Context, id int64) (bool, error) {
	n, err := q.exec(ctx, `UPDATE offers SET is_valid = FALSE WHERE id = ? AND is_valid = TRUE`, id)
	if err != nil {
		return false, fmt.Errorf("falha ao invalidar oferta %d: %w", id, err)
	}
	return n == 1, nil
}

// InvalidateOffersByUser invalida todas as ofertas ainda válidas de um usuário e devolve quantas foram.
func (q *Queries) InvalidateOffersByUser(ctx context.Context, userID int64) (int64, error) {
	n, err := q.exec(ctx, `UPDATE offers SET is_valid = FALSE WHERE user_id = ? AND is_valid = TRUE`, userID)
	if err != nil {
		return 0, fmt.Errorf("falha ao invalidar ofertas do usuário %d: %w", userID, err)
	}
	return n, nil
}

// OfferQuery filtra ListOffers. Campos nil não filtram.
type OfferQuery struct {
	AssetID      *int64
	UserID       *int64
	IsBuyer      *bool
	ActiveOnly   bool
	MinUnits     *int64
	MaxUnits     *int64
	CreatedSince *time.Time
}

// ListOffers devolve as ofertas que atendem ao filtro, por ordem de criação.
// Filtros e ordenação por preço ficam com o chamador, em aritmética decimal.
func (q *Queries) ListOffers(ctx context.Context, f OfferQuery) ([]models.Offer, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.AssetID != nil {
		where = append(where, "asset_id = ?")
		args = append(args, *f.AssetID)
	}
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.IsBuyer != nil {
		where = append(where, "is_buyer = ?")
		args = append(args, *f.IsBuyer)
	}
	if f.ActiveOnly {
		where = append(where, "is_valid = TRUE")
	}
	if f.MinUnits != nil {
		where = append(where, "units >= ?")
		args = append(args, *f.MinUnits)
	}
	if f.MaxUnits != nil {
		where = append(where, "units <= ?")
		args = append(args, *f.MaxUnits)
	}
	if f.CreatedSince != nil {
		where = append(where, "created_at >= ?")
		args = append(args, f.CreatedSince.UTC())
	}

	query := `SELECT ` + offerColumns + ` FROM offers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	offers := []models.Offer{}
	if err := q.selectAll(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao listar ofertas: %w", err)
	}
	return offers, nil
}
