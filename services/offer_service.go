package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/shopspring/decimal"
)

// OfferService gerencia o ciclo de vida das ofertas e garante no máximo uma oferta válida
// por (usuário, ativo, lado).
type OfferService struct {
	DB        *storage.DB
	allocator Allocator
}

// NewOfferService cria uma nova instância do serviço de ofertas.
func NewOfferService(db *storage.DB) *OfferService {
	return &OfferService{DB: db}
}

// OfferInput são os dados para criar uma oferta.
type OfferInput struct {
	AssetID      int64           `json:"asset_id"`
	UserID       int64           `json:"user_id"`
	IsBuyer      bool            `json:"is_buyer"`
	Units        int64           `json:"units"`
	PricePerUnit decimal.Decimal `json:"price_perunit"`
}

// OfferUpdate traz os campos a alterar; nil mantém o valor atual.
type OfferUpdate struct {
	Units        *int64           `json:"units,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_perunit,omitempty"`
}

// OfferFilter filtra List. Campos nil não filtram.
type OfferFilter struct {
	AssetID    *int64
	UserID     *int64
	IsBuyer    *bool
	ActiveOnly bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinUnits   *int64
	MaxUnits   *int64
}

// Create registra uma nova oferta válida. Ofertas de venda exigem que o usuário tenha,
// em frações ativas do ativo, pelo menos as unidades oferecidas.
func (s *OfferService) Create(ctx context.Context, actor models.Actor, in OfferInput) (models.Offer, error) {
	if in.Units <= 0 {
		return models.Offer{}, validationError("units deve ser positivo")
	}
	if err := validateMoney("price_perunit", in.PricePerUnit); err != nil {
		return models.Offer{}, err
	}
	if !actor.CanActFor(in.UserID) {
		return models.Offer{}, newError(KindForbidden, "não é permitido criar oferta para outro usuário")
	}

	var offer models.Offer
	err := s.DB.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := requireAsset(ctx, q, in.AssetID); err != nil {
			return err
		}
		if _, err := requireOwner(ctx, q, in.UserID); err != nil {
			return err
		}

		_, exists, err := q.FindValidOffer(ctx, in.UserID, in.AssetID, in.IsBuyer)
		if err != nil {
			return err
		}
		if exists {
			return duplicateOffer(in.IsBuyer)
		}

		if !in.IsBuyer {
			if err := s.checkHoldings(ctx, q, in.UserID, in.AssetID, in.Units); err != nil {
				return err
			}
		}

		offer = models.Offer{
			AssetID:      in.AssetID,
			UserID:       in.UserID,
			IsBuyer:      in.IsBuyer,
			Units:        in.Units,
			PricePerUnit: in.PricePerUnit,
		}
		if err := q.SaveOffer(ctx, &offer); err != nil {
			if errors.Is(err, storage.ErrUniqueViolation) {
				// outra requisição criou a mesma oferta entre a verificação e a escrita
				return duplicateOffer(in.IsBuyer)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Offer{}, err
	}

	log.Printf("Oferta %d criada: %s %d unidades do ativo %d a %s por usuário %d",
		offer.ID, offer.Type(), offer.Units, offer.AssetID, offer.PricePerUnit.StringFixed(2), offer.UserID)
	return offer, nil
}

// Get busca uma oferta pelo ID.
func (s *OfferService) Get(ctx context.Context, offerID int64) (models.Offer, error) {
	offer, found, err := s.DB.Queries().GetOffer(ctx, offerID, false)
	if err != nil {
		return models.Offer{}, err
	}
	if !found {
		return models.Offer{}, offerNotFound(offerID)
	}
	return offer, nil
}

// Update altera quantidade e/ou preço de uma oferta ainda válida.
func (s *OfferService) Update(ctx context.Context, actor models.Actor, offerID int64, upd OfferUpdate) (models.Offer, error) {
	if upd.Units == nil && upd.PricePerUnit == nil {
		return models.Offer{}, validationError("nenhum campo para atualizar")
	}
	if upd.Units != nil && *upd.Units <= 0 {
		return models.Offer{}, validationError("units deve ser positivo")
	}
	if upd.PricePerUnit != nil {
		if err := validateMoney("price_perunit", *upd.PricePerUnit); err != nil {
			return models.Offer{}, err
		}
	}

	var offer models.Offer
	err := s.DB.WithTx(ctx, func(q *storage.Queries) error {
		var (
			found bool
			err   error
		)
		offer, found, err = q.GetOffer(ctx, offerID, true)
		if err != nil {
			return err
		}
		if !found {
			return offerNotFound(offerID)
		}
		if !actor.CanActFor(offer.UserID) {
			return newError(KindForbidden, "não é permitido alterar oferta de outro usuário")
		}
		if !offer.IsValid {
			return inactiveOffer(offerID)
		}

		if upd.Units != nil {
			offer.Units = *upd.Units
			if !offer.IsBuyer {
				if err := s.checkHoldings(ctx, q, offer.UserID, offer.AssetID, offer.Units); err != nil {
					return err
				}
			}
		}
		if upd.PricePerUnit != nil {
			offer.PricePerUnit = *upd.PricePerUnit
		}

		ok, err := q.UpdateOfferTerms(ctx, offer.ID, offer.Units, offer.PricePerUnit)
		if err != nil {
			return err
		}
		if !ok {
			return inactiveOffer(offerID)
		}
		return nil
	})
	if err != nil {
		return models.Offer{}, err
	}
	return offer, nil
}

// Deactivate cancela a oferta. Devolve false, sem erro, se ela já estava inválida.
func (s *OfferService) Deactivate(ctx context.Context, actor models.Actor, offerID int64) (bool, error) {
	q := s.DB.Queries()
	offer, found, err := q.GetOffer(ctx, offerID, false)
	if err != nil {
		return false, err
	}
	if !found {
		return false, offerNotFound(offerID)
	}
	if !actor.CanActFor(offer.UserID) {
		return false, newError(KindForbidden, "não é permitido cancelar oferta de outro usuário")
	}

	ok, err := q.InvalidateOffer(ctx, offerID)
	if err != nil {
		return false, err
	}
	if ok {
		log.Printf("Oferta %d cancelada por usuário %d", offerID, actor.UserID)
	}
	return ok, nil
}

// List devolve as ofertas do filtro: compras primeiro, da maior para a menor oferta de preço,
// depois vendas, da menor para a maior.
func (s *OfferService) List(ctx context.Context, f OfferFilter) ([]models.Offer, error) {
	offers, err := s.DB.Queries().ListOffers(ctx, storage.OfferQuery{
		AssetID:    f.AssetID,
		UserID:     f.UserID,
		IsBuyer:    f.IsBuyer,
		ActiveOnly: f.ActiveOnly,
		MinUnits:   f.MinUnits,
		MaxUnits:   f.MaxUnits,
	})
	if err != nil {
		return nil, err
	}

	filtered := offers[:0]
	for _, o := range offers {
		if f.MinPrice != nil && o.PricePerUnit.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && o.PricePerUnit.GreaterThan(*f.MaxPrice) {
			continue
		}
		filtered = append(filtered, o)
	}
	sortOffers(filtered)
	return filtered, nil
}

// checkHoldings confere, pelo Allocator, se o usuário tem unidades suficientes para vender.
func (s *OfferService) checkHoldings(ctx context.Context, q *storage.Queries, userID, assetID, units int64) error {
	fractions, err := q.ActiveFractions(ctx, userID, assetID, false)
	if err != nil {
		return err
	}
	if available := s.allocator.Available(fractions); available < units {
		return newError(KindInsufficientHoldings,
			"usuário possui %d unidades do ativo, a oferta pede %d", available, units)
	}
	return nil
}

// sortOffers ordena compras (preço decrescente) antes de vendas (preço crescente);
// empates pela data de criação e pelo id.
// DefaultStatsDays é a janela padrão de PriceStatistics.
const DefaultStatsDays = 30

// PriceStatistics resume os preços das ofertas válidas criadas nos últimos days dias, no total e
// por lado, com o spread entre a maior compra e a menor venda. assetID nil considera todos os ativos.
func (s *OfferService) PriceStatistics(ctx context.Context, assetID *int64, days int) (models.PriceStatistics, error) {
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 0 || days > 3650 {
		return models.PriceStatistics{}, validationError("days deve ficar entre 1 e 3650")
	}
	q := s.DB.Queries()
	if assetID != nil {
		if _, err := requireAsset(ctx, q, *assetID); err != nil {
			return models.PriceStatistics{}, err
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	offers, err := q.ListOffers(ctx, storage.OfferQuery{AssetID: assetID, ActiveOnly: true, CreatedSince: &since})
	if err != nil {
		return models.PriceStatistics{}, err
	}

	var buys, sells []models.Offer
	for _, o := range offers {
		if o.IsBuyer {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}
	stats := models.PriceStatistics{
		AssetID:       assetID,
		PeriodDays:    days,
		DataAvailable: len(offers) > 0,
		All:           models.NewPriceStats(offers),
		Buy:           models.NewPriceStats(buys),
		Sell:          models.NewPriceStats(sells),
	}
	stats.Spread = models.NewSpread(stats.Buy, stats.Sell)
	return stats, nil
}

func sortOffers(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if a.IsBuyer != b.IsBuyer {
			return a.IsBuyer
		}
		if c := a.PricePerUnit.Cmp(b.PricePerUnit); c != 0 {
			if a.IsBuyer {
				return c > 0
			}
			return c < 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func offerNotFound(id int64) *Error {
	return newError(KindOfferNotFound, "oferta %d não encontrada", id)
}

func inactiveOffer(id int64) *Error {
	return newError(KindInactiveOffer, "oferta %d não está mais ativa", id)
}

func duplicateOffer(isBuyer bool) *Error {
	side := "venda"
	if isBuyer {
		side = "compra"
	}
	return newError(KindDuplicateOffer, "já existe uma oferta de %s ativa deste usuário para o ativo", side)
}
