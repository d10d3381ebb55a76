package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradePublisher recebe as liquidações confirmadas (ex.: o feed de negociações).
type TradePublisher interface {
	Publish(result models.TradeResult)
}

// TradingService executa negociações: um usuário aceita uma oferta existente
// (não há casamento automático de ofertas).
type TradingService struct {
	DB        *storage.DB
	Feed      TradePublisher
	allocator Allocator
}

// NewTradingService cria uma nova instância do motor de liquidação. feed pode ser nil.
func NewTradingService(db *storage.DB, feed TradePublisher) *TradingService {
	return &TradingService{DB: db, Feed: feed}
}

// Estados de uma tentativa de liquidação.
const (
	stateValidating = "validating"
	stateAllocating = "allocating"
	stateMutating   = "mutating"
	stateCommitted  = "committed"
	stateAborted    = "aborted"
)

// settlement acompanha uma tentativa de liquidação para o log.
type settlement struct {
	ref     uuid.UUID
	offerID int64
	state   string
}

func (s *settlement) enter(state string) {
	s.state = state
	log.Printf("Liquidação %s (oferta %d): %s", s.ref, s.offerID, state)
}

// ExecuteTrade liquida a oferta offerID tendo counterpartyID como contraparte.
//
// Se a oferta é de compra, o criador é o comprador e a contraparte vende; se é de venda, o
// contrário. Tudo acontece numa única transação do banco: a oferta é invalidada, as frações do
// vendedor são consumidas em ordem FIFO, uma fração filha é criada para o comprador por fração
// consumida e uma Transaction é gravada para cada uma. Qualquer falha desfaz tudo.
func (s *TradingService) ExecuteTrade(ctx context.Context, actor models.Actor, offerID, counterpartyID int64) (models.TradeResult, error) {
	if !actor.CanActFor(counterpartyID) {
		return models.TradeResult{}, newError(KindForbidden, "não é permitido negociar em nome de outro usuário")
	}

	st := &settlement{ref: uuid.New(), offerID: offerID}
	st.enter(stateValidating)

	var result models.TradeResult
	err := s.DB.WithTx(ctx, func(q *storage.Queries) error {
		offer, found, err := q.GetOffer(ctx, offerID, true)
		if err != nil {
			return err
		}
		if !found {
			return offerNotFound(offerID)
		}
		if !offer.IsValid {
			return inactiveOffer(offerID)
		}
		if offer.UserID == counterpartyID {
			return newError(KindSelfTrade, "não é possível negociar com a própria oferta")
		}
		if _, err := requireOwner(ctx, q, counterpartyID); err != nil {
			return err
		}
		// o criador pode ter sido removido depois de publicar a oferta
		if _, err := requireOwner(ctx, q, offer.UserID); err != nil {
			return err
		}

		buyerID, sellerID := counterpartyID, offer.UserID
		if offer.IsBuyer {
			buyerID, sellerID = offer.UserID, counterpartyID
		}

		// o saldo do vendedor é conferido agora, não quando a oferta foi criada
		st.enter(stateAllocating)
		fractions, err := q.ActiveFractions(ctx, sellerID, offer.AssetID, true)
		if err != nil {
			return err
		}
		plan, err := s.allocator.Plan(fractions, offer.Units)
		if err != nil {
			return err
		}

		st.enter(stateMutating)
		ok, err := q.InvalidateOffer(ctx, offer.ID)
		if err != nil {
			return err
		}
		if !ok {
			return inactiveOffer(offerID)
		}

		executedAt := time.Now().UTC()
		for _, a := range plan {
			ok, err := q.ConsumeFraction(ctx, a.Fraction.ID, a.Units)
			if err != nil {
				return err
			}
			if !ok {
				return newError(KindInsufficientUnits, "fração %d foi alterada por outra negociação", a.Fraction.ID)
			}

			child := models.Fraction{
				AssetID:          offer.AssetID,
				OwnerID:          buyerID,
				ParentFractionID: sql.NullInt64{Int64: a.Fraction.ID, Valid: true},
				Units:            a.Units,
				ValuePerUnit:     offer.PricePerUnit,
				CreatedAt:        executedAt,
			}
			if err := q.SaveFraction(ctx, &child); err != nil {
				return err
			}

			entry := models.Transaction{
				FractionID:    child.ID,
				UnitsMoved:    a.Units,
				FromOwnerID:   sellerID,
				ToOwnerID:     buyerID,
				OfferID:       offer.ID,
				PricePerUnit:  offer.PricePerUnit,
				SettlementRef: st.ref,
				CreatedAt:     executedAt,
			}
			if err := q.AppendTransaction(ctx, &entry); err != nil {
				return err
			}
		}

		result = models.TradeResult{
			OfferID:           offer.ID,
			OfferType:         offer.Type(),
			AssetID:           offer.AssetID,
			BuyerID:           buyerID,
			SellerID:          sellerID,
			UnitsTraded:       offer.Units,
			PricePerUnit:      offer.PricePerUnit,
			TotalValue:        offer.PricePerUnit.Mul(decimal.NewFromInt(offer.Units)),
			TransactionsCount: len(plan),
			SettlementRef:     st.ref,
			ExecutedAt:        executedAt,
		}
		return nil
	})
	if err != nil {
		st.enter(stateAborted)
		return models.TradeResult{}, asTradeError(err)
	}

	st.enter(stateCommitted)
	if s.Feed != nil {
		s.Feed.Publish(result)
	}
	return result, nil
}

// asTradeError mantém os erros de negócio e embrulha falhas do banco em trade_execution_failed.
func asTradeError(err error) error {
	if KindOf(err) != "" {
		return err
	}
	return &Error{Kind: KindTradeExecutionFailed, Message: "falha ao executar a negociação", Cause: err}
}

// OrderBook devolve as ofertas ativas de um ativo: compras da maior para a menor e vendas da
// menor para a maior.
func (s *TradingService) OrderBook(ctx context.Context, assetID int64) (models.OrderBook, error) {
	q := s.DB.Queries()
	if _, err := requireAsset(ctx, q, assetID); err != nil {
		return models.OrderBook{}, err
	}
	offers, err := q.ListOffers(ctx, storage.OfferQuery{AssetID: &assetID, ActiveOnly: true})
	if err != nil {
		return models.OrderBook{}, err
	}
	sortOffers(offers)

	book := models.OrderBook{AssetID: assetID, Buy: []models.Offer{}, Sell: []models.Offer{}}
	for _, o := range offers {
		if o.IsBuyer {
			book.Buy = append(book.Buy, o)
		} else {
			book.Sell = append(book.Sell, o)
		}
	}
	if len(book.Buy) > 0 && len(book.Sell) > 0 {
		book.Spread = models.NewSpread(models.NewPriceStats(book.Buy[:1]), models.NewPriceStats(book.Sell[:1]))
	}
	return book, nil
}
