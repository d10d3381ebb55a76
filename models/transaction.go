package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction é o registro imutável de uma transferência de unidades.
// Uma liquidação gera uma Transaction por fração de origem consumida, todas com o mesmo SettlementRef.
type Transaction struct {
	ID            int64           `json:"id" db:"id"`
	FractionID    int64           `json:"fraction_id" db:"fraction_id"` // Fração filha criada para o comprador
	UnitsMoved    int64           `json:"unit_moved" db:"units_moved"`
	FromOwnerID   int64           `json:"from_owner_id" db:"from_owner_id"`
	ToOwnerID     int64           `json:"to_owner_id" db:"to_owner_id"`
	OfferID       int64           `json:"offer_id" db:"offer_id"`
	PricePerUnit  decimal.Decimal `json:"price_perunit" db:"price_perunit"`
	SettlementRef uuid.UUID       `json:"settlement_ref" db:"settlement_ref"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// TradeResult é o resumo devolvido depois que uma liquidação foi confirmada.
type TradeResult struct {
	OfferID           int64           `json:"offer_id"`
	OfferType         string          `json:"offer_type"`
	AssetID           int64           `json:"asset_id"`
	BuyerID           int64           `json:"buyer_id"`
	SellerID          int64           `json:"seller_id"`
	UnitsTraded       int64           `json:"units_traded"`
	PricePerUnit      decimal.Decimal `json:"price_perunit"`
	TotalValue        decimal.Decimal `json:"total_value"`
	TransactionsCount int             `json:"transactions_count"`
	SettlementRef     uuid.UUID       `json:"settlement_ref"`
	ExecutedAt        time.Time       `json:"executed_at"`
}
