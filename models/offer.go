package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer é uma intenção de compra ou venda que fica em aberto até ser aceita ou cancelada.
type Offer struct {
	ID           int64           `json:"id" db:"id"`
	AssetID      int64           `json:"asset_id" db:"asset_id"`
	UserID       int64           `json:"user_id" db:"user_id"`
	IsBuyer      bool            `json:"is_buyer" db:"is_buyer"`
	Units        int64           `json:"units" db:"units"`
	PricePerUnit decimal.Decimal `json:"price_perunit" db:"price_perunit"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	IsValid      bool            `json:"is_valid" db:"is_valid"` // Vira false uma única vez: cancelamento ou liquidação
}

// Type devolve "buy" ou "sell".
func (o Offer) Type() string {
	if o.IsBuyer {
		return "buy"
	}
	return "sell"
}

// TotalValue é units × price_perunit em aritmética decimal.
func (o Offer) TotalValue() decimal.Decimal {
	return o.PricePerUnit.Mul(decimal.NewFromInt(o.Units))
}

// OrderBook agrupa as ofertas ativas de um ativo: melhor compra e melhor venda primeiro.
// Spread fica nil enquanto um dos lados estiver vazio.
type OrderBook struct {
	AssetID int64   `json:"asset_id"`
	Buy     []Offer `json:"buy_offers"`
	Sell    []Offer `json:"sell_offers"`
	Spread  *Spread `json:"spread"`
}
