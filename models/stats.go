package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PriceStats resume os preços por unidade de um conjunto de ofertas.
type PriceStats struct {
	Count int
	Avg   decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

// NewPriceStats calcula contagem, média, mínimo e máximo dos preços das ofertas.
func NewPriceStats(offers []Offer) PriceStats {
	var st PriceStats
	if len(offers) == 0 {
		return st
	}
	sum := decimal.Zero
	st.Min, st.Max = offers[0].PricePerUnit, offers[0].PricePerUnit
	for _, o := range offers {
		sum = sum.Add(o.PricePerUnit)
		st.Min = decimal.Min(st.Min, o.PricePerUnit)
		st.Max = decimal.Max(st.Max, o.PricePerUnit)
	}
	st.Count = len(offers)
	st.Avg = sum.DivRound(decimal.NewFromInt(int64(len(offers))), MoneyPlaces)
	return st
}

// Sem ofertas, média, mínimo e máximo saem como null.
func (s PriceStats) MarshalJSON() ([]byte, error) {
	out := struct {
		Count int     `json:"count"`
		Avg   *string `json:"avg_price"`
		Min   *string `json:"min_price"`
		Max   *string `json:"max_price"`
	}{Count: s.Count}
	if s.Count > 0 {
		avg, lo, hi := money(s.Avg), money(s.Min), money(s.Max)
		out.Avg, out.Min, out.Max = &avg, &lo, &hi
	}
	return json.Marshal(out)
}

// Spread é a diferença entre a menor venda (ask) e a maior compra (bid).
type Spread struct {
	Bid        decimal.Decimal
	Ask        decimal.Decimal
	Value      decimal.Decimal
	Percentage decimal.Decimal // Value / Bid × 100
}

// NewSpread devolve nil se faltar um dos lados.
func NewSpread(buy, sell PriceStats) *Spread {
	if buy.Count == 0 || sell.Count == 0 {
		return nil
	}
	value := sell.Min.Sub(buy.Max)
	return &Spread{
		Bid:        buy.Max,
		Ask:        sell.Min,
		Value:      value,
		Percentage: value.Mul(decimal.NewFromInt(100)).DivRound(buy.Max, MoneyPlaces),
	}
}

func (s Spread) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bid        string `json:"bid"`
		Ask        string `json:"ask"`
		Value      string `json:"value"`
		Percentage string `json:"percentage"`
	}{money(s.Bid), money(s.Ask), money(s.Value), money(s.Percentage)})
}

// PriceStatistics agrega os preços das ofertas válidas criadas num período.
type PriceStatistics struct {
	AssetID       *int64     `json:"asset_id"`
	PeriodDays    int        `json:"period_days"`
	DataAvailable bool       `json:"data_available"`
	All           PriceStats `json:"all_offers"`
	Buy           PriceStats `json:"buy_offers"`
	Sell          PriceStats `json:"sell_offers"`
	Spread        *Spread    `json:"spread"`
}
