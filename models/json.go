package models

import (
	"database/sql"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Escalas fixas dos valores na saída JSON: dinheiro com 2 casas e valor por unidade derivado com 4.
const (
	MoneyPlaces   int32 = 2
	PerUnitPlaces int32 = 4
)

func money(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

func perUnit(d decimal.Decimal) string {
	return d.StringFixed(PerUnitPlaces)
}

// nullableID converte um id opcional do banco em null ou número no JSON.
func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}

// Os MarshalJSON abaixo sobrepõem só os campos decimais e anuláveis; os demais campos saem pelas
// tags do próprio struct, através de um tipo alias sem métodos.

func (f Fraction) MarshalJSON() ([]byte, error) {
	type alias Fraction
	return json.Marshal(struct {
		alias
		ParentFractionID *int64 `json:"parent_fraction_id"`
		ValuePerUnit     string `json:"value_perunit"`
	}{alias(f), nullableID(f.ParentFractionID), money(f.ValuePerUnit)})
}

func (o Offer) MarshalJSON() ([]byte, error) {
	type alias Offer
	return json.Marshal(struct {
		alias
		PricePerUnit string `json:"price_perunit"`
	}{alias(o), money(o.PricePerUnit)})
}

func (r ValueRecord) MarshalJSON() ([]byte, error) {
	type alias ValueRecord
	return json.Marshal(struct {
		alias
		Value      string `json:"value"`
		AdjustedBy *int64 `json:"adjusted_by"`
	}{alias(r), money(r.Value), nullableID(r.AdjustedBy)})
}

func (v Valuation) MarshalJSON() ([]byte, error) {
	type alias Valuation
	return json.Marshal(struct {
		alias
		Value   string `json:"value"`
		PerUnit string `json:"value_perunit"`
	}{alias(v), money(v.Value), perUnit(v.PerUnit)})
}

func (h Holding) MarshalJSON() ([]byte, error) {
	type alias Holding
	return json.Marshal(struct {
		alias
		PerUnit        string `json:"value_perunit"`
		EstimatedValue string `json:"estimated_value"`
	}{alias(h), perUnit(h.PerUnit), money(h.EstimatedValue)})
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		PricePerUnit string `json:"price_perunit"`
	}{alias(t), money(t.PricePerUnit)})
}

func (r TradeResult) MarshalJSON() ([]byte, error) {
	type alias TradeResult
	return json.Marshal(struct {
		alias
		PricePerUnit string `json:"price_perunit"`
		TotalValue   string `json:"total_value"`
	}{alias(r), money(r.PricePerUnit), money(r.TotalValue)})
}
