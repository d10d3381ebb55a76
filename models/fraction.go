package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Fraction representa um bloco contíguo de unidades de um ativo, com um único dono.
// Uma negociação consome parte (ou todo) de uma fração do vendedor e cria uma fração filha
// para o comprador, ligada pelo ParentFractionID.
type Fraction struct {
	ID               int64           `json:"id" db:"id"`
	AssetID          int64           `json:"asset_id" db:"asset_id"`
	OwnerID          int64           `json:"owner_id" db:"owner_id"`
	ParentFractionID sql.NullInt64   `json:"-" db:"parent_fraction_id"`
	Units            int64           `json:"units" db:"units"`         // > 0 enquanto ativa, 0 quando inativa
	IsActive         bool            `json:"is_active" db:"is_active"` // false depois que todas as unidades foram vendidas
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	ValuePerUnit     decimal.Decimal `json:"value_perunit" db:"value_perunit"` // Preço por unidade no momento da criação
}

// Parent devolve o id da fração de origem, se houver.
func (f Fraction) Parent() (int64, bool) {
	return f.ParentFractionID.Int64, f.ParentFractionID.Valid
}

// FractionHistory é a procedência de uma fração: a cadeia de frações de origem até a inicial,
// as transações que criaram cada elo e as vendas feitas a partir dela.
type FractionHistory struct {
	Fraction     Fraction      `json:"fraction"`
	Lineage      []Fraction    `json:"lineage"`      // Da origem imediata até a fração inicial
	Acquisitions []Transaction `json:"acquisitions"` // Mais recentes primeiro
	Disposals    []Transaction `json:"disposals"`    // Mais recentes primeiro
}
