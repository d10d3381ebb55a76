package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Origens de um registro de valor.
const (
	ValueSourceInitial = "initial"
	ValueSourceManual  = "manual_adjust"
)

// ValueRecord é um ponto do histórico de valor de um ativo.
type ValueRecord struct {
	ID         int64           `json:"id" db:"id"`
	AssetID    int64           `json:"asset_id" db:"asset_id"`
	Value      decimal.Decimal `json:"value" db:"value"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
	Source     string          `json:"source" db:"source"`
	AdjustedBy sql.NullInt64   `json:"-" db:"adjusted_by"`
	Reason     string          `json:"reason" db:"reason"`
}

// Valuation é o valor mais recente de um ativo e o valor derivado por unidade.
type Valuation struct {
	AssetID    int64           `json:"asset_id"`
	Value      decimal.Decimal `json:"value"`
	PerUnit    decimal.Decimal `json:"value_perunit"`
	RecordedAt *time.Time      `json:"recorded_at,omitempty"`
}

// Holding é a posição de um dono num ativo.
type Holding struct {
	AssetID        int64           `json:"asset_id"`
	AssetName      string          `json:"asset_name"`
	Units          int64           `json:"units"`
	PerUnit        decimal.Decimal `json:"value_perunit"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}
