package models

import "time"

// Asset representa um bem que pode ser fracionado em unidades.
type Asset struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	TotalUnit   int64     `json:"total_unit" db:"total_unit"` // Total de unidades que o ativo pode ter, imutável
	UnitMin     int64     `json:"unit_min" db:"unit_min"`     // Menor bloco permitido numa fração inicial
	UnitMax     int64     `json:"unit_max" db:"unit_max"`     // Maior bloco permitido numa fração inicial
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
