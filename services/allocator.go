package services

import (
	"sort"

	"github.com/ferreirogomes/fracoes/models"
)

// Allocation diz quantas unidades serão retiradas de uma fração do vendedor.
type Allocation struct {
	Fraction models.Fraction
	Units    int64
}

// Allocator escolhe de quais frações sai uma venda: as mais antigas primeiro (FIFO),
// com desempate pelo id. É o único lugar que calcula saldo e ordem de consumo, tanto para
// validar ofertas quanto para liquidar negociações.
type Allocator struct{}

// eligible devolve as frações ativas com unidades, na ordem de consumo.
func (Allocator) eligible(fractions []models.Fraction) []models.Fraction {
	out := make([]models.Fraction, 0, len(fractions))
	for _, f := range fractions {
		if f.IsActive && f.Units > 0 {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Available soma as unidades ativas das frações.
func (a Allocator) Available(fractions []models.Fraction) int64 {
	var total int64
	for _, f := range a.eligible(fractions) {
		total += f.Units
	}
	return total
}

// Plan monta o plano de consumo para required unidades. Não altera nada: se o saldo não basta,
// devolve ErrInsufficientUnits antes de planejar qualquer retirada.
// A soma das unidades do plano é sempre exatamente required.
func (a Allocator) Plan(fractions []models.Fraction, required int64) ([]Allocation, error) {
	if required <= 0 {
		return nil, validationError("quantidade de unidades deve ser positiva")
	}

	ordered := a.eligible(fractions)
	var available int64
	for _, f := range ordered {
		available += f.Units
	}
	if available < required {
		return nil, newError(KindInsufficientUnits,
			"vendedor tem apenas %d unidades disponíveis, não é possível vender %d", available, required)
	}

	plan := make([]Allocation, 0, len(ordered))
	remaining := required
	for _, f := range ordered {
		if remaining == 0 {
			break
		}
		take := min(f.Units, remaining)
		plan = append(plan, Allocation{Fraction: f, Units: take})
		remaining -= take
	}
	return plan, nil
}
