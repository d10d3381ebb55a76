package services

import (
	"context"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/shopspring/decimal"
)

// requireOwner carrega um dono ativo ou devolve not_found.
func requireOwner(ctx context.Context, q *storage.Queries, id int64) (models.Owner, error) {
	owner, found, err := q.GetOwner(ctx, id)
	if err != nil {
		return models.Owner{}, err
	}
	if !found || owner.IsDeleted {
		return models.Owner{}, notFound("usuário %d não encontrado", id)
	}
	return owner, nil
}

// requireAsset carrega um ativo ou devolve not_found.
func requireAsset(ctx context.Context, q *storage.Queries, id int64) (models.Asset, error) {
	asset, found, err := q.GetAsset(ctx, id)
	if err != nil {
		return models.Asset{}, err
	}
	if !found {
		return models.Asset{}, notFound("ativo %d não encontrado", id)
	}
	return asset, nil
}

// validateMoney exige um valor positivo com no máximo duas casas decimais.
func validateMoney(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return validationError("%s deve ser positivo", field)
	}
	if !v.Equal(v.Truncate(2)) {
		return validationError("%s aceita no máximo duas casas decimais", field)
	}
	return nil
}
