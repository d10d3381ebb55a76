package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferreirogomes/fracoes/models"
)

const ownerColumns = `id, name, email, is_manager, is_deleted, created_at`

// SaveOwner insere um novo dono e preenche ID e CreatedAt.
func (q *Queries) SaveOwner(ctx context.Context, owner *models.Owner) error {
	owner.CreatedAt = now()
	err := q.get(ctx, &owner.ID,
		`INSERT INTO owners (name, email, is_manager, is_deleted, created_at)
		 VALUES (?, ?, ?, FALSE, ?) RETURNING id`,
		owner.Name, owner.Email, owner.IsManager, owner.CreatedAt)
	return classify("falha ao salvar dono", err)
}

// GetOwner busca um dono pelo ID, inclusive os marcados como removidos.
func (q *Queries) GetOwner(ctx context.Context, id int64) (models.Owner, bool, error) {
	var owner models.Owner
	err := q.get(ctx, &owner, `SELECT `+ownerColumns+` FROM owners WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Owner{}, false, nil
	}
	if err != nil {
		return models.Owner{}, false, fmt.Errorf("falha ao buscar dono %d: %w", id, err)
	}
	return owner, true, nil
}

// SoftDeleteOwner marca o dono como removido. Devolve false se ele não existia ou já estava removido.
func (q *Queries) SoftDeleteOwner(ctx context.Context, id int64) (bool, error) {
	n, err := q.exec(ctx, `UPDATE owners SET is_deleted = TRUE WHERE id = ? AND is_deleted = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("falha ao remover dono %d: %w", id, err)
	}
	return n == 1, nil
}
