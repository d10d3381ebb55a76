package services

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
)

// OwnerService cadastra e remove usuários.
type OwnerService struct {
	DB *storage.DB
}

func NewOwnerService(db *storage.DB) *OwnerService {
	return &OwnerService{DB: db}
}

// OwnerInput são os dados de um novo usuário.
type OwnerInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsManager bool   `json:"is_manager"`
}

// Create cadastra um usuário. O email é único entre os usuários não removidos.
func (s *OwnerService) Create(ctx context.Context, in OwnerInput) (models.Owner, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return models.Owner{}, validationError("name é obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.Owner{}, validationError("email inválido")
	}

	owner := models.Owner{Name: name, Email: email, IsManager: in.IsManager}
	if err := s.DB.Queries().SaveOwner(ctx, &owner); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return models.Owner{}, validationError("email já cadastrado")
		}
		return models.Owner{}, err
	}
	log.Printf("Usuário %d cadastrado", owner.ID)
	return owner, nil
}

// Get busca um usuário não removido.
func (s *OwnerService) Get(ctx context.Context, id int64) (models.Owner, error) {
	return requireOwner(ctx, s.DB.Queries(), id)
}

// SoftDelete marca o usuário como removido e cancela as ofertas que ele ainda tinha em aberto.
// Frações e histórico continuam no razão.
func (s *OwnerService) SoftDelete(ctx context.Context, actor models.Actor, id int64) error {
	if !actor.IsManager {
		return newError(KindForbidden, "apenas gestores podem remover usuários")
	}
	var cancelled int64
	err := s.DB.WithTx(ctx, func(q *storage.Queries) error {
		ok, err := q.SoftDeleteOwner(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("usuário %d não encontrado", id)
		}
		cancelled, err = q.InvalidateOffersByUser(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("Usuário %d removido por %d (%d ofertas canceladas)", id, actor.UserID, cancelled)
	return nil
}
