package models

import "time"

// Owner é o usuário que possui frações, cria ofertas e negocia.
type Owner struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	IsManager bool      `json:"is_manager" db:"is_manager"` // Conta privilegiada (cria ativos, ajusta valores)
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Actor identifica quem está chamando uma operação. É sempre passado explicitamente,
// nunca lido de uma sessão global.
type Actor struct {
	UserID    int64
	IsManager bool
}

// ActorFor monta o Actor de um dono já carregado.
func ActorFor(o Owner) Actor {
	return Actor{UserID: o.ID, IsManager: o.IsManager}
}

// CanActFor diz se o ator pode operar em nome do usuário informado.
func (a Actor) CanActFor(userID int64) bool {
	return a.IsManager || a.UserID == userID
}
