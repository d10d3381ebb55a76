package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/services"
)

// ActorHeader carrega o ID do usuário que faz a requisição. Não há autenticação: o cabeçalho
// apenas torna o ator explícito.
const ActorHeader = "X-Actor-ID"

type actorKey struct{}

// ActorMiddleware resolve o cabeçalho X-Actor-ID para um models.Actor. Requisições sem o
// cabeçalho seguem sem ator; as rotas que alteram estado o exigem.
func ActorMiddleware(owners OwnerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(ActorHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				badRequest(w, ActorHeader+" inválido")
				return
			}
			owner, err := owners.Get(r.Context(), id)
			if err != nil {
				if services.KindOf(err) == services.KindNotFound {
					writeError(w, &services.Error{Kind: services.KindForbidden, Message: "ator desconhecido"})
					return
				}
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), actorKey{}, models.ActorFor(owner))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireActor devolve o ator da requisição ou responde 403.
func requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := r.Context().Value(actorKey{}).(models.Actor)
	if !ok {
		writeError(w, &services.Error{Kind: services.KindForbidden, Message: "cabeçalho " + ActorHeader + " obrigatório"})
		return models.Actor{}, false
	}
	return actor, true
}
