package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ferreirogomes/fracoes/services"
	"github.com/go-chi/chi/v5"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    services.Kind `json:"kind"`
	Message string        `json:"message"`
}

// statusFor traduz o tipo do erro de negócio para o status HTTP.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindSelfTrade:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound, services.KindOfferNotFound:
		return http.StatusNotFound
	case services.KindInactiveOffer, services.KindDuplicateOffer,
		services.KindInsufficientHoldings, services.KindInsufficientUnits:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Erro ao escrever resposta: %v", err)
	}
}

// writeError responde com {"error": {"kind", "message"}}. Erros internos não expõem a causa.
func writeError(w http.ResponseWriter, err error) {
	kind := services.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Printf("Erro interno: %v", err)
		if kind == "" {
			kind = "internal"
		}
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: services.MessageOf(err)}})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Kind: services.KindValidation, Message: message}})
}

// decodeBody lê o corpo JSON; campos desconhecidos são recusados.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		log.Printf("Corpo inválido em %s %s: %v", r.Method, r.URL.Path, err)
		badRequest(w, decodeMessage(err))
		return false
	}
	return true
}

// decodeMessage descreve o erro de leitura do corpo citando no máximo o nome do campo JSON,
// sem os tipos Go internos que o encoding/json inclui na mensagem.
func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return "campo " + typeErr.Field + " com tipo inválido"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "corpo da requisição não é um JSON válido"
	case errors.Is(err, io.EOF):
		return "corpo da requisição vazio"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "campo desconhecido: " + strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
	default:
		return "corpo da requisição inválido"
	}
}

// idParam lê um ID numérico positivo da rota.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, name+" inválido")
		return 0, false
	}
	return id, true
}

// optionalInt lê um inteiro opcional da query string.
func optionalInt(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
