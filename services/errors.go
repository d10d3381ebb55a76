package services

import (
	"errors"
	"fmt"
)

// Kind é o código legível por máquina de um erro de negócio.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindSelfTrade            Kind = "self_trade"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindOfferNotFound        Kind = "offer_not_found"
	KindInactiveOffer        Kind = "inactive_offer"
	KindDuplicateOffer       Kind = "duplicate_offer"
	KindInsufficientHoldings Kind = "insufficient_holdings"
	KindInsufficientUnits    Kind = "insufficient_units"
	KindTradeExecutionFailed Kind = "trade_execution_failed"
)

// Error é o erro devolvido pelos serviços: um tipo, uma mensagem para o usuário e,
// opcionalmente, a causa interna (que nunca vai para a mensagem).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is compara apenas o Kind, para que errors.Is(err, ErrInactiveOffer) funcione.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinelas para errors.Is.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrSelfTrade            = &Error{Kind: KindSelfTrade}
	ErrForbidden            = &Error{Kind: KindForbidden}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrOfferNotFound        = &Error{Kind: KindOfferNotFound}
	ErrInactiveOffer        = &Error{Kind: KindInactiveOffer}
	ErrDuplicateOffer       = &Error{Kind: KindDuplicateOffer}
	ErrInsufficientHoldings = &Error{Kind: KindInsufficientHoldings}
	ErrInsufficientUnits    = &Error{Kind: KindInsufficientUnits}
	ErrTradeExecutionFailed = &Error{Kind: KindTradeExecutionFailed}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func notFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// KindOf devolve o Kind de um erro de serviço, ou "" para erros internos.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf devolve a mensagem segura para o usuário.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "erro interno"
}
