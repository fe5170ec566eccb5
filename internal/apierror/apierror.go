// Package apierror provides the error taxonomy shared by all services and the
// standardized JSON envelopes returned to clients. Services return typed
// errors; handlers translate them to an HTTP status with errors.As, so no
// internal detail (stack traces, SQL) ever leaks to a response.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

func (e *ValidationError) Error() string { return e.Detail }

// ── Typed business errors ────────────────────────────────────────────────────

// NotFoundError: an id did not resolve to an entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " no encontrado" }

func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

// ConflictError: a state-machine precondition was violated (caja already
// occupied, session already closed, venta already voided...).
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Detail: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError carries the current balance and the requested
// amount so the client can show both.
type InsufficientFundsError struct {
	SaldoActual decimal.Decimal
	Solicitado  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("saldo insuficiente: disponible %s, solicitado %s",
		e.SaldoActual.StringFixed(2), e.Solicitado.StringFixed(2))
}

// InsufficientStockError names the product and the available quantity.
type InsufficientStockError struct {
	Producto   string
	Disponible int
	Solicitado int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.Producto, e.Disponible, e.Solicitado)
}

// ── HTTP mapping ─────────────────────────────────────────────────────────────

// StatusFor maps a service error to the HTTP status the handler should write.
// Unknown errors map to 500; handlers log those and return a generic detail.
func StatusFor(err error) int {
	var nf *NotFoundError
	var cf *ConflictError
	var vErr *ValidationError
	var fundErr *InsufficientFundsError
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &cf):
		return http.StatusConflict
	case errors.As(err, &vErr), errors.As(err, &fundErr), errors.As(err, &stockErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BodyFor builds the JSON body for a mapped error. Business errors expose
// their message plus structured amounts; internal errors get a fixed detail.
func BodyFor(err error) interface{} {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	var fundErr *InsufficientFundsError
	if errors.As(err, &fundErr) {
		return struct {
			Detail      string          `json:"detail"`
			SaldoActual decimal.Decimal `json:"saldo_actual"`
			Solicitado  decimal.Decimal `json:"solicitado"`
		}{fundErr.Error(), fundErr.SaldoActual, fundErr.Solicitado}
	}
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return struct {
			Detail     string `json:"detail"`
			Producto   string `json:"producto"`
			Disponible int    `json:"disponible"`
			Solicitado int    `json:"solicitado"`
		}{stockErr.Error(), stockErr.Producto, stockErr.Disponible, stockErr.Solicitado}
	}
	if StatusFor(err) == http.StatusInternalServerError {
		return New("Error interno del servidor")
	}
	return New(err.Error())
}
