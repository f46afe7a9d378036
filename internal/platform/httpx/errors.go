// Package httpx provides HTTP response utilities for the JSON API.
package httpx

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound      = errors.New("recurso não encontrado")
	ErrValidation    = errors.New("requisição inválida")
	ErrForbidden     = errors.New("Acesso proibido: somente administradores.")
	ErrUnauthorized  = errors.New("não autenticado")
	ErrConfiguration = errors.New("configuração do servidor incompleta")
	ErrUnavailable   = errors.New("operação indisponível: credencial de serviço ausente")
	ErrUpstream      = errors.New("falha ao consultar o armazenamento")
)

// RespondError maps domain errors onto the {"error": string} wire contract.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnavailable):
		Error(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, ErrConfiguration):
		Error(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, ErrUpstream),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		Error(w, http.StatusBadGateway, ErrUpstream.Error())
	default:
		Error(w, http.StatusInternalServerError, "erro interno")
	}
}
