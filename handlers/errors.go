package handlers

import (
	"errors"
	"net/http"

	"github.com/ferreirogomes/quitanda/services"
)

// writeDomainError traduz os erros de domínio do engine para códigos HTTP.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNotListed):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyListed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrInvalidPrice), errors.Is(err, services.ErrInsufficientPayment):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
