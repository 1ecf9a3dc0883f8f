package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferreirogomes/propfolio/contracts"
	"github.com/ferreirogomes/propfolio/logging"
	"github.com/ferreirogomes/propfolio/services"
)

// handlerFunc é um handler que devolve o erro em vez de escrever a resposta de falha.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle converte o erro devolvido pelo handler em resposta {"error": "..."}.
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		status := statusFor(err)
		logger := logging.FromContext(r.Context())
		if status >= http.StatusInternalServerError {
			logger.Error("Falha ao processar requisição.", err, logging.Fields{"status_code": status})
		} else {
			logger.Warn("Requisição rejeitada.", logging.Fields{"status_code": status, "reason": err.Error()})
		}
		writeError(w, status, err.Error())
	}
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrValidation), errors.Is(err, contracts.ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNotModified):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON envia o payload como JSON com o status informado.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to marshal JSON response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError envia {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
