// Package httpx agrupa los helpers de respuesta que comparten todos los handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const internalErrorMessage = "An internal server error occurred"

// MessageResponse es el cuerpo genérico {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageResponse{Message: msg})
}

// Decode lee el body JSON en v. Un body vacío o mal formado es ErrInvalidInput;
// los campos desconocidos se ignoran.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return apperr.Invalid("invalid json")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.MissingFields()
		}
		return apperr.Invalid("invalid json")
	}
	return nil
}

// Error traduce err a un código HTTP. Los errores no tipados se loguean y
// se responden como 500 sin filtrar detalles.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("unable to "+op, map[string]any{
				"op":         op,
				"err":        err,
				"request_id": chimw.GetReqID(r.Context()),
			})
		}
		Message(w, status, internalErrorMessage)
		return
	}

	msg, ok := apperr.Message(err)
	if !ok {
		msg = strings.TrimSpace(err.Error())
	}
	Message(w, status, msg)
}

func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
