package seed

import (
	"net/http"

	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta POST /populate. Deshabilitado responde 404.
func RegisterRoutes(r chi.Router, deps Deps, enabled bool, log logger.Logger) {
	r.Post("/populate", populateHandler(deps, enabled, log))
}

// populateHandler godoc
// @Summary Cargar datos de demostración
// @Description Crea usuarios, mascotas, clínicas, veterinarios, servicios y vínculos. Es idempotente.
// @Tags populate
// @Produce json
// @Success 201 {object} httpx.MessageResponse "Database auto populate successfully"
// @Failure 400 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /populate [post]
func populateHandler(deps Deps, enabled bool, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			httpx.Message(w, http.StatusNotFound, "populate is disabled")
			return
		}

		data, err := Default()
		if err == nil {
			_, err = Populate(r.Context(), deps, data)
		}
		if err != nil {
			log.Error("database auto populate failed", map[string]any{"err": err.Error()})
			httpx.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		httpx.Message(w, http.StatusCreated, "Database auto populate successfully")
	}
}
