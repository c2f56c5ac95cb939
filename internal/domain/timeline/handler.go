package timeline

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"dogpass-api/internal/middleware"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, access *Access, log logger.Logger) {
	r.Route("/pets/{petID}/timeline", func(tr chi.Router) {
		tr.Post("/", createItemHandler(svc, access, log))
		tr.Get("/", listItemsHandler(svc, access, log))
		tr.Get("/{itemID}", getItemHandler(svc, access, log))

		// Soft delete (autor o dueño de la mascota)
		tr.Delete("/{itemID}", deleteItemHandler(svc, access, log))
	})
}

// createItemRequest es el cuerpo para registrar un ítem en el historial.
type createItemRequest struct {
	Type        ItemType `json:"type" enums:"CONSULTATION,VACCINE,EXAM,SURGERY,MEDICATION,DEWORMING,FLEA_TREATMENT,GROOMING,WEIGHT_RECORDED,NOTE"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Vet         string   `json:"vet"`         // opcional; para vets se completa con su nombre
	Clinic      string   `json:"clinic"`      // opcional; para vets/clínicas se completa con la clínica
	OccurredAt  string   `json:"occurred_at"` // RFC3339, opcional (default: ahora)
}

// itemResponse representa un ítem del historial devuelto por la API.
type itemResponse struct {
	ID            string    `json:"id"`
	PetID         string    `json:"pet_id"`
	Type          ItemType  `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Vet           string    `json:"vet"`
	Clinic        string    `json:"clinic"`
	OccurredAt    time.Time `json:"occurred_at"`
	CreatedAt     time.Time `json:"created_date"`
	CreatedByID   string    `json:"created_by_id"`
	CreatedByRole ActorType `json:"created_by_role"`
}

// createItemHandler godoc
// @Summary Registrar ítem en el historial de la mascota
// @Description El dueño puede registrar ítems. Clínicas y veterinarios pueden hacerlo si la mascota está vinculada a la clínica. Autenticación: `Authorization: Bearer <token>` (o `X-Debug-User-ID` + `X-Debug-Role` en modo dev).
// @Tags timeline
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body createItemRequest true "Datos del ítem; occurred_at en formato RFC3339"
// @Success 201 {object} itemResponse
// @Failure 400 {object} httpx.MessageResponse "campos obligatorios / tipo desconocido / occurred_at inválido"
// @Failure 401 {object} httpx.MessageResponse "unauthorized"
// @Failure 403 {object} httpx.MessageResponse "forbidden"
// @Failure 404 {object} httpx.MessageResponse "pet not found"
// @Router /pets/{petID}/timeline [post]
func createItemHandler(svc *Service, access *Access, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		actor, err := access.Authorize(r.Context(), petID, claims)
		if err != nil {
			httpx.Error(w, r, log, "authorize timeline", err)
			return
		}

		var req createItemRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "create timeline item", err)
			return
		}

		var occurred *time.Time
		if v := strings.TrimSpace(req.OccurredAt); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httpx.Message(w, http.StatusBadRequest, "occurred_at must be RFC3339")
				return
			}
			occurred = &t
		}

		it, err := svc.Create(r.Context(), petID, actor, CreateInput{
			Type:        ItemType(strings.ToUpper(strings.TrimSpace(string(req.Type)))),
			Title:       req.Title,
			Description: req.Description,
			Vet:         req.Vet,
			Clinic:      req.Clinic,
			OccurredAt:  occurred,
		})
		if err != nil {
			httpx.Error(w, r, log, "create timeline item", err)
			return
		}

		log.Info("timeline item recorded", map[string]any{
			"pet_id":  petID,
			"item_id": it.ID,
			"role":    string(actor.Type),
		})
		httpx.JSON(w, http.StatusCreated, toItemResponse(it))
	}
}

// listItemsHandler godoc
// @Summary Listar historial de una mascota
// @Description Ítems activos, del más reciente al más antiguo. Permite filtrar por tipos, rango de fechas y texto.
// @Tags timeline
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de ítems (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: VACCINE,EXAM)"
// @Param from query string false "occurred_at mínimo (RFC3339)"
// @Param to query string false "occurred_at máximo (RFC3339)"
// @Param q query string false "Texto libre en título/descripción"
// @Success 200 {array} itemResponse
// @Failure 400 {object} httpx.MessageResponse "Parámetros de filtro inválidos"
// @Failure 401 {object} httpx.MessageResponse "unauthorized"
// @Failure 403 {object} httpx.MessageResponse "forbidden"
// @Failure 404 {object} httpx.MessageResponse "pet not found"
// @Router /pets/{petID}/timeline [get]
func listItemsHandler(svc *Service, access *Access, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := access.Authorize(r.Context(), petID, claims); err != nil {
			httpx.Error(w, r, log, "authorize timeline", err)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			httpx.Error(w, r, log, "list timeline", err)
			return
		}

		items, err := svc.ListByPet(r.Context(), petID, filter)
		if err != nil {
			httpx.Error(w, r, log, "list timeline", err)
			return
		}

		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getItemHandler(svc *Service, access *Access, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := access.Authorize(r.Context(), petID, claims); err != nil {
			httpx.Error(w, r, log, "authorize timeline", err)
			return
		}

		it, err := svc.GetForPet(r.Context(), petID, chi.URLParam(r, "itemID"))
		if err != nil {
			httpx.Error(w, r, log, "get timeline item", err)
			return
		}
		httpx.JSON(w, http.StatusOK, toItemResponse(it))
	}
}

// deleteItemHandler godoc
// @Summary Desactivar ítem del historial (soft delete)
// @Tags timeline
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param itemID path string true "ID del ítem"
// @Success 200 {object} httpx.MessageResponse
// @Failure 401 {object} httpx.MessageResponse "unauthorized"
// @Failure 403 {object} httpx.MessageResponse "forbidden"
// @Failure 404 {object} httpx.MessageResponse "item not found"
// @Router /pets/{petID}/timeline/{itemID} [delete]
func deleteItemHandler(svc *Service, access *Access, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")

		// Permisos primero, para no filtrar si el ítem existe
		actor, err := access.Authorize(r.Context(), petID, claims)
		if err != nil {
			httpx.Error(w, r, log, "authorize timeline", err)
			return
		}

		it, err := svc.Deactivate(r.Context(), petID, chi.URLParam(r, "itemID"), actor)
		if err != nil {
			httpx.Error(w, r, log, "deactivate timeline item", err)
			return
		}

		log.Info("timeline item deactivated", map[string]any{"pet_id": petID, "item_id": it.ID})
		httpx.Message(w, http.StatusOK, "Timeline item "+it.Title+" successfully deactivated")
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	// types=VACCINE,EXAM
	if v := strings.TrimSpace(r.URL.Query().Get("types")); v != "" {
		parts := strings.Split(v, ",")
		out := make([]ItemType, 0, len(parts))
		for _, p := range parts {
			t := ItemType(strings.ToUpper(strings.TrimSpace(p)))
			if t == "" {
				continue
			}
			if !t.Valid() {
				return ListFilter{}, apperr.Invalid("unknown timeline type %s", t)
			}
			out = append(out, t)
		}
		if len(out) > 0 {
			filter.Types = out
		}
	}

	// from/to RFC3339
	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, apperr.Invalid("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, apperr.Invalid("to must be RFC3339")
		}
		filter.To = &t
	}

	if v := strings.TrimSpace(r.URL.Query().Get("q")); v != "" {
		filter.Query = v
	}

	return filter, nil
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:            it.ID,
		PetID:         it.PetID,
		Type:          it.Type,
		Title:         it.Title,
		Description:   it.Description,
		Vet:           it.Vet,
		Clinic:        it.Clinic,
		OccurredAt:    it.OccurredAt,
		CreatedAt:     it.CreatedAt,
		CreatedByID:   it.CreatedByID,
		CreatedByRole: it.CreatedByRole,
	}
}
