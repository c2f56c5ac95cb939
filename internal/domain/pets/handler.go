package pets

import (
	"net/http"
	"strings"
	"time"

	"dogpass-api/internal/middleware"
	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"
	"dogpass-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, log))
		pr.Get("/", listPetsHandler(svc, log))
		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Put("/{petID}", updatePetHandler(svc, log))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})

	// Mascotas de un dueño
	r.Get("/users/{userID}/pets", listOwnerPetsHandler(svc, log))
}

type createPetRequest struct {
	UserID      string   `json:"user_id"` // opcional si el caller es un usuario autenticado
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed"`
	Sex         string   `json:"sex"`
	Size        string   `json:"size"`
	Age         string   `json:"age"`
	Castrated   *bool    `json:"castrated"`
	Weight      *float64 `json:"weight"`
	Description string   `json:"description"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string  `json:"name"`
	Species     *string  `json:"species"`
	Breed       *string  `json:"breed"`
	Sex         *string  `json:"sex"`
	Size        *string  `json:"size"`
	Age         *string  `json:"age"`
	Castrated   *bool    `json:"castrated"`
	Weight      *float64 `json:"weight"`
	Description *string  `json:"description"`
}

// Response es la representación pública de una mascota.
type Response struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"user_id"`
	Name        string    `json:"name"`
	Species     Species   `json:"species"`
	Breed       string    `json:"breed"`
	Sex         Sex       `json:"sex"`
	Size        Size      `json:"size"`
	Age         string    `json:"age"`
	Castrated   bool      `json:"castrated"`
	Weight      float64   `json:"weight"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "create pet", err)
			return
		}

		owner := strings.TrimSpace(req.UserID)
		if owner == "" {
			if claims, ok := middleware.GetClaims(r.Context()); ok && claims.Role == auth.RoleUser {
				owner = claims.Subject
			}
		}

		p, err := svc.Create(r.Context(), CreateInput{
			OwnerUserID: owner,
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Sex:         req.Sex,
			Size:        req.Size,
			Age:         req.Age,
			Castrated:   req.Castrated,
			Weight:      req.Weight,
			Description: req.Description,
		})
		if err != nil {
			httpx.Error(w, r, log, "create pet", err)
			return
		}

		log.Info("pet created", map[string]any{"pet_id": p.ID, "user_id": p.OwnerUserID})
		httpx.JSON(w, http.StatusCreated, ToResponse(p))
	}
}

func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.Error(w, r, log, "list pets", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponses(items))
	}
}

func listOwnerPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Error(w, r, log, "list pets of user", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponses(items))
	}
}

func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Error(w, r, log, "get pet", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(p))
	}
}

func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "update pet", err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), UpdateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Sex:         req.Sex,
			Size:        req.Size,
			Age:         req.Age,
			Castrated:   req.Castrated,
			Weight:      req.Weight,
			Description: req.Description,
		})
		if err != nil {
			httpx.Error(w, r, log, "update pet", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(p))
	}
}

func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Deactivate(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Error(w, r, log, "deactivate pet", err)
			return
		}
		log.Info("pet deactivated", map[string]any{"pet_id": p.ID})
		httpx.Message(w, http.StatusOK, "Pet "+p.Name+" successfully deactivated")
	}
}

func ToResponse(p Pet) Response {
	return Response{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Sex:         p.Sex,
		Size:        p.Size,
		Age:         p.Age,
		Castrated:   p.Castrated,
		Weight:      p.Weight,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToResponses(items []Pet) []Response {
	out := make([]Response, 0, len(items))
	for _, p := range items {
		out = append(out, ToResponse(p))
	}
	return out
}
