package vets

import (
	"net/http"
	"time"

	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/vets", func(vr chi.Router) {
		vr.Post("/", createVetHandler(svc, log))
		vr.Get("/", listVetsHandler(svc, log))
		vr.Get("/{vetID}", getVetHandler(svc, log))
		vr.Put("/{vetID}", updateVetHandler(svc, log))
		vr.Patch("/{vetID}", updateVetHandler(svc, log))
		vr.Delete("/{vetID}", deleteVetHandler(svc, log))
	})

	r.Get("/clinics/{clinicID}/vets", listClinicVetsHandler(svc, log))
}

type createVetRequest struct {
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Pwd      string `json:"pwd"`
}

type updateVetRequest struct {
	ClinicID *string `json:"clinic_id"`
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Pwd      *string `json:"pwd"`
}

type Response struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createVetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "create vet", err)
			return
		}
		v, err := svc.Create(r.Context(), CreateInput{
			ClinicID: req.ClinicID,
			Name:     req.Name,
			Username: req.Username,
			Pwd:      req.Pwd,
		})
		if err != nil {
			httpx.Error(w, r, log, "create vet", err)
			return
		}
		log.Info("vet created", map[string]any{"vet_id": v.ID, "clinic_id": v.ClinicID})
		httpx.JSON(w, http.StatusCreated, ToResponse(v))
	}
}

func listVetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.Error(w, r, log, "list vets", err)
			return
		}
		httpx.JSON(w, http.StatusOK, toResponses(items))
	}
}

func listClinicVetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByClinic(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			httpx.Error(w, r, log, "list clinic vets", err)
			return
		}
		httpx.JSON(w, http.StatusOK, toResponses(items))
	}
}

func getVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.GetByID(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			httpx.Error(w, r, log, "get vet", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(v))
	}
}

func updateVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateVetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "update vet", err)
			return
		}
		v, err := svc.Update(r.Context(), chi.URLParam(r, "vetID"), UpdateInput{
			ClinicID: req.ClinicID,
			Name:     req.Name,
			Username: req.Username,
			Pwd:      req.Pwd,
		})
		if err != nil {
			httpx.Error(w, r, log, "update vet", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(v))
	}
}

func deleteVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Deactivate(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			httpx.Error(w, r, log, "deactivate vet", err)
			return
		}
		log.Info("vet deactivated", map[string]any{"vet_id": v.ID})
		httpx.Message(w, http.StatusOK, "Vet "+v.Name+" successfully deactivated")
	}
}

func ToResponse(v Vet) Response {
	return Response{
		ID:        v.ID,
		ClinicID:  v.ClinicID,
		Name:      v.Name,
		Username:  v.Username,
		Role:      "vet",
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toResponses(items []Vet) []Response {
	out := make([]Response, 0, len(items))
	for _, v := range items {
		out = append(out, ToResponse(v))
	}
	return out
}
