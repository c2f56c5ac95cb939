package offerings

import (
	"net/http"
	"time"

	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/services", func(sr chi.Router) {
		sr.Post("/", createHandler(svc, log))
		sr.Get("/", listHandler(svc, log))
		sr.Get("/{serviceID}", getHandler(svc, log))
		sr.Put("/{serviceID}", updateHandler(svc, log))
		sr.Patch("/{serviceID}", updateHandler(svc, log))
		sr.Delete("/{serviceID}", deleteHandler(svc, log))
	})
}

type createRequest struct {
	Name string `json:"name"`
}

type updateRequest struct {
	Name *string `json:"name"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "create service", err)
			return
		}
		o, err := svc.Create(r.Context(), req.Name)
		if err != nil {
			httpx.Error(w, r, log, "create service", err)
			return
		}
		log.Info("service created", map[string]any{"service_id": o.ID, "name": o.Name})
		httpx.JSON(w, http.StatusCreated, ToResponse(o))
	}
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.Error(w, r, log, "list services", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponses(items))
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "serviceID"))
		if err != nil {
			httpx.Error(w, r, log, "get service", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(o))
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "update service", err)
			return
		}
		o, err := svc.Rename(r.Context(), chi.URLParam(r, "serviceID"), req.Name)
		if err != nil {
			httpx.Error(w, r, log, "update service", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(o))
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.Deactivate(r.Context(), chi.URLParam(r, "serviceID"))
		if err != nil {
			httpx.Error(w, r, log, "deactivate service", err)
			return
		}
		httpx.Message(w, http.StatusOK, "Service "+o.Name+" successfully deactivated")
	}
}

func ToResponse(o Offering) Response {
	return Response{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

func ToResponses(items []Offering) []Response {
	out := make([]Response, 0, len(items))
	for _, o := range items {
		out = append(out, ToResponse(o))
	}
	return out
}
