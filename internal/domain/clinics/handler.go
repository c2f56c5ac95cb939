package clinics

import (
	"context"
	"net/http"
	"time"

	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/clinics", func(cr chi.Router) {
		cr.Post("/", createClinicHandler(svc, log))
		cr.Get("/", listClinicsHandler(svc, log))
		cr.Get("/{clinicID}", getClinicHandler(svc, log))
		cr.Put("/{clinicID}", updateClinicHandler(svc, log))
		cr.Patch("/{clinicID}", updateClinicHandler(svc, log))
		cr.Delete("/{clinicID}", deleteClinicHandler(svc, log))

		// Servicios ofrecidos
		cr.Get("/{clinicID}/services", listClinicServicesHandler(svc, log))
		cr.Post("/{clinicID}/services/{serviceID}", addClinicServiceHandler(svc, log))
		cr.Delete("/{clinicID}/services/{serviceID}", removeClinicServiceHandler(svc, log))

		// Mascotas atendidas
		cr.Get("/{clinicID}/pets", listClinicPetsHandler(svc, log))
		cr.Post("/{clinicID}/pets/{petID}", addClinicPetHandler(svc, log))
		cr.Delete("/{clinicID}/pets/{petID}", removeClinicPetHandler(svc, log))
	})

	r.Get("/pets/{petID}/clinics", listPetClinicsHandler(svc, log))
}

type createClinicRequest struct {
	Name         string   `json:"name"`
	CNPJ         string   `json:"cnpj"`
	Address      string   `json:"address"`
	Number       string   `json:"number"`
	ZipCode      string   `json:"zip_code"`
	Neighborhood string   `json:"neighborhood"`
	Username     string   `json:"username"`
	Pwd          string   `json:"pwd"`
	ServiceIDs   []string `json:"service_ids"`
}

type updateClinicRequest struct {
	Name         *string `json:"name"`
	CNPJ         *string `json:"cnpj"`
	Address      *string `json:"address"`
	Number       *string `json:"number"`
	ZipCode      *string `json:"zip_code"`
	Neighborhood *string `json:"neighborhood"`
	Username     *string `json:"username"`
	Pwd          *string `json:"pwd"`
}

// Response es la clínica con sus servicios activos.
type Response struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	CNPJ         string               `json:"cnpj"`
	Address      string               `json:"address"`
	Number       string               `json:"number"`
	ZipCode      string               `json:"zip_code"`
	Neighborhood string               `json:"neighborhood"`
	Username     string               `json:"username"`
	Role         string               `json:"role"`
	Services     []offerings.Response `json:"services"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// createClinicHandler godoc
// @Summary Registrar clínica
// @Description service_ids es opcional; si viene, los servicios se vinculan en la misma transacción.
// @Tags clinics
// @Accept json
// @Produce json
// @Param payload body createClinicRequest true "Datos de la clínica"
// @Success 201 {object} Response
// @Failure 400 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse "service not found"
// @Failure 409 {object} httpx.MessageResponse "cnpj o username ya registrado"
// @Router /clinics [post]
func createClinicHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createClinicRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "create clinic", err)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:         req.Name,
			CNPJ:         req.CNPJ,
			Address:      req.Address,
			Number:       req.Number,
			ZipCode:      req.ZipCode,
			Neighborhood: req.Neighborhood,
			Username:     req.Username,
			Pwd:          req.Pwd,
			ServiceIDs:   req.ServiceIDs,
		})
		if err != nil {
			httpx.Error(w, r, log, "create clinic", err)
			return
		}

		log.Info("clinic created", map[string]any{"clinic_id": c.ID})
		writeClinic(w, r, svc, log, http.StatusCreated, c)
	}
}

func listClinicsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.Error(w, r, log, "list clinics", err)
			return
		}
		out, err := toResponses(r.Context(), svc, items)
		if err != nil {
			httpx.Error(w, r, log, "list clinics", err)
			return
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getClinicHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			httpx.Error(w, r, log, "get clinic", err)
			return
		}
		writeClinic(w, r, svc, log, http.StatusOK, c)
	}
}

func updateClinicHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateClinicRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "update clinic", err)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "clinicID"), UpdateInput{
			Name:         req.Name,
			CNPJ:         req.CNPJ,
			Address:      req.Address,
			Number:       req.Number,
			ZipCode:      req.ZipCode,
			Neighborhood: req.Neighborhood,
			Username:     req.Username,
			Pwd:          req.Pwd,
		})
		if err != nil {
			httpx.Error(w, r, log, "update clinic", err)
			return
		}
		writeClinic(w, r, svc, log, http.StatusOK, c)
	}
}

func deleteClinicHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Deactivate(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			httpx.Error(w, r, log, "deactivate clinic", err)
			return
		}
		log.Info("clinic deactivated", map[string]any{"clinic_id": c.ID})
		httpx.Message(w, http.StatusOK, "Clinic "+c.Name+" successfully deactivated")
	}
}

func listClinicServicesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Services(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			httpx.Error(w, r, log, "list clinic services", err)
			return
		}
		httpx.JSON(w, http.StatusOK, offerings.ToResponses(items))
	}
}

func addClinicServiceHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.AddService(r.Context(), chi.URLParam(r, "clinicID"), chi.URLParam(r, "serviceID"))
		if err != nil {
			httpx.Error(w, r, log, "add clinic service", err)
			return
		}
		writeClinic(w, r, svc, log, http.StatusOK, c)
	}
}

func removeClinicServiceHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.RemoveService(r.Context(), chi.URLParam(r, "clinicID"), chi.URLParam(r, "serviceID"))
		if err != nil {
			httpx.Error(w, r, log, "remove clinic service", err)
			return
		}
		writeClinic(w, r, svc, log, http.StatusOK, c)
	}
}

func listClinicPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Pets(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			httpx.Error(w, r, log, "list clinic pets", err)
			return
		}
		httpx.JSON(w, http.StatusOK, pets.ToResponses(items))
	}
}

func addClinicPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, petID := chi.URLParam(r, "clinicID"), chi.URLParam(r, "petID")
		c, err := svc.AddPet(r.Context(), clinicID, petID)
		if err != nil {
			httpx.Error(w, r, log, "add clinic pet", err)
			return
		}
		log.Info("pet linked to clinic", map[string]any{"clinic_id": c.ID, "pet_id": petID})
		writeClinic(w, r, svc, log, http.StatusOK, c)
	}
}

func removeClinicPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.RemovePet(r.Context(), chi.URLParam(r, "clinicID"), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Error(w, r, log, "remove clinic pet", err)
			return
		}
		writeClinic(w, r, svc, log, http.StatusOK, c)
	}
}

func listPetClinicsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ClinicsForPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Error(w, r, log, "list pet clinics", err)
			return
		}
		out, err := toResponses(r.Context(), svc, items)
		if err != nil {
			httpx.Error(w, r, log, "list pet clinics", err)
			return
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func writeClinic(w http.ResponseWriter, r *http.Request, svc *Service, log logger.Logger, status int, c Clinic) {
	services, err := svc.Services(r.Context(), c.ID)
	if err != nil {
		httpx.Error(w, r, log, "load clinic services", err)
		return
	}
	httpx.JSON(w, status, ToResponse(c, services))
}

func toResponses(ctx context.Context, svc *Service, items []Clinic) ([]Response, error) {
	out := make([]Response, 0, len(items))
	for _, c := range items {
		services, err := svc.Services(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ToResponse(c, services))
	}
	return out, nil
}

func ToResponse(c Clinic, services []offerings.Offering) Response {
	return Response{
		ID:           c.ID,
		Name:         c.Name,
		CNPJ:         c.CNPJ,
		Address:      c.Address,
		Number:       c.Number,
		ZipCode:      c.ZipCode,
		Neighborhood: c.Neighborhood,
		Username:     c.Username,
		Role:         "clinic",
		Services:     offerings.ToResponses(services),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
