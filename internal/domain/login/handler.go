package login

import (
	"net/http"
	"strings"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta POST /login. Los middlewares (rate limit) los pone el router.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, mws ...func(http.Handler) http.Handler) {
	r.With(mws...).Post("/login", loginHandler(svc, log))
}

type loginRequest struct {
	Username string `json:"username"`
	Pwd      string `json:"pwd"`
}

// loginResponse trae el token y la entidad que inició sesión (user, clinic o vet).
type loginResponse struct {
	Token  string            `json:"token"`
	User   *users.Response   `json:"user,omitempty"`
	Clinic *clinics.Response `json:"clinic,omitempty"`
	Vet    *vets.Response    `json:"vet,omitempty"`
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Busca el username en usuarios (username o email), clínicas y veterinarios, en ese orden.
// @Tags login
// @Accept json
// @Produce json
// @Param payload body loginRequest true "username y pwd"
// @Success 202 {object} loginResponse
// @Failure 400 {object} httpx.MessageResponse "Missing at least one mandatory field"
// @Failure 403 {object} httpx.MessageResponse "Username or password is incorrect"
// @Failure 404 {object} httpx.MessageResponse "Username not found"
// @Failure 429 {object} httpx.MessageResponse "too many requests"
// @Router /login [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "login", err)
			return
		}

		res, err := svc.Login(r.Context(), req.Username, req.Pwd)
		if err != nil {
			httpx.Error(w, r, log, "login", err)
			return
		}

		p := res.Principal
		out := loginResponse{Token: res.Token}
		switch {
		case p.User != nil:
			u := users.ToResponse(*p.User)
			out.User = &u
		case p.Clinic != nil:
			c := clinics.ToResponse(*p.Clinic, p.ClinicServices)
			out.Clinic = &c
		case p.Vet != nil:
			v := vets.ToResponse(*p.Vet)
			out.Vet = &v
		}

		log.Info(roleLabel(string(p.Role))+" "+p.DisplayName()+" logged in successfully", map[string]any{
			"id":   p.ID,
			"role": string(p.Role),
		})
		httpx.JSON(w, http.StatusAccepted, out)
	}
}

func roleLabel(role string) string {
	if role == "" {
		return ""
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
