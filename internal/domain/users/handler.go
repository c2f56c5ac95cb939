package users

import (
	"net/http"
	"time"

	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/users", func(ur chi.Router) {
		ur.Post("/", createUserHandler(svc, log))
		ur.Get("/", listUsersHandler(svc, log))
		ur.Get("/{userID}", getUserHandler(svc, log))
		ur.Put("/{userID}", updateUserHandler(svc, log))
		ur.Patch("/{userID}", updateUserHandler(svc, log))
		ur.Delete("/{userID}", deleteUserHandler(svc, log))
	})
}

type createUserRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Document     string `json:"document"`
	PhoneNumber  string `json:"phone_number"`
	Pwd          string `json:"pwd"`
	Address      string `json:"address"`
	Number       string `json:"number"`
	ZipCode      string `json:"zip_code"`
	Neighborhood string `json:"neighborhood"`
	Username     string `json:"username"`
}

type updateUserRequest struct {
	Email        *string `json:"email"`
	Name         *string `json:"name"`
	Lastname     *string `json:"lastname"`
	Document     *string `json:"document"`
	PhoneNumber  *string `json:"phone_number"`
	Pwd          *string `json:"pwd"`
	Address      *string `json:"address"`
	Number       *string `json:"number"`
	ZipCode      *string `json:"zip_code"`
	Neighborhood *string `json:"neighborhood"`
	Username     *string `json:"username"`
}

// Response es la representación pública de un usuario (sin hash de contraseña).
type Response struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Document     string    `json:"document"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address"`
	Number       string    `json:"number"`
	ZipCode      string    `json:"zip_code"`
	Neighborhood string    `json:"neighborhood"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// createUserHandler godoc
// @Summary Registrar usuario (dueño de mascotas)
// @Tags users
// @Accept json
// @Produce json
// @Param payload body createUserRequest true "email, name, lastname, document, phone_number y pwd son obligatorios"
// @Success 201 {object} Response
// @Failure 400 {object} httpx.MessageResponse "Missing at least one mandatory field"
// @Failure 409 {object} httpx.MessageResponse "email o username ya registrado"
// @Router /users [post]
func createUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "create user", err)
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			Email:        req.Email,
			Name:         req.Name,
			Lastname:     req.Lastname,
			Document:     req.Document,
			PhoneNumber:  req.PhoneNumber,
			Pwd:          req.Pwd,
			Address:      req.Address,
			Number:       req.Number,
			ZipCode:      req.ZipCode,
			Neighborhood: req.Neighborhood,
			Username:     req.Username,
		})
		if err != nil {
			httpx.Error(w, r, log, "create user", err)
			return
		}

		log.Info("user created", map[string]any{"user_id": u.ID})
		httpx.JSON(w, http.StatusCreated, ToResponse(u))
	}
}

// listUsersHandler godoc
// @Summary Listar usuarios activos
// @Tags users
// @Produce json
// @Success 200 {array} Response
// @Router /users [get]
func listUsersHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.Error(w, r, log, "list users", err)
			return
		}

		out := make([]Response, 0, len(items))
		for _, u := range items {
			out = append(out, ToResponse(u))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

// getUserHandler godoc
// @Summary Obtener usuario
// @Tags users
// @Produce json
// @Param userID path string true "ID del usuario"
// @Success 200 {object} Response
// @Failure 404 {object} httpx.MessageResponse
// @Router /users/{userID} [get]
func getUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Error(w, r, log, "get user", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// updateUserHandler godoc
// @Summary Actualizar usuario (parcial)
// @Description Solo se aplican los campos enviados y no vacíos. PUT y PATCH se comportan igual.
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "ID del usuario"
// @Param payload body updateUserRequest true "Campos a modificar"
// @Success 200 {object} Response
// @Failure 400 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Failure 409 {object} httpx.MessageResponse
// @Router /users/{userID} [patch]
func updateUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, log, "update user", err)
			return
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), UpdateInput{
			Email:        req.Email,
			Name:         req.Name,
			Lastname:     req.Lastname,
			Document:     req.Document,
			PhoneNumber:  req.PhoneNumber,
			Pwd:          req.Pwd,
			Address:      req.Address,
			Number:       req.Number,
			ZipCode:      req.ZipCode,
			Neighborhood: req.Neighborhood,
			Username:     req.Username,
		})
		if err != nil {
			httpx.Error(w, r, log, "update user", err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// deleteUserHandler godoc
// @Summary Desactivar usuario (soft delete)
// @Tags users
// @Produce json
// @Param userID path string true "ID del usuario"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /users/{userID} [delete]
func deleteUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Deactivate(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Error(w, r, log, "deactivate user", err)
			return
		}
		log.Info("user deactivated", map[string]any{"user_id": u.ID})
		httpx.Message(w, http.StatusOK, "User "+u.Email+" successfully deactivated")
	}
}

func ToResponse(u User) Response {
	return Response{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Lastname:     u.Lastname,
		Document:     u.Document,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		Number:       u.Number,
		ZipCode:      u.ZipCode,
		Neighborhood: u.Neighborhood,
		Username:     u.Username,
		Role:         "user",
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
