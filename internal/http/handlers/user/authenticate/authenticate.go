// Package authenticate реализует HTTP-обработчик аутентификации по логину
// и паролю. Операция не требует авторизации: это сама примитивная операция
// входа. При успехе выпускается сессионный токен, который middleware
// определения актора принимает в последующих запросах.
package authenticate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/users-administration/internal/http/response"
	"github.com/magabrotheeeer/users-administration/internal/lib/jwt"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Request — тело запроса аутентификации.
type Request struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Handler управляет HTTP-запросами на аутентификацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	jwtMaker jwt.Maker
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
}

// New создает новый Handler с переданными логгером, сервисом и
// выпускателем токенов.
func New(log *slog.Logger, service Service, jwtMaker jwt.Maker) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		jwtMaker: jwtMaker,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.authenticate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		log.Error("authentication failed", slog.String("login", req.Login), sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error(response.Message(err)))
		return
	}

	token, err := h.jwtMaker.GenerateToken(u.Login, u.IsAdmin)
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("user authenticated", slog.String("login", u.Login))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  u,
	}))
}
