// Package create реализует HTTP-обработчик создания учётной записи.
//
// Handler принимает JSON-запрос с данными новой записи, проверяет форму
// запроса, определяет создающего актора и вызывает бизнес-логику. Порядок
// доменных проверок (валидация полей, уникальность логина, право на
// создание администратора) принадлежит сервису.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/users-administration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/users-administration/internal/http/response"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Handler управляет HTTP-запросами на создание учётных записей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания учётной записи.
type Service interface {
	Create(ctx context.Context, req models.CreateUserRequest, createdBy string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateUserRequest
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

	createdBy := middlewarectx.ActorFromRequest(r)

	if err := h.service.Create(r.Context(), req, createdBy); err != nil {
		log.Error("failed to create user", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error(response.Message(err)))
		return
	}

	log.Info("user created", slog.String("login", req.Login))
	render.JSON(w, r, response.OK())
}
