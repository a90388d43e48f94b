// Package harddelete реализует HTTP-обработчик окончательного удаления
// учётной записи. Операция идемпотентна: удаление несуществующего логина
// не является ошибкой.
package harddelete

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
)

// Request — тело запроса окончательного удаления.
type Request struct {
	UserLogin string `json:"user_login" validate:"required"`
}

// Handler управляет HTTP-запросами на окончательное удаление.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики окончательного удаления.
type Service interface {
	HardDelete(ctx context.Context, login, actor string) error
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
	const op = "handlers.user.harddelete"
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

	actor := middlewarectx.ActorFromRequest(r)

	if err := h.service.HardDelete(r.Context(), req.UserLogin, actor); err != nil {
		log.Error("failed to hard delete user", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error(response.Message(err)))
		return
	}

	log.Info("user hard deleted", slog.String("login", req.UserLogin))
	w.WriteHeader(http.StatusNoContent)
}
