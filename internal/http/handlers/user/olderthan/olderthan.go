// Package olderthan реализует HTTP-обработчик выборки активных
// пользователей старше заданного возраста. Возраст считается вычитанием
// календарных лет без учёта месяца и дня.
package olderthan

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/users-administration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/users-administration/internal/http/response"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Handler управляет HTTP-запросами на выборку по возрасту.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки по возрасту.
type Service interface {
	GetUsersOlderThan(ctx context.Context, age int, actor string) ([]*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.olderthan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	age, err := strconv.Atoi(chi.URLParam(r, "age"))
	if err != nil {
		log.Error("failed to decode age from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid age"))
		return
	}

	actor := middlewarectx.ActorFromRequest(r)

	users, err := h.service.GetUsersOlderThan(r.Context(), age, actor)
	if err != nil {
		log.Error("failed to list users older than", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error(response.Message(err)))
		return
	}

	log.Info("users older than listed", slog.Int("age", age), slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(users))
}
