// Package listactive реализует HTTP-обработчик списка активных учётных
// записей. Доступно только администраторам; записи возвращаются в
// хронологическом порядке создания.
package listactive

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/users-administration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/users-administration/internal/http/response"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Handler управляет HTTP-запросами на список активных записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка активных записей.
type Service interface {
	GetActiveUsers(ctx context.Context, actor string) ([]*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.listactive"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromRequest(r)

	users, err := h.service.GetActiveUsers(r.Context(), actor)
	if err != nil {
		log.Error("failed to list active users", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error(response.Message(err)))
		return
	}

	log.Info("active users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(users))
}
