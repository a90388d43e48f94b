// Package getbylogin реализует HTTP-обработчик административного чтения
// учётной записи по логину. Наружу уходит только урезанная проекция:
// имя, код пола, дата рождения и признак активности.
package getbylogin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/users-administration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/users-administration/internal/http/response"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Handler управляет HTTP-запросами на чтение записи по логину.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения записи по логину.
type Service interface {
	GetUserByLogin(ctx context.Context, login, actor string) (*models.UserInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.getbylogin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	login := chi.URLParam(r, "userLogin")
	if login == "" {
		log.Error("missing userLogin url param")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user login"))
		return
	}

	actor := middlewarectx.ActorFromRequest(r)

	info, err := h.service.GetUserByLogin(r.Context(), login, actor)
	if err != nil {
		log.Error("failed to get user by login", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error(response.Message(err)))
		return
	}

	log.Info("user read", slog.String("login", login))
	render.JSON(w, r, response.OKWithData(info))
}
