package usersadmin

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/authenticate"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/create"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/getbylogin"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/harddelete"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/listactive"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/olderthan"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/restore"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/softdelete"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/updatebirthday"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/updategender"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/updatelogin"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/updatename"
	"github.com/magabrotheeeer/users-administration/internal/http/handlers/user/updatepassword"
	"github.com/magabrotheeeer/users-administration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/users-administration/internal/lib/jwt"
	userservice "github.com/magabrotheeeer/users-administration/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service *userservice.Service, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middlewarectx.ActorMiddleware(jwtMaker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Post("/", create.New(logger, service).ServeHTTP)
		r.Post("/login", authenticate.New(logger, service, jwtMaker).ServeHTTP)

		r.Put("/name", updatename.New(logger, service).ServeHTTP)
		r.Put("/birthday", updatebirthday.New(logger, service).ServeHTTP)
		r.Put("/gender", updategender.New(logger, service).ServeHTTP)
		r.Put("/password", updatepassword.New(logger, service).ServeHTTP)
		r.Put("/login", updatelogin.New(logger, service).ServeHTTP)
		r.Put("/restore", restore.New(logger, service).ServeHTTP)

		r.Get("/active", listactive.New(logger, service).ServeHTTP)
		r.Get("/login/{userLogin}", getbylogin.New(logger, service).ServeHTTP)
		r.Get("/age/{age}", olderthan.New(logger, service).ServeHTTP)

		r.Delete("/soft", softdelete.New(logger, service).ServeHTTP)
		r.Delete("/hard", harddelete.New(logger, service).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
}
