// Package middlewarectx содержит HTTP middleware и вспомогательные функции
// для определения актора запроса и ограничения частоты запросов.
//
// Актор — логин, от имени которого выполняется операция. Он берётся из
// сессионного токена в заголовке Authorization, а при его отсутствии — из
// параметра запроса userBy, как в исходном API. Решения об авторизации
// принимает бизнес-логика, middleware только извлекает логин.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/users-administration/internal/lib/jwt"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Actor — ключ для логина актора в контексте.
const Actor Key = "actor"

// TokenParser описывает интерфейс разбора сессионного токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.Claims, error)
}

// ActorMiddleware возвращает middleware, извлекающее логин актора из
// Bearer-токена. Невалидный токен не прерывает запрос: актор тогда
// определяется из параметра userBy, а авторизацию решает бизнес-логика.
func ActorMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ActorMiddleware"

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Warn("invalid session token",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), Actor, claims.Login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromRequest возвращает логин актора: из контекста запроса, если его
// положил ActorMiddleware, иначе из параметра userBy.
func ActorFromRequest(r *http.Request) string {
	if actor, ok := r.Context().Value(Actor).(string); ok && actor != "" {
		return actor
	}
	return r.URL.Query().Get("userBy")
}
