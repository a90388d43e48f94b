package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/users-administration/internal/lib/jwt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestActorMiddleware_BearerToken(t *testing.T) {
	maker := jwt.NewMaker("test_secret", time.Minute)
	token, err := maker.GenerateToken("alice", false)
	require.NoError(t, err)

	var gotActor string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotActor = ActorFromRequest(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/active", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	ActorMiddleware(maker, testLogger())(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alice", gotActor)
}

func TestActorMiddleware_FallsBackToQueryParam(t *testing.T) {
	maker := jwt.NewMaker("test_secret", time.Minute)

	var gotActor string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotActor = ActorFromRequest(r)
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "без заголовка"},
		{name: "невалидный токен", header: "Bearer not.a.token"},
		{name: "не bearer", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotActor = ""
			req := httptest.NewRequest(http.MethodGet, "/api/users/active?userBy=bob", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			ActorMiddleware(maker, testLogger())(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, "bob", gotActor)
		})
	}
}

func TestActorFromRequest_EmptyWhenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/users/active", nil)
	assert.Empty(t, ActorFromRequest(req))
}
