package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maidscentre/internal/authz"
	"maidscentre/internal/handlers"
	"maidscentre/internal/middleware"
	"maidscentre/internal/services"
)

type stubAccess struct {
	services.AccessService
}

func (stubAccess) Status(context.Context, int) (services.AccessStatus, error) {
	return services.AccessStatus{ViewsRemaining: 4}, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	access := stubAccess{}
	return SetupRoutes(
		gin.New(),
		handlers.NewHealthHandler(nil),
		handlers.NewAuthHandler(nil),
		handlers.NewClientHandler(nil, nil, access),
		handlers.NewAccessHandler(access),
		handlers.NewTransactionHandler(nil),
		handlers.NewEmployeeHandler(nil),
		handlers.NewCorporateHandler(nil),
		handlers.NewTicketHandler(nil),
		handlers.NewAdminHandler(nil, nil, nil, nil),
	)
}

func token(t *testing.T, userID, roleID int) string {
	t.Helper()
	claims := &middleware.Claims{
		UserID:           userID,
		RoleID:           roleID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTKey)
	require.NoError(t, err)
	return s
}

func get(r http.Handler, path, tok string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoleGating(t *testing.T) {
	middleware.SetJWTKey("routes-test")
	r := newEngine()

	cases := []struct {
		name string
		path string
		role int
		want int
	}{
		{"client sees own access", "/client/access", authz.RoleClient, http.StatusOK},
		{"corporate hires like a client", "/client/access", authz.RoleCorporate, http.StatusOK},
		{"employee cannot browse", "/client/access", authz.RoleEmployee, http.StatusForbidden},
		{"admin cannot use client area", "/client/access", authz.RoleAdmin, http.StatusForbidden},
		{"client is not admin", "/admin/users", authz.RoleClient, http.StatusForbidden},
		{"client is not employee", "/employee/profile", authz.RoleClient, http.StatusForbidden},
		{"admin has no ticket inbox of its own", "/tickets", authz.RoleAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, get(r, tc.path, token(t, 1, tc.role)))
		})
	}

	assert.Equal(t, http.StatusUnauthorized, get(r, "/client/access", ""))
}
