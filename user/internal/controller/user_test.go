package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/testutil"
	"github.com/Alturino/storefront/user/internal/service"
	"github.com/Alturino/storefront/user/pkg/request"
)

const secretKey = "user-controller-secret"

func TestLogin(t *testing.T) {
	c := testutil.Context(t)
	pool := testutil.StartPostgres(t)
	svc := service.NewUserService(repository.New(pool), secretKey)
	_, err := svc.CreateUser(c, request.CreateUser{Email: "staff@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(c))
		})
	})
	AttachUserController(router, svc)

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "malformed body", body: `{`, expected: http.StatusBadRequest},
		{name: "missing password", body: `{"email":"staff@example.com"}`, expected: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"nobody@example.com","password":"correct-horse"}`, expected: http.StatusUnauthorized},
		{name: "wrong password", body: `{"email":"staff@example.com","password":"battery-staple"}`, expected: http.StatusUnauthorized},
		{name: "valid credentials", body: `{"email":"staff@example.com","password":"correct-horse"}`, expected: http.StatusOK},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(test.body)))

			require.Equal(t, test.expected, rec.Code, rec.Body.String())
			if test.expected != http.StatusOK {
				return
			}
			body := struct {
				Data struct {
					Token string `json:"token"`
				} `json:"data"`
			}{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			_, err := internal.VerifyToken(c, secretKey, body.Data.Token)
			assert.NoError(t, err)
		})
	}
}
