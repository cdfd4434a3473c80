package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
)

func TestNewRouterExposesMetrics(t *testing.T) {
	router := NewRouter("test")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRunStopsWhenContextDone(t *testing.T) {
	c, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(c, "test", config.Application{Host: "127.0.0.1", Port: 0}, http.NotFoundHandler(), nil)
	require.NoError(t, err)
}
