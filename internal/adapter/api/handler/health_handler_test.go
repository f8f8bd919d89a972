package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"chatmarket/internal/adapter/repository"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, stderrors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, []byte) error { return nil }

func (brokenStore) Delete(context.Context, string) error { return nil }

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(repository.NewMemoryStore())

	if assert.NoError(t, h.CheckHealth(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Server is running")
	}
}

func TestStorageHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		handler    *HealthHandler
		wantStatus int
	}{
		{"empty store", NewHealthHandler(repository.NewMemoryStore()), http.StatusOK},
		{"unreachable store", NewHealthHandler(brokenStore{}), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/storage", nil), rec)

			if assert.NoError(t, tt.handler.CheckStorageHealth(c)) {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}
