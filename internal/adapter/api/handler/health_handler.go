package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chatmarket/internal/domain/repository"
)

type HealthHandler struct {
	store repository.KeyValueStore
}

var healthHandler *HealthHandler

func NewHealthHandler(store repository.KeyValueStore) *HealthHandler {
	return &HealthHandler{
		store: store,
	}
}

func SetupHealthHandler(store repository.KeyValueStore) {
	healthHandler = NewHealthHandler(store)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckStorageHealth reads the schema marker from the snapshot backend.
func (h *HealthHandler) CheckStorageHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	_, err := h.store.Get(ctx, repository.KeySchemaVersion)
	if err != nil && !stderrors.Is(err, repository.ErrKeyNotFound) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Storage unavailable",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Storage reachable",
	})
}
