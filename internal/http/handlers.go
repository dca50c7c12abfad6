package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthzResponse struct {
	Status string `json:"status"`
}
type ReadyzResponse struct {
	Status string `json:"status"`
}

// Healthz liveness.
// @Summary     Liveness check
// @Tags        meta
// @Produce     json
// @Success     200 {object} HealthzResponse
// @Router      /api/v1/healthz [get]
func Healthz(c echo.Context) error {
	return writeJSON(c, http.StatusOK, HealthzResponse{Status: "ok"})
}

// Pinger — хранилище коллабораторов (Postgres или память)
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readyz readiness (ping хранилища).
// @Summary     Readiness check
// @Tags        meta
// @Produce     json
// @Success     200 {object} ReadyzResponse
// @Failure     503 {object} APIError
// @Router      /api/v1/readyz [get]
func Readyz(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if store == nil {
			return writeJSON(c, http.StatusOK, ReadyzResponse{Status: "ready"})
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeJSON(c, http.StatusServiceUnavailable, APIError{Code: "store_not_ready", Message: "store not ready"})
		}
		return writeJSON(c, http.StatusOK, ReadyzResponse{Status: "ready"})
	}
}
