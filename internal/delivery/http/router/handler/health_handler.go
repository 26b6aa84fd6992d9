package handler

import (
	"net/http"
	"time"

	"niaga/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

var startedAt = time.Now()

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Round(time.Second).String(),
	}, "Service is healthy")
}
