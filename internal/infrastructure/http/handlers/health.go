package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// Health serves the liveness and readiness probes. Liveness only confirms
// the process answers; readiness also requires the seller store and the
// login throttle backend to respond within the probe timeout.
type Health struct {
	sellerStore   *mongo.Database
	loginThrottle *redis.Client
}

func NewHealth(db *mongo.Database, rdb *redis.Client) *Health {
	return &Health{sellerStore: db, loginThrottle: rdb}
}

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]checkResult `json:"checks"`
}

// Liveness handles GET /health.
func (h *Health) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "seller-system",
	})
}

// Readiness handles GET /health/ready. Any failed check degrades the
// response to 503 so the orchestrator stops routing traffic here.
func (h *Health) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	checks := map[string]checkResult{
		"seller_store":   h.checkSellerStore(ctx),
		"login_throttle": h.checkLoginThrottle(ctx),
	}

	status, httpStatus := "ok", http.StatusOK
	for _, check := range checks {
		if check.Status != "ok" {
			status, httpStatus = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(httpStatus, readinessResponse{Status: status, Checks: checks})
}

func (h *Health) checkSellerStore(ctx context.Context) checkResult {
	if err := h.sellerStore.Client().Ping(ctx, nil); err != nil {
		return checkResult{Status: "unhealthy", Error: err.Error()}
	}
	return checkResult{Status: "ok"}
}

func (h *Health) checkLoginThrottle(ctx context.Context) checkResult {
	if err := h.loginThrottle.Ping(ctx).Err(); err != nil {
		return checkResult{Status: "unhealthy", Error: err.Error()}
	}
	return checkResult{Status: "ok"}
}
