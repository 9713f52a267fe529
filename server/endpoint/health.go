package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LoohanZinho/joraps/observability"
)

// HealthCheck reports the service health including component statuses.
type HealthCheck func(ctx context.Context) *observability.ServiceHealth

// Health returns a handler that reports service health. A down component
// turns the response into a 503.
func Health(serviceName string, check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := observability.NewServiceHealth(serviceName, "")
		if check != nil {
			health = check(c.Request.Context())
		}

		httpStatus := http.StatusOK
		if health.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     health.Status,
			"service":    health.Service,
			"version":    health.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": health.Components,
		})
	}
}
