package connectorserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker verifies that an upstream service is reachable and accepts
// the connector's credentials.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

type healthModule struct {
	argo   HealthChecker
	cordra HealthChecker
}

func (m healthModule) register(g *gin.RouterGroup) {
	g.GET("/health", m.getHealthHandler)
}

// Health is the response from GET /api/health.
type Health struct {
	Healthy bool            `json:"healthy" example:"true"`
	Argo    ComponentHealth `json:"argo"`
	Cordra  ComponentHealth `json:"cordra"`
}

// ComponentHealth is the health of one upstream service.
type ComponentHealth struct {
	Healthy bool   `json:"healthy" example:"true"`
	Error   string `json:"error,omitempty"`
}

// getHealthHandler godoc
// @id getHealth
// @summary Check the connector's upstream connections
// @description Verifies that both the workflow engine and the repository
// @description are reachable with the configured credentials. Responds
// @description with 503 when either is not.
// @description Added in v0.2.0.
// @tags meta
// @produce json
// @success 200 {object} Health
// @failure 503 {object} Health
// @router /api/health [get]
func (m healthModule) getHealthHandler(c *gin.Context) {
	health := Health{
		Argo:   checkComponent(c.Request.Context(), m.argo),
		Cordra: checkComponent(c.Request.Context(), m.cordra),
	}
	health.Healthy = health.Argo.Healthy && health.Cordra.Healthy
	status := http.StatusOK
	if !health.Healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

func checkComponent(ctx context.Context, checker HealthChecker) ComponentHealth {
	if err := checker.CheckHealth(ctx); err != nil {
		return ComponentHealth{Error: err.Error()}
	}
	return ComponentHealth{Healthy: true}
}
