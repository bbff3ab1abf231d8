package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/logger"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/service"
)

const healthCheckTimeout = 5 * time.Second

// HealthPinger reports whether the search index is reachable.
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// Handler holds HTTP request handlers.
type Handler struct {
	resolver *service.Resolver
	pinger   HealthPinger
	logger   logger.Logger

	serviceName    string
	serviceVersion string
}

// NewHandler creates a new handler instance.
func NewHandler(resolver *service.Resolver, pinger HealthPinger, log logger.Logger, name, version string) *Handler {
	return &Handler{
		resolver:       resolver,
		pinger:         pinger,
		logger:         log,
		serviceName:    name,
		serviceVersion: version,
	}
}

// Thumbnail handles GET /thumb/* requests. The resolver owns the whole
// state machine; this handler only translates its terminal Resolution
// into a gin response.
func (h *Handler) Thumbnail(c *gin.Context) {
	res := h.resolver.Resolve(c.Request.Context(), c.Request.URL.Path)

	for name, value := range res.Headers {
		c.Header(name, value)
	}

	switch res.Status {
	case http.StatusFound:
		c.Redirect(http.StatusFound, res.Location)
	case http.StatusNotFound:
		c.String(http.StatusNotFound, "Not Found")
	default:
		c.String(res.Status, "Bad Gateway")
	}
}

// HealthStatus is the health endpoint response body.
type HealthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// HealthCheck handles health check requests, reporting search index
// reachability.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := HealthStatus{
		Status:  "healthy",
		Service: h.serviceName,
		Version: h.serviceVersion,
		Checks:  map[string]string{"elasticsearch": "ok"},
	}

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("health check failed",
			logger.String("backend", "search_index"),
			logger.Error(err),
		)
		status.Status = "unhealthy"
		status.Checks["elasticsearch"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	c.JSON(http.StatusOK, status)
}
