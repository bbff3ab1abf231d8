package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The wildcard keeps malformed paths (double slash, trailing
	// slash, extra segments) inside the resolver, which answers them
	// with a uniform 404 instead of gin's routing behavior.
	router.GET("/thumb/*any", handler.Thumbnail)
}
