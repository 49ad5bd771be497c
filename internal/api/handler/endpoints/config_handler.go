package endpoints

import (
	"net/http"

	"mediaflow"
	"mediaflow/internal/api/handler/mapper"
	"mediaflow/internal/api/handler/middleware"
	"mediaflow/internal/api/handler/request"
	"mediaflow/internal/api/handler/response"
	"mediaflow/internal/api/service"
	"mediaflow/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type configHandler struct {
	graphService *service.GraphService
	config       mediaflow.AppConfig
	logger       zerolog.Logger
}

func ConfigHandler(router gin.IRouter, cfg mediaflow.AppConfig, graphService *service.GraphService, logger zerolog.Logger) {
	h := &configHandler{
		graphService: graphService,
		config:       cfg,
		logger:       logger,
	}

	router.GET("/health", h.health)

	routes := router.Group("/api/v1/config")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("/providers", h.status)
		routes.POST("/providers", h.configure)
		routes.DELETE("/providers", h.reset)
	}
}

// health reports the providers available to anonymous callers.
func (slf *configHandler) health(c *gin.Context) {
	status, err := slf.graphService.Status(c.Request.Context(), "")
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to read provider status")
		c.JSON(http.StatusServiceUnavailable, response.Health{Status: "degraded"})
		return
	}
	c.JSON(http.StatusOK, response.Health{
		Status:           "healthy",
		OpenAIConfigured: status.OpenAIConfigured,
		FalConfigured:    status.FalConfigured,
	})
}

func (slf *configHandler) status(c *gin.Context) {
	status, err := slf.graphService.Status(c.Request.Context(), pkg.GetUserID(c))
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to read provider status")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to read provider status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (slf *configHandler) configure(c *gin.Context) {
	var req request.ConfigureProviders
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	status, err := slf.graphService.Configure(c.Request.Context(), pkg.GetUserID(c), mapper.ToKeys(req))
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to configure API keys")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Configuration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.ProvidersConfigured{
		Success:          true,
		Message:          "API keys configured successfully",
		OpenAIConfigured: status.OpenAIConfigured,
		FalConfigured:    status.FalConfigured,
	})
}

func (slf *configHandler) reset(c *gin.Context) {
	status, err := slf.graphService.ResetKeys(c.Request.Context(), pkg.GetUserID(c))
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to clear API keys")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to clear API keys"})
		return
	}
	c.JSON(http.StatusOK, status)
}
