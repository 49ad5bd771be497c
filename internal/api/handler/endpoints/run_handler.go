package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"mediaflow"
	"mediaflow/internal/api/handler/mapper"
	"mediaflow/internal/api/handler/middleware"
	"mediaflow/internal/api/handler/response"
	"mediaflow/internal/api/service"
	"mediaflow/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type runHandler struct {
	runService *service.RunService
	config     mediaflow.AppConfig
	logger     zerolog.Logger
}

func RunHandler(router gin.IRouter, cfg mediaflow.AppConfig, runService *service.RunService, logger zerolog.Logger) {
	h := &runHandler{
		runService: runService,
		config:     cfg,
		logger:     logger,
	}

	routes := router.Group("/api/v1/runs")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.getRecent)
		routes.GET("/:runId", h.getByID)
	}
}

func (slf *runHandler) getRecent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid limit"})
			return
		}
	}

	runs, err := slf.runService.Recent(pkg.GetUserID(c), limit)
	if err != nil {
		slf.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToRunResponses(runs))
}

func (slf *runHandler) getByID(c *gin.Context) {
	run, err := slf.runService.Find(pkg.GetUserID(c), c.Param("runId"))
	if err != nil {
		slf.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToRunResponse(run))
}

func (slf *runHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, response.APIError{Message: err.Error()})
	case errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: "Run not found"})
	default:
		slf.logger.Error().Err(err).Msg("Failed to read run history")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve runs"})
	}
}
