package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
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

// RunIDHeader carries the id under which progress is published on NATS.
const RunIDHeader = "X-Run-ID"

type graphHandler struct {
	graphService *service.GraphService
	config       mediaflow.AppConfig
	logger       zerolog.Logger
}

func GraphHandler(router gin.IRouter, cfg mediaflow.AppConfig, graphService *service.GraphService, logger zerolog.Logger) {
	h := &graphHandler{
		graphService: graphService,
		config:       cfg,
		logger:       logger,
	}

	routes := router.Group("/api/v1/graphs")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.POST("/validate", h.validate)
		routes.POST("/run", h.run)
		routes.POST("/run-stream", h.runStream)
		routes.GET("/example", h.example)
		routes.GET("/examples/:name", h.example)
	}
}

func (slf *graphHandler) bind(c *gin.Context) (request.Graph, bool) {
	var req request.Graph
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse graph request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return req, false
	}
	return req, true
}

func (slf *graphHandler) validate(c *gin.Context) {
	req, ok := slf.bind(c)
	if !ok {
		return
	}

	g := mapper.ToGraph(req)
	slf.logger.Info().Int("nodes", len(g.Nodes)).Int("edges", len(g.Edges)).Msg("Validating graph")
	c.JSON(http.StatusOK, slf.graphService.Validate(&g))
}

func (slf *graphHandler) run(c *gin.Context) {
	req, ok := slf.bind(c)
	if !ok {
		return
	}

	g := mapper.ToGraph(req)
	runID, result, err := slf.graphService.Run(c.Request.Context(), pkg.GetUserID(c), &g)
	if err != nil {
		slf.fail(c, err, "Execution failed")
		return
	}

	c.Header(RunIDHeader, runID)
	c.JSON(http.StatusOK, result)
}

func (slf *graphHandler) runStream(c *gin.Context) {
	req, ok := slf.bind(c)
	if !ok {
		return
	}

	g := mapper.ToGraph(req)
	runID, events, err := slf.graphService.Stream(c.Request.Context(), pkg.GetUserID(c), &g)
	if err != nil {
		slf.fail(c, err, "Failed to start streaming execution")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header(RunIDHeader, runID)

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		data, err := json.Marshal(ev)
		if err != nil {
			slf.logger.Error().Err(err).Str("runId", runID).Msg("Failed to encode event")
			return true
		}
		if _, err = fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			slf.logger.Warn().Err(err).Str("runId", runID).Msg("client went away")
			return false
		}
		return true
	})
}

func (slf *graphHandler) example(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		name = service.DefaultExample
	}

	g, ok := service.Example(name)
	if !ok {
		c.JSON(http.StatusNotFound, response.APIError{Message: "Example not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (slf *graphHandler) fail(c *gin.Context, err error, prefix string) {
	if errors.Is(err, service.ErrNoProviderConfigured) {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	slf.logger.Error().Err(err).Msg(prefix)
	c.JSON(http.StatusInternalServerError, response.APIError{Message: fmt.Sprintf("%s: %v", prefix, err)})
}
