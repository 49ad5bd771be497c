package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"mediaflow"
	"mediaflow/internal/api/handler/endpoints"
	"mediaflow/internal/api/models"
	"mediaflow/internal/api/service"
	"mediaflow/internal/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	mediaflow.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if mediaflow.GetConfig().Mode == "dev" {
		if mediaflow.DB != nil {
			if err := mediaflow.DB.AutoMigrate(&models.RunRecord{}); err != nil {
				mediaflow.Logger.Fatal().Err(err).Msg("Failed to migrate database")
			}
			mediaflow.Logger.Info().Msg("Database migrated successfully")
		}
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(mediaflow.GetConfig().ApiPort))
	if err != nil {
		panic(err)
	}
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", endpoints.RunIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Progress publishing is best effort, the API runs without NATS.
	var publisher realtime.Publisher
	if conn := realtime.ConnectPublisher(mediaflow.GetConfig().Realtime.NatsURL, mediaflow.Logger); conn != nil {
		publisher = conn
		defer conn.Close()
	}

	initAPI(router, service.NewGraphServiceFromConfig(publisher), service.NewRunServiceFromConfig())

	mediaflow.Logger.Debug().Msgf("Starting media graph API on port %s", mediaflow.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		mediaflow.Logger.Fatal().Msg(err.Error())
	}
}

func initAPI(router *graceful.Graceful, graphService *service.GraphService, runService *service.RunService) {
	cfg := mediaflow.GetConfig()
	endpoints.GraphHandler(router, cfg, graphService, mediaflow.Logger)
	endpoints.ConfigHandler(router, cfg, graphService, mediaflow.Logger)
	endpoints.RunHandler(router, cfg, runService, mediaflow.Logger)
}
