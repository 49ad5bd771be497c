package main

import (
	"net/http"

	"mediaflow"
	"mediaflow/internal/realtime"
)

func main() {
	mediaflow.InitConfigOnly(".env")
	logger := mediaflow.Logger

	cfg := realtime.LoadConfig(mediaflow.GetConfig())
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	bridge, err := realtime.NewNATSBridge(cfg.NatsURL, cfg.TenantID, hub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("NATS bridge")
	}
	defer bridge.Close()

	if err := bridge.Subscribe(); err != nil {
		logger.Fatal().Err(err).Msg("NATS subscribe")
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	logger.Info().Str("port", cfg.RealtimePort).Str("tenant", cfg.TenantID).Msg("Realtime service listening")
	if err := http.ListenAndServe(cfg.RealtimePort, nil); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}
