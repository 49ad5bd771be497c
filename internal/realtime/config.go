package realtime

import "mediaflow"

type Config struct {
	NatsURL      string
	TenantID     string
	JWTSecret    string
	RealtimePort string
}

func LoadConfig(app mediaflow.AppConfig) Config {
	return Config{
		NatsURL:      app.Realtime.NatsURL,
		TenantID:     app.Realtime.TenantID,
		JWTSecret:    app.JWTConfig.Secret,
		RealtimePort: app.Realtime.Port,
	}
}
