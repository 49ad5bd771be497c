package mediaflow

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DB and Redis stay nil when their backend is not configured.
var (
	DB     *gorm.DB
	Logger = zerolog.Nop()
	Redis  *redis.Client
)
