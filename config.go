package mediaflow

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type AppConfig struct {
	Mode          string
	ApiPort       string
	PublicBaseURL string
	NodeTimeout   time.Duration
	LogLevel      string
	Providers     struct {
		OpenAIKey     string
		OpenAIBaseURL string
		OpenAIModel   string
		FalKey        string
		FalBaseURL    string
		TextBackend   string
		OllamaHost    string
		OllamaModel   string
		HTTPTimeout   time.Duration
	}
	MainDatabase struct {
		Host         string
		Port         string
		User         string
		Password     string
		DatabaseName string
		SSLMode      string
	}
	JWTConfig struct {
		Secret string
	}
	RedisConfig struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Realtime struct {
		NatsURL  string
		TenantID string
		Port     string
	}
}

var config AppConfig

// InitConfig loads envfile, reads the configuration and opens the optional
// backends. Postgres and Redis are only connected when their host is set.
func InitConfig(envfile string) {
	InitConfigOnly(envfile)

	if config.MainDatabase.Host != "" {
		DB = connectToPostgres(config.MainDatabase.Host, config.MainDatabase.User, config.MainDatabase.Password, config.MainDatabase.DatabaseName, config.MainDatabase.Port, config.MainDatabase.SSLMode)
	} else {
		Logger.Warn().Msg("DB_HOSTNAME not set, run history disabled")
	}

	if config.RedisConfig.Host != "" {
		Redis = connectToRedis(config.RedisConfig.Host, config.RedisConfig.Port, config.RedisConfig.Password, config.RedisConfig.DB)
	} else {
		Logger.Warn().Msg("REDIS_HOST not set, provider keys are read from the environment only")
	}
}

// InitConfigOnly loads envfile, the configuration and the logger. No
// backend is opened.
func InitConfigOnly(envfile string) {
	if err := godotenv.Load(envfile); err != nil {
		log.Printf("could not load %s, reading environment only: %s", envfile, err)
	}

	config = LoadConfig()
	Logger = initLogger(config.LogLevel)
}

// LoadConfig builds an AppConfig from the process environment without
// touching any backend.
func LoadConfig() AppConfig {
	var cfg AppConfig
	cfg.Mode = GetEnv("RUN_MODE", "dev")
	cfg.ApiPort = GetEnv("API_PORT", ":8080")
	cfg.PublicBaseURL = strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/")
	cfg.NodeTimeout = time.Duration(getIntEnvOrDefault("NODE_TIMEOUT_SECONDS", 300)) * time.Second
	cfg.LogLevel = GetEnv("LOG_LEVEL", "info")

	cfg.Providers.OpenAIKey = GetEnv("OPENAI_API_KEY", "")
	cfg.Providers.OpenAIBaseURL = GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	cfg.Providers.OpenAIModel = GetEnv("OPENAI_MODEL", "gpt-4o")
	cfg.Providers.FalKey = GetEnv("FAL_API_KEY", "")
	cfg.Providers.FalBaseURL = GetEnv("FAL_BASE_URL", "https://fal.run")
	cfg.Providers.TextBackend = GetEnv("TEXT_BACKEND", "openai")
	cfg.Providers.OllamaHost = GetEnv("OLLAMA_HOST", "")
	cfg.Providers.OllamaModel = GetEnv("OLLAMA_MODEL", "llava")
	cfg.Providers.HTTPTimeout = time.Duration(getIntEnvOrDefault("PROVIDER_HTTP_TIMEOUT_SECONDS", 300)) * time.Second

	cfg.MainDatabase.Host = GetEnv("DB_HOSTNAME", "")
	cfg.MainDatabase.Port = GetEnv("DB_PORT", "5432")
	cfg.MainDatabase.User = GetEnv("DB_USERNAME", "postgres")
	cfg.MainDatabase.Password = GetEnv("DB_PASSWORD", "")
	cfg.MainDatabase.DatabaseName = GetEnv("DB_NAME", "mediaflow")
	cfg.MainDatabase.SSLMode = GetEnv("DB_SSL_MODE", "disable")

	cfg.JWTConfig.Secret = GetEnv("JWT_SECRET", "")

	cfg.RedisConfig.Host = GetEnv("REDIS_HOST", "")
	cfg.RedisConfig.Port = GetEnv("REDIS_PORT", "6379")
	cfg.RedisConfig.Password = GetEnv("REDIS_PASSWORD", "")
	cfg.RedisConfig.DB = getIntEnvOrDefault("REDIS_DB", 0)

	cfg.Realtime.NatsURL = GetEnv("NATS_URL", "nats://localhost:4222")
	cfg.Realtime.TenantID = GetEnv("TENANT_ID", "default")
	cfg.Realtime.Port = GetEnv("REALTIME_PORT", ":8081")
	return cfg
}

func GetConfig() AppConfig {
	return config
}

// SetConfig replaces the active configuration. Used by tests.
func SetConfig(cfg AppConfig) {
	config = cfg
}

func GetEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func connectToPostgres(host string, username string, password string, dbname string, port string, ssl string) *gorm.DB {
	var err error
	var db *gorm.DB
	var conn *sql.DB

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, username, password, dbname, port, ssl)
	if db, err = gorm.Open(postgres.Open(dsn),
		&gorm.Config{
			Logger: logger.New(
				log.New(os.Stdout, "\r\n", log.LstdFlags),
				logger.Config{
					SlowThreshold: 0,
					LogLevel:      logger.Error,
				},
			),
			TranslateError: true,
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			}}); err != nil {
		panic(err)
	}
	if conn, err = db.DB(); err != nil {
		panic(err)
	}
	conn.SetMaxIdleConns(5)
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxLifetime(time.Hour)
	return db
}

func initLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
		NoColor:    false,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("  %s  ", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Caller().Logger()
}

func connectToRedis(host string, port string, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return client
}
