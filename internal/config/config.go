// Package config предоставляет структуры и функции для загрузки конфигурации сервиса.
//
// Порядок загрузки: необязательный файл .env (godotenv), затем YAML из CONFIG_PATH,
// если путь задан, и переменные окружения поверх него (cleanenv).
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Окружения запуска.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	AppName    string `yaml:"app_name" env:"APP_NAME" env-default:"Cafe Recommendation Service"`
	// LogLevel - уровень логирования; пусто - debug в local/dev, info в prod.
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`
	HTTPServer `yaml:"http_server"`
	JWTToken   `yaml:"jwttoken"`
	Places     `yaml:"places"`
	Redis      `yaml:"redis"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8000"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	JWTAlgorithm string        `yaml:"jwt_algorithm" env:"JWT_ALGORITHM" env-default:"HS256"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"30m"`
	BcryptCost   int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// Places структура для настройки клиента каталога мест.
type Places struct {
	APIKey        string        `yaml:"api_key" env:"GOOGLE_API_KEY"`
	BaseURL       string        `yaml:"base_url" env:"PLACES_BASE_URL" env-default:"https://maps.googleapis.com/maps/api/place"`
	Timeout       time.Duration `yaml:"timeout" env:"PLACES_TIMEOUT" env-default:"30s"`
	DefaultRadius int           `yaml:"default_radius" env:"PLACES_DEFAULT_RADIUS" env-default:"1000"`
	Breaker       Breaker       `yaml:"breaker"`
}

// Breaker структура для настройки circuit breaker вокруг каталога мест.
type Breaker struct {
	MaxRequests      uint32        `yaml:"max_requests" env:"PLACES_BREAKER_MAX_REQUESTS" env-default:"1"`
	Interval         time.Duration `yaml:"interval" env:"PLACES_BREAKER_INTERVAL" env-default:"60s"`
	Timeout          time.Duration `yaml:"timeout" env:"PLACES_BREAKER_TIMEOUT" env-default:"30s"`
	FailureThreshold uint32        `yaml:"failure_threshold" env:"PLACES_BREAKER_FAILURES" env-default:"5"`
}

// Redis структура для настройки кэша результатов поиска.
type Redis struct {
	Enabled      bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
	TTL          time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
}

var (
	// ErrMissingSecret - не задан секрет подписи токенов.
	ErrMissingSecret = errors.New("jwt secret key is not set")
	// ErrMissingAPIKey - не задан ключ API каталога мест.
	ErrMissingAPIKey = errors.New("places api key is not set")
	// ErrUnsupportedAlgorithm - алгоритм подписи не поддерживается.
	ErrUnsupportedAlgorithm = errors.New("unsupported jwt algorithm")
)

// Load читает конфигурацию и проверяет её.
func Load() (*Config, error) {
	const op = "config.Load"

	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига; завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return ErrMissingSecret
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.JWTAlgorithm)
	}
	return nil
}

// String не выводит секреты.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"AppName: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  Algorithm: %s\n"+
			"  TokenTTL: %s\n"+
			"Places:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Redis:\n"+
			"  Enabled: %t\n"+
			"  Addr: %s\n"+
			"  TTL: %s\n",
		c.Env,
		c.AppName,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.JWTAlgorithm,
		c.TokenTTL,
		c.BaseURL,
		c.Places.Timeout,
		c.Enabled,
		c.AddressRedis,
		c.TTL,
	)
}
