package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/tollgate/internal/embedding/openai"
	"github.com/davidbz/tollgate/internal/facilitator"
	"github.com/davidbz/tollgate/internal/inference/huggingface"
	"github.com/davidbz/tollgate/internal/payment"
)

// Inference backends.
const (
	BackendHuggingFace = "huggingface"
	BackendEcho        = "echo"
)

// Config represents the gateway configuration.
type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Server      ServerConfig
	CORS        CORSConfig
	Payment     payment.Config
	Facilitator facilitator.Config
	Pricing     PricingConfig
	Inference   InferenceConfig
	HuggingFace huggingface.Config
	Embeddings  openai.Config
	Redis       RedisConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int   `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int   `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int   `env:"SERVER_WRITE_TIMEOUT"    envDefault:"120"`
	ShutdownTimeout int   `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15"`
	MaxBodyBytes    int64 `env:"SERVER_MAX_BODY_BYTES"   envDefault:"26214400"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization,PAYMENT-SIGNATURE,X-Payment,X-Prompt"`
	ExposedHeaders   []string `env:"CORS_EXPOSED_HEADERS"   envSeparator:"," envDefault:"PAYMENT-REQUIRED,X-Price-Charged,X-Price-Source,X-Payment-Transaction,X-Payment-Network"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// PricingConfig contains pricing policy settings.
type PricingConfig struct {
	DefaultPrice string `env:"DEFAULT_PRICE"       envDefault:"10000"`
	PolicyFile   string `env:"PRICING_POLICY_FILE"`
	AdminToken   string `env:"PRICING_ADMIN_TOKEN"`
}

// InferenceConfig selects the inference backend.
type InferenceConfig struct {
	Backend string `env:"INFERENCE_BACKEND" envDefault:"huggingface"`
}

// RedisConfig contains the policy store connection. An empty address disables it.
type RedisConfig struct {
	Addr          string `env:"REDIS_ADDR"`
	Password      string `env:"REDIS_PASSWORD"`
	DB            int    `env:"REDIS_DB"             envDefault:"0"`
	PolicyKey     string `env:"REDIS_POLICY_KEY"     envDefault:"tollgate:pricing:policy"`
	PolicyChannel string `env:"REDIS_POLICY_CHANNEL" envDefault:"tollgate:pricing:updates"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// DepConfig is used for dependency injection with dig.
// Fields are named because several sub-configs share the type name Config.
type DepConfig struct {
	dig.Out

	Server      *ServerConfig
	CORS        *CORSConfig
	Payment     *payment.Config
	Facilitator *facilitator.Config
	Pricing     *PricingConfig
	Inference   *InferenceConfig
	HuggingFace *huggingface.Config
	Embeddings  *openai.Config
	Redis       *RedisConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:         dig.Out{},
		Server:      &cfg.Server,
		CORS:        &cfg.CORS,
		Payment:     &cfg.Payment,
		Facilitator: &cfg.Facilitator,
		Pricing:     &cfg.Pricing,
		Inference:   &cfg.Inference,
		HuggingFace: &cfg.HuggingFace,
		Embeddings:  &cfg.Embeddings,
		Redis:       &cfg.Redis,
	}
}
