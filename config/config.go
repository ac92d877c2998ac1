package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Env            string        `envconfig:"APP_ENV" default:"development"`
	Port           string        `envconfig:"PORT" default:"8080"`
	MongoURI       string        `envconfig:"MONGODB_URI"`
	MongoName      string        `envconfig:"MONGODB_NAME" default:"roxtor"`
	JWTSecret      string        `envconfig:"JWT_SECRET"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:4200"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"json"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	LeadModel    string `envconfig:"LEAD_MODEL" default:"gemini-2.5-flash"`
	TTSModel     string `envconfig:"TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
	RateModel    string `envconfig:"RATE_MODEL" default:"gemini-2.5-flash"`
	TTSVoice     string `envconfig:"TTS_VOICE" default:"Kore"`
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// AIEnabled is false when no Gemini key is configured.
func (c Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Load reads .env.<APP_ENV> if present and then the process environment.
func Load() (Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	file := ".env.development"
	if env != "development" {
		file = ".env.production"
	}
	if err := godotenv.Load(file); err != nil {
		log.WithField("file", file).Warn("⚠️ No se pudo cargar el archivo de entorno, usando variables del sistema")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// RequireServer checks the keys the HTTP server needs.
func (c Config) RequireServer() error {
	if c.MongoURI == "" {
		return fmt.Errorf("config: MONGODB_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	return nil
}

// RequireStore checks the keys needed to reach the persistent store.
func (c Config) RequireStore() error {
	if c.MongoURI == "" {
		return fmt.Errorf("config: MONGODB_URI is required")
	}
	return nil
}
