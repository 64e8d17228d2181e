package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"5001" validate:"min=1000,max=65535"`

	// An empty key is tolerated at startup; every review request will then
	// fail at the external-call boundary.
	GeminiApiKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseUrl string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com" validate:"url"`
	GeminiModel   string `env:"GEMINI_MODEL"    envDefault:"gemini-1.5-flash"`

	PistonUrl string `env:"PISTON_URL" envDefault:"https://emkc.org/api/v2/piston/execute" validate:"url"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
