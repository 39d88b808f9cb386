package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App  App
	Bot  Bot
	HTTP HTTP
	Deal Deal
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"tg-garant"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Bot struct {
	Token    string `env:"BOT_TOKEN,required"`
	Username string `env:"BOT_USERNAME,required"`
	AdminID  int64  `env:"ADMIN_ID"`
}

type HTTP struct {
	ListenAddress       string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeListenAddress  string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8091"`
	MetricListenAddress string        `env:"METRIC_LISTEN_ADDRESS" envDefault:":8092"`
	ShutdownTimeout     time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
