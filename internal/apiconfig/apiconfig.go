// Package apiconfig configures the HTTP server from the environment.
package apiconfig

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Addr            string `env:"ADDR" envDefault:":8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	// WorkbookPath is the roster .xlsx the server loads at startup; the
	// server is read-only, reload by restart.
	WorkbookPath string `env:"WORKBOOK_PATH,required"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "GROUNDROSTER_"}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
