// Package config loads process configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// App holds the process configuration.
type App struct {
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8090"`
	// Storage
	DataDir string `envconfig:"DATA_DIR" default:"/data"`
	// Reconciler
	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"5s"`
	// CORS
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
}

// Load reads the configuration from the environment.
func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
