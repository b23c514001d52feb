// Package config loads process-level configuration from environment variables
// into tagged structs using caarlos0/env. A .env file in the working directory,
// if present, is loaded once before the first parse.
//
//	type Config struct {
//		SettingsPath string `env:"TRUTHAPI_SETTINGS" envDefault:"configs/settings.yaml"`
//		Env          string `env:"APP_ENV" envDefault:"development"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Each struct type is parsed once per process; later Load calls for the same
// type return the cached value. Different types are cached independently.
package config
