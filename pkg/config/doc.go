// Package config loads env-tagged configuration structs from environment
// variables, with an optional .env file for local development.
//
// Each configuration type is parsed exactly once per process and cached, so
// independent packages asking for the same config get identical values.
//
//	type AppConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
