// Package config loads typed configuration structs from environment
// variables, with optional .env support for local development.
//
// Each configuration type is parsed once per process and cached, so every
// component asking for the same config sees the same values:
//
//	var cfg stream.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Struct fields are described with github.com/caarlos0/env tags:
//
//	type Config struct {
//	    BufferSize   int           `env:"STREAM_BUFFER_SIZE" envDefault:"32"`
//	    PingInterval time.Duration `env:"STREAM_PING_INTERVAL" envDefault:"30s"`
//	}
package config
