// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/tech-sports-pimba/pimba-mvp/core/config"
//
//	type StoreConfig struct {
//		Dir       string        `env:"SESSION_DIR" envDefault:".sessions"`
//		Retention time.Duration `env:"SESSION_TTL" envDefault:"168h"`
//	}
//
//	func main() {
//		var cfg StoreConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// Each configuration type is loaded only once per application lifetime;
// different types are cached independently.
package config
