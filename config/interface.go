// Package config provides configuration types and utilities for agenthostd.
// Every config struct pairs Validate() with SetDefaults(), satisfying the
// same ConfigInterface contract.
package config

// ConfigInterface is implemented by every config type so a loader can
// validate and default them uniformly.
type ConfigInterface interface {
	Validate() error
	SetDefaults()
}
