// Package config reads configuration from the process environment.
// Mains load a .env file first via godotenv, so local overrides work
// without exporting anything.
package config

import "os"

// Get returns the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
