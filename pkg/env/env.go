package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
// Typed configuration goes through envconfig in pkg/config; this helper exists
// for the handful of knobs (LOG_FORMAT and friends) read before config loads.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
