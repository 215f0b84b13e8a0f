// Package config provides an immutable snapshot of the process environment.
//
// Provider selection and the HTTP server consume an explicit Env value instead
// of reading process globals, which keeps selection a pure function and makes
// tests trivial to set up.
package config

import (
	"os"
	"strings"
)

// Env is a point-in-time snapshot of environment variables.
type Env map[string]string

// FromEnv captures the current process environment.
func FromEnv() Env {
	env := make(Env)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}

// Get returns the value for key, or "" when unset.
func (e Env) Get(key string) string {
	return e[key]
}

// GetDefault returns the value for key, or def when unset or empty.
func (e Env) GetDefault(key, def string) string {
	if v := e[key]; v != "" {
		return v
	}
	return def
}
