package config

import (
	"runtime"

	"github.com/kelseyhightower/envconfig"
)

const (
	// DefaultCacheFile is where fingerprints are persisted between runs.
	DefaultCacheFile = "fingerprint_cache.json"

	// DefaultMaxPixels caps decoded image size at 200 MP. Anything larger
	// is skipped rather than decoded.
	DefaultMaxPixels = 200_000_000

	DefaultHash = "content" // "content" | "phash"
	DefaultKeep = "resolution"
)

// Env holds the environment-tunable defaults. Command-line flags take
// precedence over these.
type Env struct {
	CacheFile string `envconfig:"CACHE_FILE"`
	Workers   int    `envconfig:"WORKERS"`
	MaxPixels int    `envconfig:"MAX_PIXELS"`
}

// FromEnv returns the built-in defaults overridden by any IMGDEDUP_*
// environment variables.
func FromEnv() (Env, error) {
	e := Env{
		CacheFile: DefaultCacheFile,
		Workers:   runtime.NumCPU(),
		MaxPixels: DefaultMaxPixels,
	}
	if err := envconfig.Process("imgdedup", &e); err != nil {
		return e, err
	}
	if e.Workers < 1 {
		e.Workers = 1
	}
	if e.MaxPixels < 1 {
		e.MaxPixels = DefaultMaxPixels
	}
	return e, nil
}
