package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilConfig is returned when Load is called with a nil pointer.
	ErrNilConfig = errors.New("config: nil config pointer")

	// ErrParse is returned when environment variables cannot be parsed into the config type.
	ErrParse = errors.New("config: failed to parse environment")
)

var (
	dotenvOnce sync.Once

	cacheMu sync.RWMutex
	cache   = make(map[reflect.Type]any)
)

// Load populates cfg from the environment.
// The .env file in the working directory is read once on first use; a missing
// file is not an error. Each config type is parsed once and cached, later calls
// copy the cached value into cfg.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	loadDotenv()

	key := reflect.TypeFor[T]()

	cacheMu.RLock()
	cached, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		*cfg = cached.(T)
		return nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	// Another goroutine may have parsed it while we waited for the lock
	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	parsed, err := env.ParseAs[T]()
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrParse, key, err)
	}

	cache[key] = parsed
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on error. Intended for application startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

func loadDotenv() {
	dotenvOnce.Do(func() {
		// godotenv never overrides variables already present in the environment.
		// A missing or malformed .env is ignored: required fields still fail in env parsing.
		_ = godotenv.Load()
	})
}

// reset drops every cached config. Used by tests.
func reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
