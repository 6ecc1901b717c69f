package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/valueindex/internal/adapters/driven/config"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// EnvPrefix is the prefix of environment variables that override file values.
const EnvPrefix = "VALUEINDEX_"

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Values from the file are overlaid by VALUEINDEX_* environment variables.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	environ  []string
	data     config.Values
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithEnviron overrides the environment the store reads overrides from.
// Defaults to os.Environ(). Useful for testing.
func WithEnviron(environ []string) Option {
	return func(s *ConfigStore) {
		s.environ = environ
	}
}

// NewConfigStore creates a TOML-based config store reading filePath.
// If filePath is empty, defaults to ~/.valueindex/config.toml.
// A missing file is not an error; the store then holds only overrides.
func NewConfigStore(filePath string, opts ...Option) (*ConfigStore, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		filePath = filepath.Join(home, ".valueindex", "config.toml")
	}

	s := &ConfigStore{
		filePath: filePath,
		environ:  os.Environ(),
		data:     make(config.Values),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetString(key)
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetInt(key)
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetBool(key)
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GetStringSlice(key)
}

// Load reads configuration from the TOML file, then applies environment overrides.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(config.Values)

	raw, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file - defaults and overrides only
	case err != nil:
		return fmt.Errorf("reading config %s: %w", s.filePath, err)
	default:
		var loaded map[string]any
		if err := toml.Unmarshal(raw, &loaded); err != nil {
			return fmt.Errorf("parsing config %s: %w", s.filePath, err)
		}
		if loaded != nil {
			data = config.Flatten(loaded, "")
		}
	}

	for _, kv := range s.environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		if key, ok := config.EnvKey(EnvPrefix, name); ok {
			data[key] = value
		}
	}

	s.data = data
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
