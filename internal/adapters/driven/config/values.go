// Package config holds configuration value handling shared by the config store adapters.
package config

import (
	"strconv"
	"strings"
)

// Values is a flat, dot-keyed configuration map.
//
// Values come from TOML (int64, bool, []any) or from environment
// variables (always strings), so the typed getters accept both forms.
type Values map[string]any

// Get retrieves a configuration value by key.
func (v Values) Get(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (v Values) GetString(key string) string {
	str, ok := v[key].(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (v Values) GetInt(key string) int {
	switch val := v[key].(type) {
	case int64: // TOML integers are parsed as int64
		return int(val)
	case int:
		return val
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (v Values) GetBool(key string) bool {
	switch val := v[key].(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	default:
		return false
	}
}

// GetStringSlice retrieves a string slice configuration value.
// A string value is split on commas.
func (v Values) GetStringSlice(key string) []string {
	switch val := v[key].(type) {
	case []string:
		return val
	case []any: // TOML arrays are parsed as []any
		result := make([]string, 0, len(val))
		for _, item := range val {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		return result
	default:
		return nil
	}
}

// Flatten converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func Flatten(m map[string]any, prefix string) Values {
	result := make(Values)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range Flatten(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// EnvKey maps an environment variable name to a config key, given its prefix.
// The first underscore after the prefix separates section from key:
// VALUEINDEX_EXTRACT_MAX_VALUE_LENGTH becomes extract.max_value_length.
func EnvKey(prefix, name string) (string, bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	rest := strings.ToLower(strings.TrimPrefix(name, prefix))
	section, key, found := strings.Cut(rest, "_")
	if !found || section == "" || key == "" {
		return "", false
	}
	return section + "." + key, true
}
