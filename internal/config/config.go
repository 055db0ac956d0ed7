// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tfctl/snapdiff/internal/log"
)

// EnvVar names the environment variable that points at the config file.
const EnvVar = "SNAPDIFF_CFG_FILE"

// FileName is the config file name looked up in the user config directory.
const FileName = "snapdiff.yaml"

// ErrNotFound is returned when a key path does not resolve.
var ErrNotFound = errors.New("config key not found")

// Type is the in-memory configuration.
//
// Fields:
//   - Source: absolute path of the YAML file loaded.
//   - Namespace: optional key prefix tried first on lookups, normally the
//     running subcommand (so "diff.output" wins over "output").
//   - Data: raw key/value tree unmarshaled from YAML.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config is the process-wide configuration, loaded lazily by the getters.
var Config Type

// Load reads the config file into Config. No file is not an error worth
// failing over; callers typically ignore it and use defaults.
func Load() (Type, error) {
	path, err := File()
	if err != nil {
		return Type{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{
		Source:    path,
		Namespace: Config.Namespace,
		Data:      data,
	}
	log.Debugf("config loaded: source=%s keys=%d", path, len(data))
	return Config, nil
}

// File returns the config file path. SNAPDIFF_CFG_FILE wins and must name an
// existing regular file; otherwise FileName in os.UserConfigDir is used when
// present.
func File() (string, error) {
	if p := os.Getenv(EnvVar); p != "" {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("config file not found at %s path: %s", EnvVar, p)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s points to a directory: %s", EnvVar, p)
		}
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, FileName)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, nil
	}
	return "", fmt.Errorf("no config file found in standard locations")
}

// Get resolves a dotted key path. When Namespace is set the namespaced key is
// tried first.
func (cfg *Type) Get(key string) (interface{}, error) {
	candidates := []string{key}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + "." + key, key}
	}

	for _, candidate := range candidates {
		if v, ok := lookup(cfg.Data, candidate); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrNotFound, candidates)
}

func lookup(data map[string]interface{}, key string) (interface{}, bool) {
	var current interface{} = data
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

func get(key string) (interface{}, error) {
	if Config.Data == nil {
		_, _ = Load()
	}
	return Config.Get(key)
}

// GetString returns the string at key, or defaultValue[0] when the key is
// missing and a default is given.
func GetString(key string, defaultValue ...string) (string, error) {
	val, err := get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s: value is not a string", key)
	}
	return s, nil
}

// GetInt returns the integer at key. YAML floats are truncated.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s: value is not an int", key)
	}
}

// GetBool returns the boolean at key.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	val, err := get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("%s: value is not a bool", key)
	}
	return b, nil
}

// GetStringSlice returns the list at key. A plain string is split on commas
// so `ignore: a,b` and `ignore: [a, b]` mean the same.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return nil, err
	}

	switch v := val.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: slice element is not a string", key)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: value is not a slice", key)
	}
}
