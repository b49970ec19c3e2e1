// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for cryptodesk.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.cryptodesk/config.toml
//   - ~/.cryptodesk/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete cryptodesk configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Service is the remote cryptographic service.
	Service ServiceConfig `toml:"service" json:"service"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Export controls where issued certificates are saved.
	Export ExportConfig `toml:"export" json:"export"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// ServiceConfig contains connection settings for the backend.
type ServiceConfig struct {
	// BaseURL is the service root (default: http://127.0.0.1:8000)
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxResponseBytes caps how much of a response is read
	MaxResponseBytes int64 `toml:"max_response_bytes" json:"max_response_bytes"`
	// RequestsPerSecond paces outgoing requests; 0 disables pacing
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// Burst is the pacing burst size
	Burst int `toml:"burst" json:"burst"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// DefaultAlgorithm is the initial selection on every page: "rsa" or "elgamal"
	DefaultAlgorithm string `toml:"default_algorithm" json:"default_algorithm"`
	// DefaultPage is the page shown at startup: "encrypt", "decrypt" or "verify"
	DefaultPage string `toml:"default_page" json:"default_page"`
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
}

// ExportConfig contains certificate export settings.
type ExportConfig struct {
	// CertificateDir receives saved <common_name>.pem files
	CertificateDir string `toml:"certificate_dir" json:"certificate_dir"`
	// LedgerPath is the SQLite database recording saved certificates
	LedgerPath string `toml:"ledger_path" json:"ledger_path"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// File receives log output while the TUI owns the terminal
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".cryptodesk"
	}
	return &Config{
		Version: "1.0.0",

		Service: ServiceConfig{
			BaseURL:           api.DefaultBaseURL,
			TimeoutSecs:       60,
			MaxResponseBytes:  api.DefaultMaxResponseSize,
			RequestsPerSecond: 0, // unlimited
			Burst:             1,
		},

		UI: UIConfig{
			DefaultAlgorithm: string(operation.AlgorithmRSA),
			DefaultPage:      "encrypt",
			Theme:            "dark",
		},

		Export: ExportConfig{
			CertificateDir: filepath.Join(dir, "certs"),
			LedgerPath:     filepath.Join(dir, "certs.db"),
		},

		Log: LogConfig{
			File: filepath.Join(dir, "cryptodesk.log"),
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the cryptodesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".cryptodesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the config file Load would read, or the TOML path when
// neither file exists yet.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(jsonPath); statErr == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			cfg = Default()
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err = finish(Default())
	if err != nil {
		return nil, err
	}
	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finish applies environment overrides and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Service
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = defaults.Service.BaseURL
	}
	if cfg.Service.TimeoutSecs == 0 {
		cfg.Service.TimeoutSecs = defaults.Service.TimeoutSecs
	}
	if cfg.Service.MaxResponseBytes == 0 {
		cfg.Service.MaxResponseBytes = defaults.Service.MaxResponseBytes
	}
	if cfg.Service.Burst == 0 {
		cfg.Service.Burst = defaults.Service.Burst
	}

	// UI
	if cfg.UI.DefaultAlgorithm == "" {
		cfg.UI.DefaultAlgorithm = defaults.UI.DefaultAlgorithm
	}
	if cfg.UI.DefaultPage == "" {
		cfg.UI.DefaultPage = defaults.UI.DefaultPage
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Export
	if cfg.Export.CertificateDir == "" {
		cfg.Export.CertificateDir = defaults.Export.CertificateDir
	}
	if cfg.Export.LedgerPath == "" {
		cfg.Export.LedgerPath = defaults.Export.LedgerPath
	}

	// Log
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# cryptodesk configuration file")
	fmt.Fprintln(&buf, "# Generated by cryptodesk - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Service
	if u, err := url.Parse(c.Service.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "service.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Service.BaseURL),
		})
	}
	if c.Service.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "service.timeout_secs",
			Message: "must not be negative",
		})
	}
	if c.Service.MaxResponseBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "service.max_response_bytes",
			Message: "must not be negative",
		})
	}
	if c.Service.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "service.requests_per_second",
			Message: "must not be negative",
		})
	}
	if c.Service.Burst < 0 {
		errs = append(errs, ValidationError{
			Field:   "service.burst",
			Message: "must not be negative",
		})
	}

	// UI
	if _, err := operation.ParseAlgorithm(c.UI.DefaultAlgorithm); err != nil {
		errs = append(errs, ValidationError{
			Field:   "ui.default_algorithm",
			Message: fmt.Sprintf("invalid algorithm '%s', must be one of: rsa, elgamal", c.UI.DefaultAlgorithm),
		})
	}
	validPages := map[string]bool{"encrypt": true, "decrypt": true, "verify": true}
	if !validPages[strings.ToLower(c.UI.DefaultPage)] {
		errs = append(errs, ValidationError{
			Field:   "ui.default_page",
			Message: fmt.Sprintf("invalid page '%s', must be one of: encrypt, decrypt, verify", c.UI.DefaultPage),
		})
	}
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Service.TimeoutSecs) * time.Second
}

// Algorithm returns the configured default algorithm, or RSA when the
// value does not parse.
func (c *Config) Algorithm() operation.Algorithm {
	alg, err := operation.ParseAlgorithm(c.UI.DefaultAlgorithm)
	if err != nil {
		return operation.AlgorithmRSA
	}
	return alg
}

// ClientConfig returns the HTTP client settings.
func (c *Config) ClientConfig() *api.ClientConfig {
	return &api.ClientConfig{
		BaseURL:           c.Service.BaseURL,
		Timeout:           c.Timeout(),
		MaxResponseSize:   c.Service.MaxResponseBytes,
		RequestsPerSecond: c.Service.RequestsPerSecond,
		Burst:             c.Service.Burst,
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - CRYPTODESK_BASE_URL: overrides service.base_url
//   - CRYPTODESK_ALGORITHM: overrides ui.default_algorithm
//   - CRYPTODESK_TIMEOUT: overrides service.timeout_secs
//   - CRYPTODESK_CERT_DIR: overrides export.certificate_dir
//   - CRYPTODESK_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if baseURL := os.Getenv("CRYPTODESK_BASE_URL"); baseURL != "" {
		c.Service.BaseURL = baseURL
	}

	if alg := os.Getenv("CRYPTODESK_ALGORITHM"); alg != "" {
		c.UI.DefaultAlgorithm = strings.ToLower(alg)
	}

	if timeout := os.Getenv("CRYPTODESK_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.Service.TimeoutSecs = secs
		}
	}

	if dir := os.Getenv("CRYPTODESK_CERT_DIR"); dir != "" {
		c.Export.CertificateDir = dir
	}

	if file := os.Getenv("CRYPTODESK_LOG_FILE"); file != "" {
		c.Log.File = file
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "service.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks key through the struct tree.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"service.base_url",
		"service.timeout_secs",
		"service.max_response_bytes",
		"service.requests_per_second",
		"service.burst",
		"ui.default_algorithm",
		"ui.default_page",
		"ui.theme",
		"export.certificate_dir",
		"export.ledger_path",
		"log.file",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for display.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
