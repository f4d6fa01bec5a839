package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go-docman-client/pkg/model"
)

// ServiceName is the fixed service segment of every resolved key.
const ServiceName = "Corp.Api.DocMan"

const (
	InstanceSetting    = "TargetedVoyagerInstance"
	EnvironmentSetting = "TargetedVoyagerEnvironment"
)

// Settings holds the identifiers read from the local settings file.
type Settings struct {
	Instance    string `json:"TargetedVoyagerInstance"`
	Environment string `json:"TargetedVoyagerEnvironment"`
}

// KeySet is the three lookup keys composed from the settings identifiers.
type KeySet struct {
	URL             string
	CertificatePath string
	Password        string
}

func Keys(instance string, environment string) KeySet {
	prefix := instance + "." + environment + "." + ServiceName + "."
	return KeySet{
		URL:             prefix + "Url",
		CertificatePath: prefix + "CertificatePath",
		Password:        prefix + "Password",
	}
}

// Endpoint is the resolved target of one registration.
type Endpoint struct {
	Instance          string
	Environment       string
	Keys              KeySet
	URL               string
	CertificatePath   string
	EncryptedPassword string
}

type Config struct {
	Endpoint

	BasePath       string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	CACertPath     string
	DecryptionKey  string
	LogLevel       string
}

// SettingsPath is DOCMAN_SETTINGS_FILE, or appsettings.json when unset.
func SettingsPath(source Source) string {
	return getEnv(source, "DOCMAN_SETTINGS_FILE", "appsettings.json")
}

// LoadFrom resolves configuration from an explicit settings file and source.
func LoadFrom(settingsPath string, source Source) (*Config, error) {
	settings, err := ReadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	endpoint, err := Resolve(settings, source)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Endpoint:       *endpoint,
		BasePath:       getEnv(source, "DOCMAN_BASE_PATH", "/api/v1"),
		RequestTimeout: getDuration(source, "DOCMAN_REQUEST_TIMEOUT", 30*time.Second),
		RateLimitRPS:   getFloat(source, "DOCMAN_RATE_LIMIT_RPS", 0),
		CACertPath:     getEnv(source, "DOCMAN_CA_CERT_PATH", ""),
		DecryptionKey:  getEnv(source, "DOCMAN_DECRYPTION_KEY", ""),
		LogLevel:       getEnv(source, "DOCMAN_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReadSettings parses the JSON settings file holding the instance and environment identifiers.
func ReadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: read settings file %s: %v", model.ErrConfiguration, path, err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: parse settings file %s: %v", model.ErrConfiguration, path, err)
	}

	return settings, nil
}

// Resolve composes the three keys from settings and looks each one up in source.
// The first missing or empty value is reported by name.
func Resolve(settings Settings, source Source) (*Endpoint, error) {
	instance := strings.TrimSpace(settings.Instance)
	if instance == "" {
		return nil, missing(InstanceSetting)
	}

	environment := strings.TrimSpace(settings.Environment)
	if environment == "" {
		return nil, missing(EnvironmentSetting)
	}

	keys := Keys(instance, environment)
	endpoint := &Endpoint{Instance: instance, Environment: environment, Keys: keys}

	for _, field := range []struct {
		key string
		dst *string
	}{
		{keys.URL, &endpoint.URL},
		{keys.CertificatePath, &endpoint.CertificatePath},
		{keys.Password, &endpoint.EncryptedPassword},
	} {
		value, ok := lookup(source, field.key)
		if !ok {
			return nil, missing(field.key)
		}
		*field.dst = value
	}

	return endpoint, nil
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return missing(c.Keys.URL)
	}

	parsed, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid URL: %v", model.ErrConfiguration, c.Keys.URL, err)
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("%w: %s must use http or https scheme, got: %q", model.ErrConfiguration, c.Keys.URL, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: %s has no host", model.ErrConfiguration, c.Keys.URL)
	}

	if c.CertificatePath == "" {
		return missing(c.Keys.CertificatePath)
	}

	if c.EncryptedPassword == "" {
		return missing(c.Keys.Password)
	}

	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: DOCMAN_BASE_PATH must start with /", model.ErrConfiguration)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: DOCMAN_REQUEST_TIMEOUT must be positive", model.ErrConfiguration)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: DOCMAN_RATE_LIMIT_RPS cannot be negative", model.ErrConfiguration)
	}

	return nil
}

func missing(key string) error {
	return fmt.Errorf("%w: %s is required", model.ErrConfiguration, key)
}

func lookup(source Source, key string) (string, bool) {
	if source == nil {
		return "", false
	}

	v, ok := source.Lookup(key)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)
	return v, v != ""
}

func getEnv(source Source, key string, fallback string) string {
	v, ok := lookup(source, key)
	if !ok {
		return fallback
	}

	return v
}

func getDuration(source Source, key string, fallback time.Duration) time.Duration {
	raw, ok := lookup(source, key)
	if !ok {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getFloat(source Source, key string, fallback float64) float64 {
	raw, ok := lookup(source, key)
	if !ok {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}

	return v
}
