package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "15m" decode; yaml.v3
// only handles integer nanoseconds for time.Duration out of the box.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration value %q", value.Value)
	}
	*d = Duration(ns)
	return nil
}

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Uploads   UploadsConfig     `yaml:"uploads"`
	Auth      AuthConfig        `yaml:"auth"`
	Bootstrap BootstrapConfig   `yaml:"bootstrap"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Uploads.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Bootstrap.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// UploadsConfig holds the path to the document upload directory.
type UploadsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds token issuance configuration.
//
// JWTSecret signs access tokens and must be supplied via the
// environment (the config file references it as ${CADASTR_JWT_SECRET}).
type AuthConfig struct {
	JWTSecret  string   `yaml:"jwt_secret"`
	AccessTTL  Duration `yaml:"access_ttl"`
	RefreshTTL Duration `yaml:"refresh_ttl"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.AccessTTL <= 0 {
		c.AccessTTL = Duration(15 * time.Minute)
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = Duration(30 * 24 * time.Hour)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(16, 0)),
	)
}

// BootstrapConfig optionally seeds an admin profile on startup.
// Both fields empty means no seeding; admins cannot sign themselves up.
type BootstrapConfig struct {
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// Validate validates the bootstrap configuration.
func (c *BootstrapConfig) Validate() error {
	if c.AdminEmail == "" && c.AdminPassword == "" {
		return nil
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.AdminEmail, validation.Required, is.Email),
	); err != nil {
		return err
	}
	if len(c.AdminPassword) < 8 {
		return fmt.Errorf("bootstrap: admin_password must be at least 8 characters")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./cadastr.db",
		},
		Uploads: UploadsConfig{
			Path: "./uploads",
		},
		Auth: AuthConfig{
			AccessTTL:  Duration(15 * time.Minute),
			RefreshTTL: Duration(30 * 24 * time.Hour),
		},
	}
}
