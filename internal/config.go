package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	StateDB   StateDBConfig     `yaml:"state_db"`
	Reader    ReaderConfig      `yaml:"reader"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.StateDB.Validate(); err != nil {
		return err
	}
	if err := c.Reader.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
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

// WorkspaceConfig holds workspace behaviour settings. InitialDocument, when
// set, is opened on startup unless a persisted session already has an
// active tab.
type WorkspaceConfig struct {
	InitialDocument  string `yaml:"initial_document"`
	MaxRecentEntries int    `yaml:"max_recent_entries"`
}

// StateDBConfig holds the path to the SQLite workspace-state database.
type StateDBConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the state database configuration.
func (c *StateDBConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ReaderConfig holds the initial render preferences.
type ReaderConfig struct {
	PerformanceMode     bool `yaml:"performance_mode"`
	CountLinkText       bool `yaml:"count_link_text"`
	CountCodeBlocks     bool `yaml:"count_code_blocks"`
	CountFrontMatter    bool `yaml:"count_front_matter"`
	ReloadQuietPeriodMs int  `yaml:"reload_quiet_period_ms"`
}

// Validate validates the reader configuration.
func (c *ReaderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ReloadQuietPeriodMs, validation.Min(0)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
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
		StateDB: StateDBConfig{
			Path: "./lectern.db",
		},
		Reader: ReaderConfig{
			CountLinkText: true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
