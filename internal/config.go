package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NoGitEnv disables version-control integration entirely when set.
const NoGitEnv = "WERKBANK_NO_GIT"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Git     GitConfig         `yaml:"git"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
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

// HTTPConfig holds the serve-mode HTTP configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig describes where the record store lives and how its
// sub-areas and file extensions are named.
type StorageConfig struct {
	// Path is the base path; it may start with "~" or be relative.
	Path string `yaml:"path"`
	// BaseDir is the storage subdirectory under Path.
	BaseDir    string           `yaml:"base_dir"`
	Dirs       DirsConfig       `yaml:"dirs"`
	Extensions ExtensionsConfig `yaml:"extensions"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.BaseDir, validation.Required),
	)
}

// DirsConfig names the four sub-areas of the store.
type DirsConfig struct {
	Working   string `yaml:"working"`
	Archive   string `yaml:"archive"`
	Templates string `yaml:"templates"`
	Extras    string `yaml:"extras"`
}

// ExtensionsConfig names the record and template file extensions,
// without dots.
type ExtensionsConfig struct {
	Project  string `yaml:"project"`
	Template string `yaml:"template"`
}

// GitConfig controls the version-control side-channel.
type GitConfig struct {
	Enabled bool `yaml:"enabled"`
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
		Storage: StorageConfig{
			Path:    "~",
			BaseDir: "werkbank",
			Dirs: DirsConfig{
				Working:   "working",
				Archive:   "archive",
				Templates: "templates",
				Extras:    "extras",
			},
			Extensions: ExtensionsConfig{
				Project:  "yml",
				Template: "tyml",
			},
		},
		Git: GitConfig{
			Enabled: true,
		},
	}
}
