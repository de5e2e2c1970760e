package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Admin   AdminConfig       `yaml:"admin"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	return c.Admin.Validate()
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

// ContentConfig holds the paths of the published site.
//
// DataFile is the collection document the reader side loads and watches.
// SiteDir is the static site root; it is served as-is and receives image
// uploads under images/.
type ContentConfig struct {
	DataFile string `yaml:"data_file"`
	SiteDir  string `yaml:"site_dir"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataFile, validation.Required),
	)
}

// AdminConfig holds the editor credentials. The admin API is mounted only
// when both fields are set; leaving them empty runs the reader side alone.
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	if (c.Username == "") != (c.PasswordHash == "") {
		return fmt.Errorf("admin: username and password_hash must be set together")
	}
	if c.PasswordHash != "" {
		return validation.ValidateStruct(c,
			validation.Field(&c.PasswordHash, validation.Length(64, 64)),
		)
	}
	return nil
}

// Enabled returns true when the admin API should be mounted.
func (c *AdminConfig) Enabled() bool {
	return c.Username != "" && c.PasswordHash != ""
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
		Content: ContentConfig{
			DataFile: "./site/data/blog-posts.json",
			SiteDir:  "./site",
		},
	}
}
