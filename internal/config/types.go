package config

import (
	"github.com/lumen-studio/site-core/internal/pkg/mail"
	"github.com/lumen-studio/site-core/internal/pkg/s3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Paths          PathsConfig    `yaml:"paths"`
}

// DatabaseConfig selects the SQL backend. SQLite keeps development and
// tests self-contained; MySQL is the production target.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "mysql" | "sqlite"
	DSN    string `yaml:"dsn"`
}

type PathsConfig struct {
	Static string `yaml:"static"`
}

func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// SiteConfig is the mutable site configuration stored in the options
// table (key "configs") and edited through the admin API.
type SiteConfig struct {
	SEO    SEOConfig     `json:"seo"`
	URL    URLConfig     `json:"url"`
	Mail   mail.Config   `json:"mail"`
	Upload UploadOptions `json:"upload"`
}

type SEOConfig struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type URLConfig struct {
	WebURL  string `json:"web_url"`
	APIBase string `json:"api_base"`
}

// UploadOptions bounds image uploads and optionally routes them to an
// S3-compatible image bed instead of the local static directory.
type UploadOptions struct {
	MaxSizeMB      int        `json:"max_size_mb"`
	AllowedFormats string     `json:"allowed_formats"`
	UseS3          bool       `json:"use_s3"`
	S3             s3.Options `json:"s3"`
}

// DefaultSiteConfig returns the configuration used until the admin edits it.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SEO: SEOConfig{Title: "Lumen Studio"},
		Upload: UploadOptions{
			MaxSizeMB:      2,
			AllowedFormats: "jpg,jpeg,png,webp,gif",
		},
	}
}
