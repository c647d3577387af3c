package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sydlexius/plexlogos/internal/image"
	"github.com/sydlexius/plexlogos/internal/logging"
	"github.com/sydlexius/plexlogos/internal/provider/fanarttv"
)

// Config holds all settings for one run. It is built once at startup and
// passed to the components that need it.
type Config struct {
	Plex    PlexConfig     `yaml:"plex"`
	Fanart  FanartConfig   `yaml:"fanart"`
	Image   ImageConfig    `yaml:"image"`
	Output  OutputConfig   `yaml:"output"`
	Logging logging.Config `yaml:"logging"`
}

// PlexConfig holds media server connection settings.
type PlexConfig struct {
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	LibraryName string `yaml:"library_name"`
}

// FanartConfig holds art catalog settings.
type FanartConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	// FuzzyThreshold (0-100) rejects catalog entries whose artist name scores
	// below it against the library title. Zero disables the check.
	FuzzyThreshold int `yaml:"fuzzy_threshold"`
}

// ImageConfig is the output image size policy.
type ImageConfig struct {
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
	MaxSize int    `yaml:"max_size"`
}

// OutputConfig controls optional local artifacts of a run.
type OutputConfig struct {
	ImageDir  string `yaml:"image_dir"`
	ReportDir string `yaml:"report_dir"`
	LogDir    string `yaml:"log_dir"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Plex: PlexConfig{
			LibraryName: "Music",
		},
		Fanart: FanartConfig{
			BaseURL: fanarttv.DefaultBaseURL,
		},
		Image: ImageConfig{
			Format:  image.FormatJPEG,
			Quality: image.DefaultJPEGQuality,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load builds the configuration. Sources from lowest to highest precedence:
// defaults, the YAML file at path (if it exists), the dotenv file at envFile
// (if it exists; it never overrides variables already set), and the process
// environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if envFile != "" {
		if err := loadDotEnv(envFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func (c *Config) loadFromEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	var errs []error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}

	setString("PLEX_URL", &c.Plex.URL)
	setString("PLEX_TOKEN", &c.Plex.Token)
	setString("LIBRARY_NAME", &c.Plex.LibraryName)
	setString("FANART_API_KEY", &c.Fanart.APIKey)
	setString("FANART_BASE_URL", &c.Fanart.BaseURL)
	setInt("FUZZY_THRESHOLD", &c.Fanart.FuzzyThreshold)
	setString("IMAGE_FORMAT", &c.Image.Format)
	setInt("IMAGE_QUALITY", &c.Image.Quality)
	setInt("IMAGE_MAX_SIZE", &c.Image.MaxSize)
	setString("OUTPUT_DIR", &c.Output.ImageDir)
	setString("REPORT_DIR", &c.Output.ReportDir)
	setString("LOG_DIR", &c.Output.LogDir)
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FORMAT", &c.Logging.Format)

	return errors.Join(errs...)
}

func (c *Config) validate() error {
	var errs []error

	if c.Plex.URL == "" {
		errs = append(errs, errors.New("PLEX_URL is required"))
	} else if u, err := url.Parse(c.Plex.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PLEX_URL %q is not an absolute URL", c.Plex.URL))
	}
	if c.Plex.Token == "" {
		errs = append(errs, errors.New("PLEX_TOKEN is required"))
	}
	if c.Fanart.APIKey == "" {
		errs = append(errs, errors.New("FANART_API_KEY is required"))
	}
	if strings.TrimSpace(c.Plex.LibraryName) == "" {
		errs = append(errs, errors.New("LIBRARY_NAME must not be empty"))
	}
	if c.Fanart.FuzzyThreshold < 0 || c.Fanart.FuzzyThreshold > 100 {
		errs = append(errs, fmt.Errorf("FUZZY_THRESHOLD must be 0-100, got %d", c.Fanart.FuzzyThreshold))
	}

	c.Image.Format = strings.ToLower(c.Image.Format)
	if c.Image.Format == "jpg" {
		c.Image.Format = image.FormatJPEG
	}
	if !image.ValidOutputFormat(c.Image.Format) {
		errs = append(errs, fmt.Errorf("IMAGE_FORMAT must be jpeg or png, got %q", c.Image.Format))
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		errs = append(errs, fmt.Errorf("IMAGE_QUALITY must be 1-100, got %d", c.Image.Quality))
	}
	if c.Image.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("IMAGE_MAX_SIZE must not be negative, got %d", c.Image.MaxSize))
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if !logging.ValidFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of text, json", c.Logging.Format))
	}

	c.Plex.URL = strings.TrimRight(c.Plex.URL, "/")
	c.Fanart.BaseURL = strings.TrimRight(c.Fanart.BaseURL, "/")

	return errors.Join(errs...)
}

// Redacted returns a copy safe to log: secrets are masked.
func (c *Config) Redacted() Config {
	out := *c
	out.Plex.Token = mask(out.Plex.Token)
	out.Fanart.APIKey = mask(out.Fanart.APIKey)
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
