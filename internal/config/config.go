package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrNotFound is returned when no configuration file can be located.
var ErrNotFound = errors.New("config file not found")

// Paths contains input and output locations.
type Paths struct {
	DataFile     string `toml:"data_file" yaml:"data_file"`
	TemplatesDir string `toml:"templates_dir" yaml:"templates_dir"`
	OutputDir    string `toml:"output_dir" yaml:"output_dir"`
	CachePath    string `toml:"cache_path" yaml:"cache_path"`
}

// Build contains generation tuning knobs.
type Build struct {
	OGImages                bool    `toml:"og_images" yaml:"og_images"`
	ShortenerTimeoutSeconds int     `toml:"shortener_timeout_seconds" yaml:"shortener_timeout_seconds"`
	BitlyRequestsPerSecond  float64 `toml:"bitly_requests_per_second" yaml:"bitly_requests_per_second"`
	WatchDebounceMillis     int     `toml:"watch_debounce_ms" yaml:"watch_debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
	// File, when set, receives a copy of every log line.
	File string `toml:"file" yaml:"file"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic" yaml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"`
	BuildCompleted bool   `toml:"build_completed" yaml:"build_completed"`
	Errors         bool   `toml:"errors" yaml:"errors"`
}

// Config encapsulates all configuration values for a site build.
//
// The flat keys mirror the operator-facing site settings:
//   - identity: site name, description, base URLs, colours, contact
//   - affiliates: amazon_tag, ebay_cid, carparts_pid
//   - analytics: Google tag and Cloudflare beacon token
//   - shortening: enable_bitly, bitly_token, bitly_domain
type Config struct {
	SiteName                 string `toml:"site_name" yaml:"site_name"`
	SiteDescription          string `toml:"site_description" yaml:"site_description"`
	SiteBaseURL              string `toml:"site_baseurl" yaml:"site_baseurl"`
	PublicBaseURL            string `toml:"public_base_url" yaml:"public_base_url"`
	BrandColor               string `toml:"brand_color" yaml:"brand_color"`
	AccentColor              string `toml:"accent_color" yaml:"accent_color"`
	MechanicCTAURL           string `toml:"mechanic_cta_url" yaml:"mechanic_cta_url"`
	AmazonTag                string `toml:"amazon_tag" yaml:"amazon_tag"`
	EbayCID                  string `toml:"ebay_cid" yaml:"ebay_cid"`
	CarpartsPID              string `toml:"carparts_pid" yaml:"carparts_pid"`
	ContactEmail             string `toml:"contact_email" yaml:"contact_email"`
	AnalyticsGoogleTag       string `toml:"analytics_google_tag" yaml:"analytics_google_tag"`
	AnalyticsCloudflareToken string `toml:"analytics_cloudflare_token" yaml:"analytics_cloudflare_token"`
	EnableBitly              bool   `toml:"enable_bitly" yaml:"enable_bitly"`
	BitlyToken               string `toml:"bitly_token" yaml:"bitly_token"`
	BitlyDomain              string `toml:"bitly_domain" yaml:"bitly_domain"`

	Paths         Paths         `toml:"paths" yaml:"paths"`
	Build         Build         `toml:"build" yaml:"build"`
	Notifications Notifications `toml:"notifications" yaml:"notifications"`
	Logging       Logging       `toml:"logging" yaml:"logging"`
}

// candidateNames are searched, in order, in the working directory when no
// explicit path is given.
var candidateNames = []string{"autofix.toml", "config.toml", "config.yml", "config.yaml"}

// Load locates, parses, and validates a configuration file. It returns the
// config together with the resolved file path. Relative paths inside the file
// are resolved against the file's directory.
func Load(path string) (*Config, string, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := decode(resolved, data, &cfg); err != nil {
		return nil, "", err
	}

	baseDir := filepath.Dir(resolved)
	if err := loadDotEnv(baseDir); err != nil {
		return nil, "", err
	}

	if err := cfg.normalize(baseDir); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrNotFound, expanded)
			}
			return "", fmt.Errorf("stat config: %w", err)
		}
		return expanded, nil
	}

	for _, name := range candidateNames {
		candidate, err := filepath.Abs(name)
		if err != nil {
			return "", err
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: looked for %s in the working directory (create one with 'autofix config init')",
		ErrNotFound, strings.Join(candidateNames, ", "))
}

func loadDotEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat .env: %w", err)
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// EnsureDirectories creates the output tree parents and the link cache directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
	}
	if strings.TrimSpace(c.Paths.CachePath) != "" {
		dir := filepath.Dir(c.Paths.CachePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}
	return nil
}

// ShortenerEnabled reports whether affiliate links should be shortened.
func (c *Config) ShortenerEnabled() bool {
	return c.EnableBitly && strings.TrimSpace(c.BitlyToken) != ""
}

// ShortenerTimeout returns the per-request timeout for the shortening service.
func (c *Config) ShortenerTimeout() time.Duration {
	return time.Duration(c.Build.ShortenerTimeoutSeconds) * time.Second
}

// WatchDebounce returns the quiet period used by build --watch.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Build.WatchDebounceMillis) * time.Millisecond
}

// SiteRoot returns the prefix used for robots.txt and the feed channel link:
// the public base URL, else the site base URL, else "./".
func (c *Config) SiteRoot() string {
	switch {
	case c.PublicBaseURL != "":
		return c.PublicBaseURL + "/"
	case c.SiteBaseURL != "":
		return c.SiteBaseURL + "/"
	default:
		return "./"
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// resolvePath expands ~ and anchors relative paths at base.
func resolvePath(base, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if !strings.HasPrefix(pathValue, "~") && !filepath.IsAbs(pathValue) {
		pathValue = filepath.Join(base, pathValue)
	}
	return expandPath(pathValue)
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
