package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize(baseDir string) error {
	c.normalizeSite()
	c.normalizeShortener()
	if err := c.normalizePaths(baseDir); err != nil {
		return err
	}
	c.normalizeBuild()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSite() {
	c.SiteName = strings.TrimSpace(c.SiteName)
	if c.SiteName == "" {
		c.SiteName = defaultSiteName
	}
	c.SiteDescription = strings.TrimSpace(c.SiteDescription)
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	c.BrandColor = strings.TrimSpace(c.BrandColor)
	if c.BrandColor == "" {
		c.BrandColor = defaultBrandColor
	}
	c.AccentColor = strings.TrimSpace(c.AccentColor)
	if c.AccentColor == "" {
		c.AccentColor = defaultAccentColor
	}
	c.MechanicCTAURL = strings.TrimSpace(c.MechanicCTAURL)
	if c.MechanicCTAURL == "" {
		c.MechanicCTAURL = defaultMechanicCTAURL
	}
	c.AmazonTag = strings.TrimSpace(c.AmazonTag)
	c.EbayCID = strings.TrimSpace(c.EbayCID)
	c.CarpartsPID = strings.TrimSpace(c.CarpartsPID)
	c.ContactEmail = strings.TrimSpace(c.ContactEmail)
	c.AnalyticsGoogleTag = strings.TrimSpace(c.AnalyticsGoogleTag)
	c.AnalyticsCloudflareToken = strings.TrimSpace(c.AnalyticsCloudflareToken)
}

func (c *Config) normalizeShortener() {
	if value, ok := os.LookupEnv("BITLY_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.BitlyToken = value
	}
	c.BitlyToken = strings.TrimSpace(c.BitlyToken)
	c.BitlyDomain = strings.TrimSpace(c.BitlyDomain)
	if c.BitlyDomain == "" {
		c.BitlyDomain = defaultBitlyDomain
	}
}

func (c *Config) normalizePaths(baseDir string) error {
	var err error
	if strings.TrimSpace(c.Paths.DataFile) == "" {
		c.Paths.DataFile = defaultDataFile
	}
	if c.Paths.DataFile, err = resolvePath(baseDir, c.Paths.DataFile); err != nil {
		return fmt.Errorf("paths.data_file: %w", err)
	}
	if c.Paths.TemplatesDir, err = resolvePath(baseDir, c.Paths.TemplatesDir); err != nil {
		return fmt.Errorf("paths.templates_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = resolvePath(baseDir, c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	// An empty cache_path disables the link cache.
	if c.Paths.CachePath, err = resolvePath(baseDir, c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if c.Logging.File, err = resolvePath(baseDir, c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeBuild() {
	if c.Build.ShortenerTimeoutSeconds <= 0 {
		c.Build.ShortenerTimeoutSeconds = defaultShortenerTimeoutSeconds
	}
	if c.Build.WatchDebounceMillis <= 0 {
		c.Build.WatchDebounceMillis = defaultWatchDebounceMillis
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
