package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	if c.Notifications.NtfyTopic != "" {
		if err := validateAbsoluteURL(c.Notifications.NtfyTopic); err != nil {
			return fmt.Errorf("notifications.ntfy_topic: %w", err)
		}
	}
	return nil
}

func (c *Config) validateSite() error {
	if strings.TrimSpace(c.SiteName) == "" {
		return errors.New("site_name must be set")
	}
	if c.PublicBaseURL != "" {
		if err := validateAbsoluteURL(c.PublicBaseURL); err != nil {
			return fmt.Errorf("public_base_url: %w", err)
		}
	}
	if c.MechanicCTAURL != "" {
		if err := validateAbsoluteURL(c.MechanicCTAURL); err != nil {
			return fmt.Errorf("mechanic_cta_url: %w", err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataFile) == "" {
		return errors.New("paths.data_file must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.ShortenerTimeoutSeconds <= 0 {
		return errors.New("build.shortener_timeout_seconds must be positive")
	}
	if c.Build.BitlyRequestsPerSecond < 0 {
		return errors.New("build.bitly_requests_per_second must be >= 0")
	}
	if c.Build.WatchDebounceMillis <= 0 {
		return errors.New("build.watch_debounce_ms must be positive")
	}
	return nil
}

func validateAbsoluteURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
