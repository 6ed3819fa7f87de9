package config

const (
	defaultSiteName                = "Instant Auto Fix"
	defaultSiteDescription         = "Fast DIY car problem guides with parts links and quick fixes."
	defaultBrandColor              = "#0f172a"
	defaultAccentColor             = "#22c55e"
	defaultMechanicCTAURL          = "https://www.repairpal.com/estimator"
	defaultAmazonTag               = "YOUR_AMAZON_TAG"
	defaultEbayCID                 = "YOUR_EBAY_CAMPAIGN_ID"
	defaultCarpartsPID             = "YOUR_CARPARTS_PID"
	defaultContactEmail            = "you@example.com"
	defaultBitlyDomain             = "bit.ly"
	defaultDataFile                = "data/problems.csv"
	defaultOutputDir               = "site"
	defaultCachePath               = ".autofix/links.db"
	defaultShortenerTimeoutSeconds = 10
	defaultWatchDebounceMillis     = 500
	defaultNotifyTimeoutSeconds    = 10
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		SiteName:        defaultSiteName,
		SiteDescription: defaultSiteDescription,
		BrandColor:      defaultBrandColor,
		AccentColor:     defaultAccentColor,
		MechanicCTAURL:  defaultMechanicCTAURL,
		AmazonTag:       defaultAmazonTag,
		EbayCID:         defaultEbayCID,
		CarpartsPID:     defaultCarpartsPID,
		ContactEmail:    defaultContactEmail,
		EnableBitly:     true,
		BitlyDomain:     defaultBitlyDomain,
		Paths: Paths{
			DataFile:  defaultDataFile,
			OutputDir: defaultOutputDir,
			CachePath: defaultCachePath,
		},
		Build: Build{
			OGImages:                true,
			ShortenerTimeoutSeconds: defaultShortenerTimeoutSeconds,
			WatchDebounceMillis:     defaultWatchDebounceMillis,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeoutSeconds,
			BuildCompleted: true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
