package testsupport

import (
	"path/filepath"
	"strings"
	"testing"

	"autofix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory. Network
// shortening and preview images are off; the link cache is disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.AmazonTag = "tag-20"
	cfgVal.EbayCID = "5338"
	cfgVal.CarpartsPID = "pid9"
	cfgVal.EnableBitly = false
	cfgVal.BitlyToken = ""
	cfgVal.Paths.DataFile = filepath.Join(base, "data", "problems.csv")
	cfgVal.Paths.OutputDir = filepath.Join(base, "site")
	cfgVal.Paths.CachePath = ""
	cfgVal.Build.OGImages = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRows writes a data file holding the header and the given rows, each a
// year, make, model, problem quadruple.
func WithRows(rows ...[4]string) ConfigOption {
	return func(b *configBuilder) {
		var sb strings.Builder
		sb.WriteString("year,make,model,problem\n")
		for _, row := range rows {
			sb.WriteString(strings.Join(row[:], ","))
			sb.WriteByte('\n')
		}
		WriteText(b.t, b.cfg.Paths.DataFile, sb.String())
	}
}

// WithLinkCache enables the link cache under the base directory.
func WithLinkCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.CachePath = filepath.Join(b.baseDir, ".autofix", "links.db")
	}
}

// WithOGImages turns on preview image rendering.
func WithOGImages() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Build.OGImages = true
	}
}

// WithTemplatesDir points template overrides at name beneath the base directory.
func WithTemplatesDir(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.TemplatesDir = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
