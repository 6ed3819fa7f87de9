package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"autofix/internal/config"
	"autofix/internal/dataset"
	"autofix/internal/linkcache"
	"autofix/internal/render"
	"autofix/internal/shortener"
)

// bitlyCheckTimeout bounds the token check.
const bitlyCheckTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputLocation passes when path is a writable directory or when the
// nearest existing ancestor is writable so the build can create it.
func CheckOutputLocation(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	check := CheckDirectoryAccess(name, parent)
	if !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s cannot be created: %s", path, check.Detail)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckDataFile verifies that the problem table is readable and carries the
// required columns.
func CheckDataFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	rows, err := dataset.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s rows)", path, humanize.Comma(int64(len(rows))))}
}

// CheckTemplates verifies that template overrides in dir parse. An empty dir
// means the embedded templates are used.
func CheckTemplates(name, dir string) Result {
	if strings.TrimSpace(dir) == "" {
		return Result{Name: name, Passed: true, Detail: "Embedded defaults"}
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a directory)", dir)}
	}
	templates, err := render.LoadTemplates(dir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	var overridden []string
	for _, file := range render.TemplateFiles {
		if templates.Source(file) != "embedded" {
			overridden = append(overridden, file)
		}
	}
	if len(overridden) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no overrides, using embedded)", dir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (overrides: %s)", dir, strings.Join(overridden, ", "))}
}

// CheckLinkCache opens the link cache and reports its size.
func CheckLinkCache(ctx context.Context, name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := linkcache.Open(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("count entries: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s links)", path, humanize.Comma(int64(count)))}
}

// CheckBitly verifies that the token is accepted by the shortening service.
// It uses a 5-second timeout and a single attempt.
func CheckBitly(ctx context.Context, token, domain string, opts ...shortener.Option) Result {
	const name = "Bitly"

	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "missing token (set BITLY_TOKEN)"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, bitlyCheckTimeout)
	defer cancel()

	client := shortener.NewBitly(token, domain, append([]shortener.Option{shortener.WithTimeout(bitlyCheckTimeout)}, opts...)...)
	if err := client.VerifyToken(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Token accepted"}
}

// CheckShortenerFromConfig evaluates link shortening from config and connectivity.
func CheckShortenerFromConfig(ctx context.Context, cfg *config.Config, opts ...shortener.Option) Result {
	const name = "Bitly"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.EnableBitly {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.BitlyToken) == "" {
		return Result{Name: name, Passed: true, Detail: "No token; links stay unshortened"}
	}
	return CheckBitly(ctx, cfg.BitlyToken, cfg.BitlyDomain, opts...)
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "token check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "token check timed out (service unreachable)"
	}
	return err.Error()
}
