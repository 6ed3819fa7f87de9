package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"autofix/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	cachePath  string
}

const testRows = "year,make,model,problem\n" +
	"2015,Honda,Civic,Alternator whine\n" +
	"2012,Ford,F-150,Won't start\n" +
	"2018,Honda,Accord,Weird smell\n"

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("BITLY_TOKEN", "")

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "autofix.toml"),
		outputDir:  filepath.Join(base, "site"),
		cachePath:  filepath.Join(base, ".autofix", "links.db"),
	}
	testsupport.WriteText(t, filepath.Join(base, "data", "problems.csv"), testRows)
	testsupport.WriteText(t, env.configPath, `
site_name = "Instant Auto Fix"
amazon_tag = "tag-20"
ebay_cid = "5338"
carparts_pid = "pid9"
enable_bitly = false

[paths]
data_file = "data/problems.csv"
output_dir = "site"
cache_path = ".autofix/links.db"

[build]
og_images = false

[logging]
level = "warn"
`)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
