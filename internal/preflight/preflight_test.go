package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autofix/internal/shortener"
	"autofix/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputLocation(t *testing.T) {
	base := t.TempDir()
	result := CheckOutputLocation("out", filepath.Join(base, "a", "b", "site"))
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable output, got %+v", result)
	}

	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckOutputLocation("out", filepath.Join(blocker, "site")); result.Passed {
		t.Fatalf("expected failure beneath a file, got %+v", result)
	}
	if result := CheckOutputLocation("out", ""); result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckDataFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	testsupport.WriteText(t, good, "year,make,model,problem\n2015,Honda,Civic,Rough idle\n")
	result := CheckDataFile("data", good)
	if !result.Passed || !strings.Contains(result.Detail, "(1 rows)") {
		t.Fatalf("unexpected result %+v", result)
	}

	bad := filepath.Join(dir, "bad.csv")
	testsupport.WriteText(t, bad, "year,make\n")
	if result := CheckDataFile("data", bad); result.Passed || !strings.Contains(result.Detail, "model") {
		t.Fatalf("expected missing column failure, got %+v", result)
	}
	if result := CheckDataFile("data", filepath.Join(dir, "absent.csv")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
	if result := CheckDataFile("data", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
}

func TestCheckTemplates(t *testing.T) {
	if result := CheckTemplates("tpl", ""); !result.Passed {
		t.Fatalf("embedded templates should pass: %+v", result)
	}
	dir := t.TempDir()
	testsupport.WriteText(t, filepath.Join(dir, "style.css"), "body{}")
	result := CheckTemplates("tpl", dir)
	if !result.Passed || !strings.Contains(result.Detail, "style.css") {
		t.Fatalf("unexpected result %+v", result)
	}
	testsupport.WriteText(t, filepath.Join(dir, "page.html"), "{{.Title")
	if result := CheckTemplates("tpl", dir); result.Passed {
		t.Fatal("expected parse failure")
	}
	if result := CheckTemplates("tpl", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing dir")
	}
}

func TestCheckLinkCache(t *testing.T) {
	if result := CheckLinkCache(context.Background(), "cache", ""); !result.Passed || result.Detail != "Disabled" {
		t.Fatalf("unexpected disabled result %+v", result)
	}
	path := filepath.Join(t.TempDir(), "cache", "links.db")
	result := CheckLinkCache(context.Background(), "cache", path)
	if !result.Passed || !strings.Contains(result.Detail, "(0 links)") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func bitlyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/user" || r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"login":"me"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckBitly(t *testing.T) {
	srv := bitlyServer(t)
	if result := CheckBitly(context.Background(), "good", "bit.ly", shortener.WithEndpoint(srv.URL)); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result := CheckBitly(context.Background(), "bad", "bit.ly", shortener.WithEndpoint(srv.URL)); result.Passed {
		t.Fatal("expected failure for rejected token")
	}
	if result := CheckBitly(context.Background(), " ", "bit.ly"); result.Passed {
		t.Fatal("expected failure for missing token")
	}
}

func TestCheckShortenerFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckShortenerFromConfig(context.Background(), cfg); !result.Passed || result.Detail != "Disabled" {
		t.Fatalf("unexpected disabled result %+v", result)
	}
	cfg.EnableBitly = true
	if result := CheckShortenerFromConfig(context.Background(), cfg); !result.Passed {
		t.Fatalf("missing token should not fail the build: %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	srv := bitlyServer(t)
	cfg := testsupport.NewConfig(t,
		testsupport.WithRows([4]string{"2015", "Honda", "Civic", "Rough idle"}),
		testsupport.WithLinkCache(),
	)
	cfg.EnableBitly = true
	cfg.BitlyToken = "good"

	results := RunAll(context.Background(), cfg, shortener.WithEndpoint(srv.URL))
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg.BitlyToken = "bad"
	if !Failed(RunAll(context.Background(), cfg, shortener.WithEndpoint(srv.URL))) {
		t.Fatal("expected a failure with a rejected token")
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("nil config should produce no results")
	}
}
