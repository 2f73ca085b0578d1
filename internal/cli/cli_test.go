package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pkgscan/pkg/cache"
	"github.com/matzehuels/pkgscan/pkg/config"
	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

const widgetsManifest = `{
  "name": "acme/widgets",
  "description": "Widgets for everyone",
  "version": "1.2.0",
  "license": "MIT",
  "require": {"php": ">=8.1", "acme/core": "^2.0"},
  "require-dev": {"phpunit/phpunit": "^10"}
}`

// testEnv writes a config that keeps the file cache inside a temp dir and
// returns it with that cache dir.
func testEnv(t *testing.T) (cfgPath, cacheDir string) {
	t.Helper()
	dir := t.TempDir()
	cacheDir = filepath.Join(dir, "cache")
	cfgPath = filepath.Join(dir, config.FileName)
	body := fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = %q\n", cacheDir)
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, cacheDir
}

func writeFile(t *testing.T, path, data string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"scan", "inspect", "graph", "serve", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestInspect_JSON(t *testing.T) {
	cfg, _ := testEnv(t)
	manifest := writeFile(t, filepath.Join(t.TempDir(), "composer.json"), widgetsManifest)

	out, err := execute(t, "--config", cfg, "inspect", manifest, "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var pkg packages.Package
	if err := json.Unmarshal([]byte(out), &pkg); err != nil {
		t.Fatalf("output is not a package: %v\n%s", err, out)
	}
	if pkg.Name != "acme/widgets" || pkg.Version != "1.2.0" {
		t.Errorf("package = %s %s", pkg.Name, pkg.Version)
	}
	if got := len(pkg.Dependencies[packages.DependencyDev]); got != 1 {
		t.Errorf("dev dependencies = %d, want 1", got)
	}
	if len(pkg.MetafileLocations) != 1 || pkg.MetafileLocations[0] != manifest {
		t.Errorf("metafile locations = %v", pkg.MetafileLocations)
	}
}

func TestInspect_NotAPackage(t *testing.T) {
	cfg, _ := testEnv(t)
	manifest := writeFile(t, filepath.Join(t.TempDir(), "composer.json"), `{"name": "acme/no-description"}`)

	out, err := execute(t, "--config", cfg, "inspect", manifest, "--json", "--no-cache")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if strings.TrimSpace(out) != "null" {
		t.Errorf("output = %q, want null", out)
	}
}

func TestInspect_Errors(t *testing.T) {
	cfg, _ := testEnv(t)
	dir := t.TempDir()
	malformed := writeFile(t, filepath.Join(dir, "composer.json"), `{"name": `)
	unsupported := writeFile(t, filepath.Join(dir, "package.json"), `{}`)

	tests := []struct {
		path string
		code errors.Code
	}{
		{malformed, errors.ErrCodeInvalidManifest},
		{unsupported, errors.ErrCodeUnsupported},
		{filepath.Join(dir, "missing", "composer.json"), errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			_, err := execute(t, "--config", cfg, "inspect", tt.path, "--no-cache")
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestScan_JSON(t *testing.T) {
	cfg, _ := testEnv(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "composer.json"), widgetsManifest)
	writeFile(t, filepath.Join(root, "libs", "core", "composer.json"),
		`{"name": "acme/core", "description": "Core"}`)
	writeFile(t, filepath.Join(root, "vendor", "x", "y", "composer.json"),
		`{"name": "x/y", "description": "skipped"}`)
	writeFile(t, filepath.Join(root, "broken", "composer.json"), `[`)

	out, err := execute(t, "--config", cfg, "scan", root, "--json", "--no-cache", "-w", "2")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var report scan.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not a report: %v\n%s", err, out)
	}
	var names []string
	for _, p := range report.Packages {
		names = append(names, p.Name)
	}
	if len(names) != 2 {
		t.Fatalf("packages = %v, want acme/widgets and acme/core", names)
	}
	if len(report.Errors) != 1 || report.Errors[0].Code != errors.ErrCodeInvalidManifest {
		t.Errorf("errors = %+v, want one INVALID_MANIFEST", report.Errors)
	}
	if report.ID == "" {
		t.Error("report should have an ID")
	}
}

func TestScan_FlagConflict(t *testing.T) {
	cfg, _ := testEnv(t)
	_, err := execute(t, "--config", cfg, "scan", t.TempDir(), "--json", "--interactive")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestScan_StoreNeedsURI(t *testing.T) {
	cfg, _ := testEnv(t)
	_, err := execute(t, "--config", cfg, "scan", t.TempDir(), "--json", "--store", "--no-cache")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestGraph_DOT(t *testing.T) {
	cfg, _ := testEnv(t)
	manifest := writeFile(t, filepath.Join(t.TempDir(), "composer.json"), widgetsManifest)

	out, err := execute(t, "--config", cfg, "graph", manifest, "--dot", "--dev", "--no-cache")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	for _, want := range []string{"digraph G {", `"acme/widgets"`, `"acme/core"`, `"phpunit/phpunit"`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %s:\n%s", want, out)
		}
	}
}

func TestGraph_NoPackages(t *testing.T) {
	cfg, _ := testEnv(t)
	_, err := execute(t, "--config", cfg, "graph", t.TempDir(), "--dot", "--no-cache")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestCachePathAndClear(t *testing.T) {
	cfg, cacheDir := testEnv(t)
	manifest := writeFile(t, filepath.Join(t.TempDir(), "composer.json"), widgetsManifest)

	out, err := execute(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", out, cacheDir)
	}

	if _, err := execute(t, "--config", cfg, "inspect", manifest, "--json"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if countFiles(t, cacheDir) == 0 {
		t.Fatal("inspect should populate the cache")
	}

	if _, err := execute(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n := countFiles(t, cacheDir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
}

func TestInvalidConfig(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), config.FileName), "[scan]\nworkerz = 3\n")
	_, err := execute(t, "--config", path, "cache", "path")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.Config)
		want string
	}{
		{"file", func(c *config.Config) { c.Cache.Dir = "/var/cache/pkgscan" }, "/var/cache/pkgscan"},
		{"redis", func(c *config.Config) { c.Cache.Backend = config.BackendRedis; c.Cache.RedisAddr = "cache:6379" }, "redis://cache:6379"},
		{"none", func(c *config.Config) { c.Cache.Backend = config.BackendNone }, "(disabled)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.cfg(cfg)
			if got := cacheLocation(cfg); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportTable(t *testing.T) {
	r := testReport(2)
	r.Packages[1].MetafileLocations = []string{"/src/lib/composer.json"}

	out := reportTable(r)
	for _, want := range []string{"acme/pkg00", "acme/pkg01", "MIT", "1 / 0", filepath.Join("lib", "composer.json")} {
		if !strings.Contains(out, want) {
			t.Errorf("report table missing %q:\n%s", want, out)
		}
	}
}

func TestPackageView(t *testing.T) {
	name, email := "Jane Doe", "jane@example.org"
	p := &packages.Package{
		Type:          "phpcomposer",
		Name:          "acme/widgets",
		Version:       "1.2.0",
		Summary:       "Widgets for everyone",
		VCSTool:       packages.VCSGit,
		VCSRepository: "https://github.com/acme/widgets",
		Authors:       []packages.Party{{Type: packages.PartyPerson, Name: &name, Email: &email}, {Type: packages.PartyPerson}},
	}
	p.AddDependencies(packages.DependencyDev, []packages.Dependency{{Name: "phpunit/phpunit", VersionConstraint: "^10"}})

	out := packageView(p)
	for _, want := range []string{
		"Widgets for everyone",
		"pkg:composer/acme/widgets@1.2.0",
		"https://github.com/acme/widgets (git)",
		"Jane Doe <jane@example.org>",
		"(anonymous)",
		"Dev dependencies (1)",
		"phpunit/phpunit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("package view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Dependencies (") {
		t.Error("runtime dependency heading should be omitted when empty")
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Errorf("completion %s: %v", shell, err)
			continue
		}
		if !strings.Contains(out, "pkgscan") {
			t.Errorf("completion %s should mention the program name", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shells should be rejected")
	}
}

func TestNewScanner_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone
	cfg.Cache.Namespace = "billing"
	cfg.Scan.Workers = 3
	cfg.Scan.FollowSymlinks = true

	s := newScanner(context.Background(), cfg, false)
	defer s.Cache.Close()

	if s.Workers != 3 || !s.FollowSymlinks {
		t.Errorf("scanner = workers %d, symlinks %v", s.Workers, s.FollowSymlinks)
	}
	if got := s.Keyer.ResultKey("phpcomposer", "abc"); got != "billing:result:v1:phpcomposer:abc" {
		t.Errorf("ResultKey() = %q", got)
	}
}

func TestNewScanner_UnreachableRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendRedis
	cfg.Cache.RedisAddr = "127.0.0.1:1"

	s := newScanner(context.Background(), cfg, false)
	defer s.Cache.Close()
	if _, ok := s.Cache.(*cache.NullCache); !ok {
		t.Errorf("cache = %T, want a NullCache fallback", s.Cache)
	}
}
