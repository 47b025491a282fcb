// internal/config/loader_test.go
//
// Unit-tests for the layered loader.  Every test pins USERFORM_ROOT to a
// temp dir so a developer's conf/ never leaks in.
//
// Run: go test ./internal/config -v

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func withRoot(t *testing.T, yamlSrc string) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(rootEnv, root)
	if yamlSrc != "" {
		if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(root, "conf", yamlName), []byte(yamlSrc), 0o644); err != nil {
			t.Fatalf("write yaml: %v", err)
		}
	}
	return root
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	withRoot(t, "")
	t.Setenv("USERFORM_API__BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("Load succeeded without api.base_url")
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	root := withRoot(t, "")
	t.Setenv("USERFORM_API__BASE_URL", "http://localhost:3000/api")
	t.Setenv("USERFORM_API__TIMEOUT", "5s")
	t.Setenv("USERFORM_FORM__SURFACE_LOAD_ERRORS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:3000/api" || cfg.API.Timeout != 5*time.Second {
		t.Fatalf("api = %+v", cfg.API)
	}
	if !cfg.Form.SurfaceLoadErrors {
		t.Fatalf("surface_load_errors not applied")
	}
	if cfg.Paths.Root != root {
		t.Fatalf("root = %q, want %q", cfg.Paths.Root, root)
	}
	if Get() != cfg {
		t.Fatalf("Get() does not return the published config")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	withRoot(t, `
api:
  base_url: http://yaml.example/api
  timeout: 2s
form:
  definition: conf/user.yaml
devapi:
  listen_addr: 127.0.0.1:8081
`)
	t.Setenv("USERFORM_API__BASE_URL", "https://env.example/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example/api" {
		t.Fatalf("env did not override yaml: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 2*time.Second || cfg.Form.Definition != "conf/user.yaml" {
		t.Fatalf("yaml values lost: %+v", cfg)
	}
	if cfg.DevAPI.ListenAddr != "127.0.0.1:8081" || cfg.DevAPI.Prefix != "/api" {
		t.Fatalf("devapi = %+v", cfg.DevAPI)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	withRoot(t, "api: [unclosed\n")
	if _, err := Load(); err == nil {
		t.Fatalf("Load accepted malformed yaml")
	}
}

func TestLoadDevAPI_IgnoresClientSection(t *testing.T) {
	withRoot(t, "")
	cfg, err := LoadDevAPI()
	if err != nil {
		t.Fatalf("LoadDevAPI: %v", err)
	}
	if cfg.DevAPI.ListenAddr != "localhost:3000" {
		t.Fatalf("default listen addr = %q", cfg.DevAPI.ListenAddr)
	}

	t.Setenv("USERFORM_DEVAPI__LISTEN_ADDR", "not an addr")
	if _, err := LoadDevAPI(); err == nil {
		t.Fatalf("LoadDevAPI accepted a bad listen addr")
	}
}
