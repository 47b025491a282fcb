package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/devapi"
)

func setup(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(devapi.NewRouter(devapi.NewMemoryStore(), zap.NewNop().Sugar(), "/api"))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	t.Setenv("USERFORM_ROOT", root)
	t.Setenv("USERFORM_API__BASE_URL", srv.URL+"/api")
	return root
}

func TestRun_CreateAndUpdate(t *testing.T) {
	root := setup(t)
	metricsPath := filepath.Join(root, "userform.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-username", "alice", "-email", "alice@x.com", "-password", "abc123",
		"-metrics-file", metricsPath,
	}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("create exit = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "User created successfully!") {
		t.Fatalf("stdout = %q", stdout.String())
	}
	b, err := os.ReadFile(metricsPath)
	if err != nil || !strings.Contains(string(b), "userform_submissions_total") {
		t.Fatalf("metrics textfile: %v\n%s", err, b)
	}

	stdout.Reset()
	code = run([]string{"-id", "1", "-email", "alice@y.org"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("update exit = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "User updated successfully!") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRun_ValidationRejected(t *testing.T) {
	setup(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-username", "bob", "-email", "bob@x.com", "-password", "ab"}, &stdout, &stderr)
	if code != exitRejected {
		t.Fatalf("exit = %d, want %d", code, exitRejected)
	}
	if !strings.Contains(stderr.String(), "password: Password must be at least 6 characters long") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("validation failure produced a notice: %q", stdout.String())
	}
}

func TestRun_ConfigFailure(t *testing.T) {
	t.Setenv("USERFORM_ROOT", t.TempDir())
	t.Setenv("USERFORM_API__BASE_URL", "")

	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != exitSetup {
		t.Fatalf("exit = %d, want %d", code, exitSetup)
	}
}
