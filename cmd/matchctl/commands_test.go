package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	authsvc "github.com/bokk3/dating-app/internal/services/auth"
)

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "matchctl-test-secret")
	t.Setenv("APP_DOTENV", filepath.Join(t.TempDir(), "none.env"))

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "token", "--user", "17", "--ttl", "5m"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute token command: %v", err)
	}

	raw := strings.TrimSpace(stdout.String())
	claims, err := authsvc.NewJWTManager("matchctl-test-secret", 0).Parse(raw)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != 17 || claims.SID == "" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !strings.Contains(stderr.String(), "expires at") {
		t.Fatalf("expected expiry on stderr, got %q", stderr.String())
	}
}

func TestTokenCommandRequiresUser(t *testing.T) {
	t.Setenv("APP_DOTENV", filepath.Join(t.TempDir(), "none.env"))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "token"})

	if err := root.Execute(); err == nil {
		t.Fatalf("expected error without --user")
	}
}
