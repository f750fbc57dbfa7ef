package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// authDir returns a config dir holding the given oauth_client.json and
// token.json contents; empty strings skip the file.
func authDir(t *testing.T, client, token string) string {
	t.Helper()
	dir := t.TempDir()
	if client != "" {
		if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte(client), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", config.OAuthClientFile, err)
		}
	}
	if token != "" {
		if err := os.WriteFile(filepath.Join(dir, config.TokenFile), []byte(token), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", config.TokenFile, err)
		}
	}
	return dir
}

func runAuthCommand(ctx context.Context, cmd commands.Command, dir string, quiet bool) (stdout, stderr string, code int) {
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: dir, Quiet: quiet}
	code = cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// TestLoginCommand_NoOAuthClient verifies login explains how to get credentials.
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	stdout, stderr, code := runAuthCommand(context.Background(), &commands.LoginCmd{}, t.TempDir(), false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") || !strings.Contains(stderr, "remote.source: googletasks") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies a usable token short-circuits login.
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	// No expiry: the token source returns it without a refresh round trip.
	dir := authDir(t, testOAuthClient, `{"access_token":"test","token_type":"Bearer","refresh_token":"r"}`)

	stdout, _, code := runAuthCommand(context.Background(), &commands.LoginCmd{}, dir, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
}

// TestLoginCommand_NoRefreshToken verifies login proceeds when the token cannot be refreshed.
func TestLoginCommand_NoRefreshToken(t *testing.T) {
	dir := authDir(t, testOAuthClient, `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`)

	// Cancelled up front so the callback wait returns immediately.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, code := runAuthCommand(ctx, &commands.LoginCmd{}, dir, false)

	if stdout == "already logged in\n" {
		t.Error("should not say 'already logged in' with token missing refresh_token")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

// TestLoginCommand_CorruptToken verifies a corrupt token.json is treated as logged out.
func TestLoginCommand_CorruptToken(t *testing.T) {
	dir := authDir(t, testOAuthClient, `{not json`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, _ := runAuthCommand(ctx, &commands.LoginCmd{}, dir, false)

	if stdout == "already logged in\n" {
		t.Error("should not say 'already logged in' with a corrupt token")
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes token.json.
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := authDir(t, testOAuthClient, `{"access_token":"test","refresh_token":"test"}`)

	stdout, stderr, code := runAuthCommand(context.Background(), &commands.LogoutCmd{}, dir, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, config.OAuthClientFile)); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in.
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, stderr, code := runAuthCommand(context.Background(), &commands.LogoutCmd{}, t.TempDir(), false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in.
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	stdout, _, code := runAuthCommand(context.Background(), &commands.LogoutCmd{}, t.TempDir(), true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}
