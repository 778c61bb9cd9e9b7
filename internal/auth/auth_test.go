package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetAPIKey_EnvPriority(t *testing.T) {
	tests := []struct {
		name   string
		gemini string
		apiKey string
		want   string
	}{
		{"gemini key wins", "gemini-key", "generic-key", "gemini-key"},
		{"falls back to API_KEY", "", "generic-key", "generic-key"},
		{"trims whitespace", "  padded-key \n", "", "padded-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tt.gemini)
			t.Setenv("API_KEY", tt.apiKey)

			key, err := GetAPIKey()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if key != tt.want {
				t.Errorf("expected key %q, got %q", tt.want, key)
			}
		})
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	if _, err := GetAPIKey(); err == nil {
		t.Error("expected error when no API key source available")
	}
}

func TestGetCredentialPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := getCredentialPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(home, ".ai-headshot-pro", "credentials.gpg")
	if path != expected {
		t.Errorf("expected path %q, got %q", expected, path)
	}
}

func TestGetFromGPGFileNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := getFromGPG(); err == nil {
		t.Error("expected error when credentials file does not exist")
	}
}

func TestPassphraseFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	if _, ok := passphraseFile(); ok {
		t.Fatal("expected no passphrase file")
	}

	dir := filepath.Join(home, ".ai-headshot-pro")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ".gpg-passphrase")

	if err := os.WriteFile(path, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := passphraseFile(); ok {
		t.Error("world-readable passphrase file should be skipped")
	}

	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}
	got, ok := passphraseFile()
	if !ok || got != path {
		t.Errorf("passphraseFile() = %q, %v; want %q, true", got, ok, path)
	}
}
