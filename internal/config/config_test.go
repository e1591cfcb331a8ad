package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "UPLOAD_DIR", "INDEX_PATH", "ALLOWED_ORIGINS", "MAX_PAYLOAD_BYTES", "TLS_CERT_FILE", "TLS_KEY_FILE"} {
		unsetEnv(t, key)
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Addr() != "0.0.0.0:5000" {
		t.Errorf("Expected 0.0.0.0:5000, got %s", cfg.Addr())
	}
	if cfg.UploadDirectory != "uploads" {
		t.Errorf("Expected uploads, got %s", cfg.UploadDirectory)
	}
	if !cfg.IndexEnabled() {
		t.Error("Index should be enabled by default")
	}
	if cfg.TLSEnabled() {
		t.Error("TLS should be disabled by default")
	}
	if cfg.MaxPayloadBytes != 0 {
		t.Errorf("Expected unlimited payload, got %d", cfg.MaxPayloadBytes)
	}
	if !cfg.OriginAllowed("https://example.ngrok.io") {
		t.Error("All origins should be allowed by default")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8443")
	t.Setenv("UPLOAD_DIR", "/srv/uploads")
	t.Setenv("INDEX_PATH", "-")
	t.Setenv("TLS_CERT_FILE", "cert/cert.pem")
	t.Setenv("TLS_KEY_FILE", "cert/key.pem")
	t.Setenv("MAX_PAYLOAD_BYTES", "1048576")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Addr() != "127.0.0.1:8443" {
		t.Errorf("Expected 127.0.0.1:8443, got %s", cfg.Addr())
	}
	if cfg.UploadDirectory != "/srv/uploads" {
		t.Errorf("Expected /srv/uploads, got %s", cfg.UploadDirectory)
	}
	if cfg.IndexEnabled() {
		t.Error("Index should be disabled by INDEX_PATH=-")
	}
	if !cfg.TLSEnabled() {
		t.Error("TLS should be enabled when cert and key are set")
	}
	if cfg.MaxPayloadBytes != 1048576 {
		t.Errorf("Expected 1048576, got %d", cfg.MaxPayloadBytes)
	}
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.Port != 5000 {
		t.Errorf("Expected default port 5000, got %d", cfg.Port)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	unsetEnv(t, "UPLOAD_DIR")
	unsetEnv(t, "ALLOWED_ORIGINS")
	t.Setenv("PORT", "7000")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "UPLOAD_DIR=from-dotenv\nALLOWED_ORIGINS=https://a.example, https://b.example\nPORT=9999\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("UPLOAD_DIR")
		os.Unsetenv("ALLOWED_ORIGINS")
	})

	cfg := Load(envFile)

	if cfg.UploadDirectory != "from-dotenv" {
		t.Errorf("Expected from-dotenv, got %s", cfg.UploadDirectory)
	}
	// Zmienne procesu mają pierwszeństwo przed .env
	if cfg.Port != 7000 {
		t.Errorf("Expected process env port 7000, got %d", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestConfig_OriginAllowed(t *testing.T) {
	cfg := &Config{AllowedOrigins: []string{"https://camera.example"}}

	tests := []struct {
		origin   string
		expected bool
	}{
		{"", true},
		{"https://camera.example", true},
		{"HTTPS://CAMERA.EXAMPLE", true},
		{"https://evil.example", false},
		{"http://camera.example", false},
	}

	for _, tt := range tests {
		if got := cfg.OriginAllowed(tt.origin); got != tt.expected {
			t.Errorf("OriginAllowed(%q) = %v, expected %v", tt.origin, got, tt.expected)
		}
	}
}
