package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	models "mediafolders/internal/domain/models/mediafolders"
)

func TestLoad_TablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{env: "dev", want: "dev_"},
		{env: "test", want: "test_"},
		{env: "prod", want: "prod_"},
		{env: "staging", want: "dev_"},
		{env: "prod", override: "wp_", want: "wp_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			t.Setenv("TABLE_PREFIX", tt.override)

			if got := Load().TablePrefix; got != tt.want {
				t.Errorf("TablePrefix = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("REQUIRED_CAPABILITY", "")
	t.Setenv("DEBUG_LOG", "")
	t.Setenv("DEBUG_LOG_MAX_SIZE_MB", "not-a-number")

	cfg := Load()
	if cfg.RequiredCapability != "upload_files" {
		t.Errorf("RequiredCapability = %q", cfg.RequiredCapability)
	}
	if cfg.DebugLog {
		t.Error("debug log should default to off in prod")
	}
	if cfg.DebugLogMaxSizeMB != 10 {
		t.Errorf("DebugLogMaxSizeMB = %d, want fallback 10", cfg.DebugLogMaxSizeMB)
	}
}

func TestLoad_DebugLogOffByDefault(t *testing.T) {
	for _, env := range []string{"", "dev", "test", "prod"} {
		t.Run("env="+env, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", env)
			t.Setenv("DEBUG_LOG", "")

			if Load().DebugLog {
				t.Error("debug log enabled without DEBUG_LOG=true")
			}
		})
	}

	t.Setenv("DEBUG_LOG", "true")
	if !Load().DebugLog {
		t.Error("DEBUG_LOG=true did not enable the debug log")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "complete dev config", cfg: Config{Environment: "dev", DatabaseURL: "postgres://x", JWTSecret: "s"}},
		{name: "missing database", cfg: Config{Environment: "dev", JWTSecret: "s"}, wantErr: "DATABASE_URL"},
		{name: "missing auth", cfg: Config{Environment: "dev", DatabaseURL: "postgres://x"}, wantErr: "JWKS_URL or JWT_SECRET"},
		{name: "prod needs jwks", cfg: Config{Environment: "prod", DatabaseURL: "postgres://x", JWTSecret: "s"}, wantErr: "JWKS_URL is required in prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := Config{CORSOrigins: "http://a.test, http://b.test,,"}
	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("AllowedOrigins() = %v", got)
	}
}

func TestDefaultSettings(t *testing.T) {
	settings, err := DefaultSettings()
	if err != nil {
		t.Fatalf("DefaultSettings() failed: %v", err)
	}
	want := models.Settings{
		EnableDragDrop:     true,
		ShowFolderCount:    true,
		DefaultFolder:      0,
		ShowUncategorized:  true,
		FolderTreeExpanded: true,
		EnableModalFilter:  true,
	}
	if settings != want {
		t.Errorf("DefaultSettings() = %+v, want %+v", settings, want)
	}
}

func TestParseSettings_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "enable_drag_drop: true\nshow_everything: true\n",
		"negative folder":  "default_folder: -2\n",
		"wrong value type": "enable_drag_drop: [1, 2]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSettings([]byte(doc)); err == nil {
				t.Errorf("ParseSettings(%q) expected error", doc)
			}
		})
	}
}

func TestDebugLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	log, err := NewDebugLog(path, 1, 2)
	if err != nil {
		t.Fatalf("NewDebugLog() failed: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	if got, err := log.Tail(10); err != nil || got != "" {
		t.Fatalf("Tail() on missing file = %q, %v", got, err)
	}

	for _, line := range []string{"one", "two", "three"} {
		if _, err := log.Write([]byte(line + "\n")); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}

	got, err := log.Tail(2)
	if err != nil {
		t.Fatalf("Tail() failed: %v", err)
	}
	if got != "two\nthree" {
		t.Errorf("Tail(2) = %q", got)
	}

	all, _ := log.Tail(0)
	if all != "one\ntwo\nthree" {
		t.Errorf("Tail(0) = %q", all)
	}

	if err := log.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if got, _ := log.Tail(10); got != "" {
		t.Errorf("Tail() after Clear = %q", got)
	}

	// Writing after Clear reopens the file
	log.Write([]byte("four\n"))
	if got, _ := log.Tail(10); got != "four" {
		t.Errorf("Tail() after reopen = %q", got)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		t.Error("log file missing after write")
	}
}

func TestNewLogger_TeesIntoDebugLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	debugLog, err := NewDebugLog(path, 1, 1)
	if err != nil {
		t.Fatalf("NewDebugLog() failed: %v", err)
	}
	t.Cleanup(func() { debugLog.Close() })

	var stdout strings.Builder
	logger := NewLogger(&Config{Environment: "dev"}, &stdout, debugLog)
	logger.Debug("folder created", "folder_id", 7)

	if !strings.Contains(stdout.String(), `"folder_id":7`) {
		t.Errorf("stdout = %q", stdout.String())
	}
	tail, _ := debugLog.Tail(1)
	if !strings.Contains(tail, `"msg":"folder created"`) {
		t.Errorf("debug log = %q", tail)
	}

	var quiet strings.Builder
	NewLogger(&Config{Environment: "prod"}, &quiet, nil).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("prod logger wrote debug record: %q", quiet.String())
	}
}
