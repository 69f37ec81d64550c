package config

import (
	"os"
	"testing"
	"time"
)

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected int
	}{
		{
			name:     "valid integer",
			key:      "TEST_INT",
			value:    "42",
			expected: 42,
		},
		{
			name:     "invalid integer falls back",
			key:      "TEST_INT_INVALID",
			value:    "not_a_number",
			expected: 7,
		},
		{
			name:     "unset falls back",
			key:      "TEST_INT_UNSET",
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if got := getenvInt(tt.key, 7); got != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "spaces and quotes",
			input:    ` "start.example.com" , 'home.lan',, localhost:3000 `,
			expected: []string{"start.example.com", "home.lan", "localhost:3000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		value      string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{
			name:       "valid duration",
			key:        "TEST_DURATION",
			value:      "5s",
			defaultVal: 10 * time.Second,
			expected:   5 * time.Second,
		},
		{
			name:       "invalid duration uses default",
			key:        "TEST_DURATION_INVALID",
			value:      "invalid",
			defaultVal: 10 * time.Second,
			expected:   10 * time.Second,
		},
		{
			name:       "unset uses default",
			key:        "TEST_DURATION_UNSET",
			defaultVal: 15 * time.Second,
			expected:   15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.defaultVal)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		value      string
		defaultVal bool
		expected   bool
	}{
		{name: "true value", key: "TEST_BOOL_TRUE", value: "true", expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", defaultVal: true, expected: false},
		{name: "invalid uses default", key: "TEST_BOOL_INVALID", value: "maybe", defaultVal: true, expected: true},
		{name: "unset uses default", key: "TEST_BOOL_UNSET", defaultVal: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if got := mustBool(tt.key, tt.defaultVal); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a developer .env out of the way
	for _, key := range []string{"STARTPAGE_REDIS_ADDR", "STARTPAGE_DATA_FILE", "STARTPAGE_LISTEN_PORT", "STARTPAGE_MAX_BODY_BYTES", "STARTPAGE_BACKUP_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenPort != ":3000" {
		t.Errorf("ListenPort = %q, want :3000", cfg.ListenPort)
	}
	if cfg.DataFile != "data.json" {
		t.Errorf("DataFile = %q, want data.json", cfg.DataFile)
	}
	if cfg.MaxBodyBytes != 5<<20 {
		t.Errorf("MaxBodyBytes = %d, want 5 MiB", cfg.MaxBodyBytes)
	}
	if cfg.CacheEnabled() {
		t.Error("cache should be disabled without STARTPAGE_REDIS_ADDR")
	}
	if cfg.BackupsEnabled() {
		t.Error("backups should be disabled without STARTPAGE_BACKUP_DIR")
	}
	if cfg.BackupKeep != 7 || cfg.BackupInterval != 24*time.Hour {
		t.Errorf("backup defaults = keep %d every %v", cfg.BackupKeep, cfg.BackupInterval)
	}
}

func TestLoadRedisPasswordRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STARTPAGE_REDIS_ADDR", "localhost:6379")
	t.Setenv("STARTPAGE_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("STARTPAGE_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without a redis password")
		}
	}()

	Load()
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(".env", []byte("STARTPAGE_DATA_FILE=/srv/startpage/data.json\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("STARTPAGE_DATA_FILE", "")
	_ = os.Unsetenv("STARTPAGE_DATA_FILE")

	cfg := Load()
	if cfg.DataFile != "/srv/startpage/data.json" {
		t.Errorf("DataFile = %q, want value from .env", cfg.DataFile)
	}
}
