package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"EXPENSES_DB_PATH", "DB_PATH", "EXPENSES_LOG_LEVEL", "EXPENSES_LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{DBPath: DefaultDBPath, LogLevel: "info", LogFormat: "text"}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "expenses.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/ledger.db\nlog_level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "expenses.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: from-file.db\nlog_format: text\n"), 0o600))

	t.Setenv("EXPENSES_DB_PATH", "from-env.db")
	t.Setenv("EXPENSES_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadPlainDBPathEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DB_PATH", "plain.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plain.db", cfg.DBPath)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			config: Config{DBPath: "expenses.db", LogLevel: "warn", LogFormat: "json"},
		},
		{
			name:        "empty database path",
			config:      Config{DBPath: " ", LogLevel: "info", LogFormat: "text"},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "invalid log level",
			config:      Config{DBPath: "expenses.db", LogLevel: "verbose", LogFormat: "text"},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid log format",
			config:      Config{DBPath: "expenses.db", LogLevel: "info", LogFormat: "xml"},
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}
