package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytes_Defaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(``))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api/check-url", cfg.Classifier.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 0, cfg.Classifier.Retries)
	assert.Equal(t, "file", cfg.History.Backend)
	assert.Equal(t, "scanHistory", cfg.History.Key)
	assert.Equal(t, 10, cfg.History.Capacity)
	assert.Equal(t, filepath.Join(cfg.History.Dir, "history.db"), cfg.History.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromBytes_Values(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
classifier:
  endpoint: https://classifier.example.com/api/check-url
  timeout: 2s
  retries: 1
  headers:
    X-Gateway-Key: abc
history:
  backend: SQLite
  sqlite_path: /tmp/phishnet/h.db
reports:
  database_url: postgres://u:p@localhost/phishnet
  user_id: 7d3c
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 1, cfg.Classifier.Retries)
	assert.Equal(t, "abc", cfg.Classifier.Headers["X-Gateway-Key"])
	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.Equal(t, "/tmp/phishnet/h.db", cfg.History.SQLitePath)
	assert.Equal(t, "7d3c", cfg.Reports.UserID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := map[string]string{
		"badBackend":  "history:\n  backend: s3\n",
		"relativeURL": "classifier:\n  endpoint: /api/check-url\n",
		"ftpScheme":   "classifier:\n  endpoint: ftp://host/x\n",
		"negRetries":  "classifier:\n  retries: -1\n",
		"negTimeout":  "classifier:\n  timeout: -1s\n",
		"badLevel":    "log:\n  level: loud\n",
		"notYAML":     "classifier: [",
		"negCapacity": "history:\n  capacity: -2\n",
		"bigCapacity": "history:\n  capacity: 11\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromBytes_CapacityBounds(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("history:\n  capacity: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.History.Capacity)

	_, err = LoadFromBytes([]byte("history:\n  capacity: 50\n"))
	require.ErrorContains(t, err, "history.capacity must be between 1 and 10")
}

func TestLoadFromBytes_ZeroTimeoutUsesDefault(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("classifier:\n  timeout: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)

	_, err = LoadFromBytes([]byte("classifier:\n  timeout: -1s\n"))
	require.ErrorContains(t, err, "0 selects the default")
}

func TestLoadFromBytes_PublicHTTPWarns(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("classifier:\n  endpoint: http://classifier.example.com/api\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "classifier.example.com")
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  backend: memory\n"), 0o600))

	t.Setenv("PHISHNET_CLASSIFIER_ENDPOINT", "https://env.example.com/check")
	t.Setenv("PHISHNET_CLASSIFIER_TIMEOUT", "750ms")
	t.Setenv("PHISHNET_USER_ID", "user-42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.History.Backend)
	assert.Equal(t, "https://env.example.com/check", cfg.Classifier.Endpoint)
	assert.Equal(t, 750*time.Millisecond, cfg.Classifier.Timeout)
	assert.Equal(t, "user-42", cfg.Reports.UserID)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.History.Backend)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("PHISHNET_CLASSIFIER_RETRIES", "many")
	_, err := Load("")
	assert.Error(t, err)
}
