package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/vango-dev/connect/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var cerr *cerrors.Error
	require.True(t, errors.As(err, &cerr), "expected *errors.Error, got %T", err)
	assert.Equal(t, code, cerr.Code)
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.True(t, cfg.DevMode)
	assert.True(t, cfg.Pure)
	assert.Equal(t, DefaultInspectorAddr, cfg.Inspector.Addr)
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultTracerName, cfg.Tracing.TracerName)
	assert.Equal(t, DefaultSnapshotPrefix, cfg.Snapshot.Prefix)
	assert.False(t, cfg.SnapshotEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ConfigFileName, `{
  "devMode": false,
  "inspector": {"addr": "0.0.0.0:9000", "open": true},
  "metrics": {"subsystem": "demo"},
  "snapshot": {"bucket": "states"}
}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.False(t, cfg.DevMode)
	assert.True(t, cfg.Pure, "unset fields keep defaults")
	assert.Equal(t, "0.0.0.0:9000", cfg.Inspector.Addr)
	assert.True(t, cfg.Inspector.Open)
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, "demo", cfg.Metrics.Subsystem)
	assert.True(t, cfg.SnapshotEnabled())
	assert.Equal(t, DefaultSnapshotPrefix, cfg.Snapshot.Prefix)
}

func TestLoad_YAML(t *testing.T) {
	for _, name := range []string{"connect.yaml", "connect.yml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, name, `
pure: false
tracing:
  tracerName: demo
snapshot:
  bucket: states
  region: eu-west-1
  endpoint: http://localhost:9000
`)
			cfg, err := Load(dir)
			require.NoError(t, err)

			assert.False(t, cfg.Pure)
			assert.True(t, cfg.DevMode)
			assert.Equal(t, "demo", cfg.Tracing.TracerName)
			assert.Equal(t, "eu-west-1", cfg.Snapshot.Region)
			assert.Equal(t, "http://localhost:9000", cfg.Snapshot.Endpoint)
		})
	}
}

func TestLoad_JSONPreferred(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "connect.yaml", "pure: false\n")
	writeFile(t, dir, ConfigFileName, `{"pure": true}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Pure)
	assert.Equal(t, ConfigFileName, filepath.Base(cfg.Path()))
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", ConfigFileName, `{"devMode": `},
		{"yaml", "connect.yaml", "inspector: [1, 2"},
		{"type mismatch", ConfigFileName, `{"pure": "yes"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := LoadFile(path)
			requireCode(t, err, "E120")
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	requireCode(t, err, "E120")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.DevMode = false
			cfg.Snapshot.Bucket = "states"

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, cfg.SaveTo(path))
			assert.Equal(t, path, cfg.Path())

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"CONNECT_DEV_MODE":          "false",
		"CONNECT_INSPECTOR_OPEN":    "1",
		"CONNECT_INSPECTOR_ADDR":    "localhost:8000",
		"CONNECT_METRICS_NAMESPACE": "app",
		"CONNECT_SNAPSHOT_BUCKET":   "states",
		"CONNECT_TRACER_NAME":       "tracer",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.DevMode)
	assert.True(t, cfg.Pure)
	assert.True(t, cfg.Inspector.Open)
	assert.Equal(t, "localhost:8000", cfg.Inspector.Addr)
	assert.Equal(t, "app", cfg.Metrics.Namespace)
	assert.Equal(t, "states", cfg.Snapshot.Bucket)
	assert.Equal(t, "tracer", cfg.Tracing.TracerName)
}

func TestApplyEnv_BadBool(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(envMap(map[string]string{"CONNECT_PURE": "sometimes"}))
	requireCode(t, err, "E121")
	assert.Contains(t, err.Error(), "CONNECT_PURE")
	assert.True(t, cfg.Pure)
}

func TestApplyEnv_None(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, New(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port only", func(c *Config) { c.Inspector.Addr = ":7331" }, true},
		{"missing port", func(c *Config) { c.Inspector.Addr = "localhost" }, false},
		{"bad namespace", func(c *Config) { c.Metrics.Namespace = "my-app" }, false},
		{"bad subsystem", func(c *Config) { c.Metrics.Subsystem = "1st" }, false},
		{"subsystem", func(c *Config) { c.Metrics.Subsystem = "demo" }, true},
		{"endpoint", func(c *Config) { c.Snapshot.Endpoint = "http://localhost:9000" }, true},
		{"relative endpoint", func(c *Config) { c.Snapshot.Endpoint = "localhost:9000/x" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			requireCode(t, err, "E121")
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, `{"metrics": {"subsystem": "file"}}`)
	writeFile(t, dir, EnvFileName, "CONNECT_METRICS_SUBSYSTEM=dotenv\nCONNECT_SNAPSHOT_BUCKET=from_dotenv\n")
	t.Setenv("CONNECT_SNAPSHOT_BUCKET", "from_env")

	cfg, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "dotenv", cfg.Metrics.Subsystem, ".env overrides the file")
	assert.Equal(t, "from_env", cfg.Snapshot.Bucket, "process env overrides .env")
	_, leaked := os.LookupEnv("CONNECT_METRICS_SUBSYSTEM")
	assert.False(t, leaked, ".env must not modify the process environment")
}

func TestResolve_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONNECT_INSPECTOR_ADDR", "nowhere")

	_, err := Resolve(dir)
	requireCode(t, err, "E121")
}

func TestInspectorURL(t *testing.T) {
	cfg := New()
	assert.Equal(t, "http://127.0.0.1:7331/", cfg.InspectorURL())
}
