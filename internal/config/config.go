package config

import (
	"encoding/json"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/connect/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "connect.json"

	// EnvFileName is the dotenv file read by Resolve.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CONNECT_"

	// DefaultInspectorAddr is the default devtools listen address.
	DefaultInspectorAddr = "127.0.0.1:7331"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "connect"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "github.com/vango-dev/connect"

	// DefaultSnapshotPrefix is the default object key prefix for snapshots.
	DefaultSnapshotPrefix = "snapshots"
)

// FileNames lists the configuration files Load looks for, in order.
var FileNames = []string{ConfigFileName, "connect.yaml", "connect.yml"}

// Config is the complete configuration.
type Config struct {
	// DevMode enables generation checks on connected components.
	DevMode bool `json:"devMode" yaml:"devMode"`

	// Pure enables render and props caching on connected components.
	Pure bool `json:"pure" yaml:"pure"`

	// Inspector configures the devtools server.
	Inspector InspectorConfig `json:"inspector,omitempty" yaml:"inspector,omitempty"`

	// Metrics configures Prometheus metric names.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing configures dispatch tracing.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// Snapshot configures state export to object storage.
	Snapshot SnapshotConfig `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains devtools server settings.
type InspectorConfig struct {
	// Addr is the host:port to listen on.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Open opens the inspector in a browser on start.
	Open bool `json:"open,omitempty" yaml:"open,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// SnapshotConfig contains S3 snapshot settings.
type SnapshotConfig struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		DevMode: true,
		Pure:    true,
		Inspector: InspectorConfig{
			Addr: DefaultInspectorAddr,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Snapshot: SnapshotConfig{
			Prefix: DefaultSnapshotPrefix,
		},
	}
}

// Resolve builds the effective configuration for dir: the first file in
// FileNames (or defaults when there is none), then the .env file in dir,
// then the process environment. The result is validated.
func Resolve(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		return nil, err
	}

	dotenv, err := readEnvFile(filepath.Join(dir, EnvFileName))
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			Wrap(err)
	}
	return vars, nil
}

// Load reads configuration from the first file in FileNames that exists in
// dir. Without a file it returns the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from path. The format follows the file
// extension: .yaml and .yml are YAML, anything else is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + formatName(path)).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills values a file cleared explicitly.
func (c *Config) applyDefaults() {
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// ApplyEnv overrides fields from CONNECT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	strs := map[string]*string{
		"INSPECTOR_ADDR":    &c.Inspector.Addr,
		"METRICS_NAMESPACE": &c.Metrics.Namespace,
		"METRICS_SUBSYSTEM": &c.Metrics.Subsystem,
		"TRACER_NAME":       &c.Tracing.TracerName,
		"SNAPSHOT_BUCKET":   &c.Snapshot.Bucket,
		"SNAPSHOT_PREFIX":   &c.Snapshot.Prefix,
		"SNAPSHOT_REGION":   &c.Snapshot.Region,
		"SNAPSHOT_ENDPOINT": &c.Snapshot.Endpoint,
	}
	for key, field := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*field = v
		}
	}

	bools := map[string]*bool{
		"DEV_MODE":       &c.DevMode,
		"PURE":           &c.Pure,
		"INSPECTOR_OPEN": &c.Inspector.Open,
	}
	for key, field := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.New("E121").
				WithMessage("%s%s must be a boolean, got %q", EnvPrefix, key, v).
				Wrap(err)
		}
		*field = b
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return errors.New("E121").
			WithMessage("inspector.addr %q is not a host:port address", c.Inspector.Addr).
			Wrap(err)
	}
	if !model.IsValidMetricName(model.LabelValue(c.Metrics.Namespace)) {
		return errors.New("E121").
			WithMessage("metrics.namespace %q is not a valid metric name", c.Metrics.Namespace)
	}
	if c.Metrics.Subsystem != "" && !model.IsValidMetricName(model.LabelValue(c.Metrics.Subsystem)) {
		return errors.New("E121").
			WithMessage("metrics.subsystem %q is not a valid metric name", c.Metrics.Subsystem)
	}
	if c.Snapshot.Endpoint != "" {
		u, err := url.Parse(c.Snapshot.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("E121").
				WithMessage("snapshot.endpoint %q is not an absolute URL", c.Snapshot.Endpoint)
		}
	}
	return nil
}

// SnapshotEnabled reports whether a snapshot bucket is configured.
func (c *Config) SnapshotEnabled() bool {
	return c.Snapshot.Bucket != ""
}

// InspectorURL returns the browser URL of the inspector.
func (c *Config) InspectorURL() string {
	return "http://" + c.Inspector.Addr + "/"
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
