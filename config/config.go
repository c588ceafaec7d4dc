package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/awantoch/familyassign/constants"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by LoadConfig for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is built once at process start and passed by reference to the handler.
// Nothing downstream reads the environment directly.
type Config struct {
	HostSecret string         `json:"host_secret,omitempty" yaml:"host_secret,omitempty"`
	Debug      bool           `json:"debug,omitempty" yaml:"debug,omitempty"`
	Supabase   SupabaseConfig `json:"supabase" yaml:"supabase"`
	RPC        RPCConfig      `json:"rpc" yaml:"rpc"`
	CORS       CORSConfig     `json:"cors" yaml:"cors"`
	Secrets    SecretsConfig  `json:"secrets" yaml:"secrets"`
	Event      EventConfig    `json:"event" yaml:"event"`
	Storage    StorageConfig  `json:"storage" yaml:"storage"`
	HTTP       HTTPConfig     `json:"http" yaml:"http"`
	Log        LogConfig      `json:"log" yaml:"log"`
	Tracing    *TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

type SupabaseConfig struct {
	URL            string `json:"url" yaml:"url"`
	ServiceRoleKey string `json:"service_role_key,omitempty" yaml:"service_role_key,omitempty"`
}

// RPCConfig selects how the remote procedure is reached.
// Driver "rest" goes through the Supabase REST gateway, "postgres" connects to DSN directly.
type RPCConfig struct {
	Driver    string        `json:"driver" yaml:"driver"`
	Schema    string        `json:"schema,omitempty" yaml:"schema,omitempty"`
	DSN       string        `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Procedure string        `json:"procedure,omitempty" yaml:"procedure,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

type SecretsConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

type EventConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type HTTPConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type TracingConfig struct {
	Exporter    string `json:"exporter" yaml:"exporter"`
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// LoadConfig reads a JSON or YAML config file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// FromEnv builds a Config purely from environment lookups.
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{}
	ApplyEnv(cfg, getenv)
	return cfg
}

// ApplyEnv overlays every non-empty environment value onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	// Credentials are taken verbatim; the host secret is compared exactly.
	setSecret := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setSecret(&cfg.HostSecret, constants.EnvHostSecret)
	setString(&cfg.Supabase.URL, constants.EnvSupabaseURL)
	setSecret(&cfg.Supabase.ServiceRoleKey, constants.EnvServiceRoleKey)
	setString(&cfg.RPC.Driver, constants.EnvRPCDriver)
	setString(&cfg.RPC.Schema, constants.EnvRPCSchema)
	setSecret(&cfg.RPC.DSN, constants.EnvDatabaseURL)
	setString(&cfg.Secrets.Driver, constants.EnvSecretsDriver)
	setString(&cfg.Secrets.Region, constants.EnvSecretsRegion)
	setString(&cfg.Secrets.Prefix, constants.EnvSecretsPrefix)
	setString(&cfg.Event.Driver, constants.EnvEventDriver)
	setString(&cfg.Event.URL, constants.EnvEventURL)
	setString(&cfg.Storage.Driver, constants.EnvStorageDriver)
	setString(&cfg.Storage.DSN, constants.EnvStorageDSN)

	if v := getenv(constants.EnvAllowedOrigin); strings.TrimSpace(v) != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	if v := getenv(constants.EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := getenv(constants.EnvRPCTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RPC.Timeout = d
		}
	}
	if exp := strings.TrimSpace(getenv(constants.EnvTracingExporter)); exp != "" {
		if cfg.Tracing == nil {
			cfg.Tracing = &TracingConfig{}
		}
		cfg.Tracing.Exporter = exp
		setString(&cfg.Tracing.Endpoint, constants.EnvTracingEndpoint)
	}
	cfg.applyDefaults()
}

func (c *Config) applyDefaults() {
	if c.RPC.Driver == "" {
		c.RPC.Driver = constants.RPCDriverREST
	}
	if c.RPC.Schema == "" {
		c.RPC.Schema = constants.DefaultRPCSchema
	}
	if c.RPC.Procedure == "" {
		c.RPC.Procedure = constants.ProcGenerateAssignments
	}
	if c.RPC.Timeout <= 0 {
		c.RPC.Timeout = DefaultRPCTimeout
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{constants.CORSWildcard}
	}
}

// MissingBackend reports the backend settings required by the selected RPC
// driver that are not set. An empty result means the backend is configured.
func (c *Config) MissingBackend() []string {
	var missing []string
	switch c.RPC.Driver {
	case constants.RPCDriverPostgres:
		if c.RPC.DSN == "" {
			missing = append(missing, constants.EnvDatabaseURL)
		}
	default:
		if c.Supabase.URL == "" {
			missing = append(missing, constants.EnvSupabaseURL)
		}
		if c.Supabase.ServiceRoleKey == "" {
			missing = append(missing, constants.EnvServiceRoleKey)
		}
	}
	return missing
}

// EnvFlags reports which of the deployment variables are set, never their values.
func (c *Config) EnvFlags() map[string]bool {
	flags := map[string]bool{
		constants.EnvHostSecret:     c.HostSecret != "",
		constants.EnvSupabaseURL:    c.Supabase.URL != "",
		constants.EnvServiceRoleKey: c.Supabase.ServiceRoleKey != "",
	}
	if c.RPC.Driver == constants.RPCDriverPostgres {
		flags[constants.EnvDatabaseURL] = c.RPC.DSN != ""
	}
	return flags
}

// Addr returns the listen address for the local server, or "" when unset.
func (c *Config) Addr() string {
	if c.HTTP.Port == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
