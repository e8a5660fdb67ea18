package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password,omitempty"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

type MetricsConfig struct {
	// Backend is "prometheus", "datadog" or empty for none
	Backend    string `yaml:"backend"`
	PushURL    string `yaml:"push_url"`
	Job        string `yaml:"job"`
	StatsdAddr string `yaml:"statsd_addr"`
	Namespace  string `yaml:"namespace"`
}

type ProjectConfig struct {
	Connection       ConnectionConfig `yaml:"connection"`
	Schema           string           `yaml:"schema"`
	ChunkSize        int              `yaml:"chunk_size"`
	Pattern          string           `yaml:"pattern"`
	Backend          string           `yaml:"backend"`
	SQLitePath       string           `yaml:"sqlite_path"`
	DuplicateColumns string           `yaml:"duplicate_columns"`
	MissingValues    []string         `yaml:"missing_values"`
	AtomicFile       bool             `yaml:"atomic_file"`
	CreateDatabase   bool             `yaml:"create_database"`
	Timeout          string           `yaml:"timeout"`
	Metrics          MetricsConfig    `yaml:"metrics"`
}

const ConfigFileName = "rawload.yaml"

// Load reads rawload.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file from an explicit path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, rawload.ErrInvalidConfig)
	}
	return &cfg, nil
}

// ApplyTo fills the fields of cfg that are still at their zero value.
// Connection settings are resolved separately by the db package.
func (p *ProjectConfig) ApplyTo(cfg *rawload.LoadConfig) error {
	if p == nil {
		return nil
	}
	if cfg.Schema == "" {
		cfg.Schema = p.Schema
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = p.ChunkSize
	}
	if cfg.Pattern == "" {
		cfg.Pattern = p.Pattern
	}
	if cfg.Backend == "" {
		cfg.Backend = rawload.Backend(p.Backend)
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = p.SQLitePath
	}
	if cfg.DuplicatePolicy == "" {
		cfg.DuplicatePolicy = rawload.DuplicatePolicy(p.DuplicateColumns)
	}
	if cfg.MissingValues == nil && p.MissingValues != nil {
		cfg.MissingValues = append([]string(nil), p.MissingValues...)
	}
	cfg.AtomicFile = cfg.AtomicFile || p.AtomicFile
	cfg.CreateDatabase = cfg.CreateDatabase || p.CreateDatabase

	if cfg.Timeout == 0 && p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in %s: %w", p.Timeout, ConfigFileName, rawload.ErrInvalidConfig)
		}
		cfg.Timeout = d
	}
	return nil
}
