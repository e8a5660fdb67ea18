package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/rawload/internal/config"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// GranularConnFlags are the libpq-style flags (-h, -p, -U, -d, --sslmode).
// There is no password flag; use $PGPASSWORD or a connection string.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty ignores Database, which may also override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags override AZURE_TENANT_ID and AZURE_CLIENT_ID.
// The client secret is only read from AZURE_CLIENT_SECRET.
// Enabled selects Entra ID even when no tenant or client is configured.
type AzureFlags struct {
	Enabled  bool
	TenantID string
	ClientID string
}

// CloudFlags select AWS or Google IAM authentication.
type CloudFlags struct {
	AWSIAM         bool
	AWSRegion      string
	GoogleIAM      bool
	GoogleInstance string
}

// EnvVars holds the connection environment.
type EnvVars struct {
	RAWLOAD_CONNECTION_STRING string
	DATABASE_URL              string

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string

	AWS_REGION string
}

func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		RAWLOAD_CONNECTION_STRING: os.Getenv("RAWLOAD_CONNECTION_STRING"),
		DATABASE_URL:              os.Getenv("DATABASE_URL"),
		PGHOST:                    os.Getenv("PGHOST"),
		PGPORT:                    os.Getenv("PGPORT"),
		PGUSER:                    os.Getenv("PGUSER"),
		PGPASSWORD:                os.Getenv("PGPASSWORD"),
		PGDATABASE:                os.Getenv("PGDATABASE"),
		PGSSLMODE:                 os.Getenv("PGSSLMODE"),
		AZURE_TENANT_ID:           os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:           os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:       os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:                os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams resolves the target connection.
//
// A connection string is taken from --connection, then $RAWLOAD_CONNECTION_STRING,
// then $DATABASE_URL (the environment strings only when no granular flag is set).
// Otherwise each parameter is resolved as flag > PG* environment > rawload.yaml > default.
// In both paths -d overrides the database. Azure, AWS and Google IAM settings
// then select the authentication method; at most one may be active.
func ResolveConnectionParams(
	connStringFlag string,
	granular *GranularConnFlags,
	azure *AzureFlags,
	cloud *CloudFlags,
	env *EnvVars,
	project *config.ProjectConfig,
) (*rawload.ConnectionConfig, error) {
	if granular == nil {
		granular = &GranularConnFlags{}
	}
	if azure == nil {
		azure = &AzureFlags{}
	}
	if cloud == nil {
		cloud = &CloudFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if project != nil {
		pc = project.Connection
	}

	if connStringFlag != "" && !granular.IsEmpty() {
		return nil, fmt.Errorf("cannot combine --connection with -h, -p, -U or --sslmode: %w", rawload.ErrInvalidConfig)
	}

	connStr := connStringFlag
	if connStr == "" && granular.IsEmpty() {
		connStr = env.RAWLOAD_CONNECTION_STRING
		if connStr == "" {
			connStr = env.DATABASE_URL
		}
	}

	var cfg *rawload.ConnectionConfig
	var err error
	if connStr != "" {
		cfg, err = resolveFromConnectionString(connStr, env)
	} else {
		cfg, err = resolveFromGranularParams(granular, env, pc)
	}
	if err != nil {
		return nil, err
	}
	if granular.Database != "" {
		cfg.Database = granular.Database
	}

	if err := applyCloudAuth(cfg, azure, cloud, env, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveFromConnectionString(connStr string, env *EnvVars) (*rawload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %v: %w", err, rawload.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		cfg.Password = env.PGPASSWORD
	}
	return cfg, nil
}

func resolveFromGranularParams(flags *GranularConnFlags, env *EnvVars, pc config.ConnectionConfig) (*rawload.ConnectionConfig, error) {
	cfg := &rawload.ConnectionConfig{
		AuthMethod:       rawload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", env.PGPORT, rawload.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = firstNonEmpty(env.PGPASSWORD, pc.Password)
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func applyCloudAuth(cfg *rawload.ConnectionConfig, azure *AzureFlags, cloud *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	tenantID := firstNonEmpty(azure.TenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(azure.ClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
	useAzure := azure.Enabled || tenantID != "" || clientID != ""
	useGoogle := cloud.GoogleIAM || cloud.GoogleInstance != ""

	active := 0
	for _, on := range []bool{useAzure, cloud.AWSIAM, useGoogle} {
		if on {
			active++
		}
	}
	if active > 1 {
		return fmt.Errorf("only one of Azure, AWS IAM or Google IAM authentication may be used: %w", rawload.ErrInvalidConfig)
	}

	switch {
	case useAzure:
		cfg.AuthMethod = rawload.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case cloud.AWSIAM:
		cfg.AuthMethod = rawload.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(cloud.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case useGoogle:
		cfg.AuthMethod = rawload.AuthMethodGoogleIAM
		cfg.GoogleInstance = firstNonEmpty(cloud.GoogleInstance, pc.GoogleInstance)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
