package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/rawload/internal/config"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// tableFlags select how source files are discovered and mapped to tables.
// They are shared by load and plan.
type tableFlags struct {
	configPath  string
	backend     string
	sqlitePath  string
	schema      string
	pattern     string
	chunkSize   int
	onDuplicate string
}

func bindTableFlags(cmd *cobra.Command, f *tableFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "",
		"Path to a rawload.yaml file (default: <source_dir>/rawload.yaml if present)")
	flags.StringVar(&f.backend, "backend", "",
		"Database backend: postgres|sqlite (default: postgres)")
	flags.StringVar(&f.sqlitePath, "sqlite-path", "",
		"Database file of the sqlite backend. Other schemas are attached as <name>.<schema>.db")
	flags.StringVar(&f.schema, "schema", "",
		"Schema the tables are created in (default: raw)")
	flags.StringVar(&f.pattern, "pattern", "",
		"Glob matched against file names in the source directory (default: *.csv)")
	flags.IntVar(&f.chunkSize, "chunk-size", 0,
		"Rows per insert transaction (default: 1000)")
	flags.StringVar(&f.onDuplicate, "on-duplicate", "",
		"Columns that normalize to the same name: suffix|error (default: suffix)")
}

// loadProjectConfig loads .env and the project configuration.
// Returns nil config if rawload.yaml does not exist in sourceDir (not an error).
// An explicit configPath must exist.
func loadProjectConfig(sourceDir, configPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if configPath != "" {
		projectCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
		}
		return projectCfg, nil
	}

	projectCfg, err := config.Load(sourceDir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// buildTableConfig applies the table flags over rawload.yaml.
func buildTableConfig(sourceDir string, f tableFlags, projectCfg *config.ProjectConfig, verbose bool) (rawload.LoadConfig, error) {
	cfg := rawload.LoadConfig{
		SourceDir:       sourceDir,
		Pattern:         f.pattern,
		Schema:          f.schema,
		ChunkSize:       f.chunkSize,
		Backend:         rawload.Backend(f.backend),
		SQLitePath:      f.sqlitePath,
		DuplicatePolicy: rawload.DuplicatePolicy(f.onDuplicate),
		Verbose:         verbose,
	}
	if err := projectCfg.ApplyTo(&cfg); err != nil {
		return rawload.LoadConfig{}, err
	}
	return cfg, nil
}

// resolveEffectiveTimeout returns the --timeout flag when set, otherwise the
// value already taken from rawload.yaml.
func resolveEffectiveTimeout(cmd *cobra.Command, flagTimeout, configured time.Duration) time.Duration {
	if cmd.Flags().Changed("timeout") {
		return flagTimeout
	}
	return configured
}
