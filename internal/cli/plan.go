package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/rawload/internal/files/filesystem"
	"github.com/vvka-141/rawload/internal/logging"
	"github.com/vvka-141/rawload/internal/services"
	"github.com/vvka-141/rawload/internal/storage"
)

var planCmd = &cobra.Command{
	Use:   "plan <source_dir>",
	Short: "Show the tables a load would create, without connecting",
	Long: `Plan reads and infers every source file like load does and prints the
CREATE TABLE statement of each table in the dialect of --backend.
No database is contacted.

Examples:
  rawload plan ./data
  rawload plan ./data --backend sqlite --schema staging
  rawload plan ./data --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

type planFlagValues struct {
	table tableFlags
	json  bool
}

var planFlags planFlagValues

func init() {
	rootCmd.AddCommand(planCmd)

	bindTableFlags(planCmd, &planFlags.table)
	planCmd.Flags().BoolVar(&planFlags.json, "json", false, "Output the plan as JSON")
}

func runPlan(cmd *cobra.Command, args []string) error {
	sourceDir := args[0]
	verbose := getVerboseFlag(cmd)

	projectCfg, err := loadProjectConfig(sourceDir, planFlags.table.configPath)
	if err != nil {
		return err
	}
	cfg, err := buildTableConfig(sourceDir, planFlags.table, projectCfg, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	svc := services.NewExtractionService(storage.Open, filesystem.NewOSFileSystem(), logger, nil)

	plan, err := svc.Plan(cfg)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	if planFlags.json {
		return writePlanJSON(cmd.OutOrStdout(), plan)
	}
	return writePlanText(cmd.OutOrStdout(), plan)
}

type plannedColumn struct {
	Label      string `json:"label"`
	Identifier string `json:"identifier"`
	Type       string `json:"type"`
	Layout     string `json:"layout,omitempty"`
}

type plannedTable struct {
	Source  string          `json:"source"`
	Table   string          `json:"table"`
	Rows    int             `json:"rows"`
	Columns []plannedColumn `json:"columns"`
	DDL     string          `json:"ddl"`
}

func writePlanJSON(w io.Writer, plan []services.PlannedTable) error {
	tables := make([]plannedTable, 0, len(plan))
	for _, p := range plan {
		t := plannedTable{
			Source: p.Source.Name,
			Table:  p.Table.QualifiedName(),
			Rows:   p.Rows,
			DDL:    p.DDL,
		}
		for _, c := range p.Table.Columns {
			t.Columns = append(t.Columns, plannedColumn{
				Label:      c.Label,
				Identifier: c.Identifier,
				Type:       c.Type.String(),
				Layout:     c.Layout,
			})
		}
		tables = append(tables, t)
	}

	result := map[string]interface{}{
		"total_files": len(plan),
		"plan":        tables,
	}
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

func writePlanText(w io.Writer, plan []services.PlannedTable) error {
	for _, p := range plan {
		if _, err := fmt.Fprintf(w, "-- %s -> %s (%d rows)\n%s;\n\n",
			p.Source.Name, p.Table.QualifiedName(), p.Rows, p.DDL); err != nil {
			return err
		}
	}
	return nil
}
