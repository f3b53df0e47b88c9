package commands

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helfem/hipgen/config"
	"github.com/helfem/hipgen/display"
	"github.com/helfem/hipgen/expand"
)

var (
	tableDepth  int
	tableFormat string
	tableVerify bool
)

// TableCmd represents the table command
var TableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect the derivative term table",
	Long: `Print the expansion of d^n[g^2] for every table level.

Each level lists the canonical derivative pairs (i, j) of the single
factor with their coefficients. The general Leibniz rule pins every
coefficient in closed form, which --verify cross-checks against the
product-rule construction.

Examples:
  hipgen table                 # Print the configured table
  hipgen table --depth 4       # Only the first five levels
  hipgen table --format json   # Machine-readable dump
  hipgen table --verify        # Cross-check against the closed form`,
	RunE: runTable,
}

func init() {
	TableCmd.Flags().IntVar(&tableDepth, "depth", 0, "Table depth (default: generator.table_depth)")
	TableCmd.Flags().StringVar(&tableFormat, "format", "pretty", "Output format: pretty, toml, json, yaml")
	TableCmd.Flags().BoolVar(&tableVerify, "verify", false, "Cross-check coefficients against the closed form")
}

// tableTerm is one canonical pair of a serialized table level
type tableTerm struct {
	I     int `json:"i" toml:"i" yaml:"i"`
	J     int `json:"j" toml:"j" yaml:"j"`
	Coeff int `json:"coeff" toml:"coeff" yaml:"coeff"`
}

// tableLevel is one serialized derivative order
type tableLevel struct {
	Order     int         `json:"order" toml:"order" yaml:"order"`
	Mass      int         `json:"mass" toml:"mass" yaml:"mass"`
	Expansion string      `json:"expansion" toml:"expansion" yaml:"expansion"`
	Terms     []tableTerm `json:"terms" toml:"terms" yaml:"terms"`
}

// tableDocument is the full serialized table
type tableDocument struct {
	Depth  int          `json:"depth" toml:"depth" yaml:"depth"`
	Levels []tableLevel `json:"levels" toml:"levels" yaml:"levels"`
}

func runTable(cmd *cobra.Command, args []string) error {
	depth := config.DefaultTableDepth
	if cfg, err := config.Load(); err == nil {
		depth = cfg.Generator.TableDepth
	}
	if cmd.Flags().Changed("depth") {
		depth = tableDepth
	}

	table, err := expand.Build(depth)
	if err != nil {
		return err
	}

	if tableVerify {
		if err := table.Verify(); err != nil {
			pterm.Error.Printf("Table verification failed: %v\n", err)
			return err
		}
		pterm.Success.Printf("All %d levels match the closed-form coefficients\n", table.Depth()+1)
		return nil
	}

	switch tableFormat {
	case "pretty":
		for _, set := range table.Sets() {
			pterm.Printf("%s %s\n",
				pterm.LightCyan(fmt.Sprintf("d^%-2d[g^2] =", set.Order())),
				set.String())
		}
		pterm.Printf("\n%d levels, coefficient mass doubles per level\n", table.Depth()+1)
		return nil

	case "json":
		return display.OutputJSON(buildTableDocument(table))

	case "toml":
		return toml.NewEncoder(os.Stdout).Encode(buildTableDocument(table))

	case "yaml":
		data, err := yaml.Marshal(buildTableDocument(table))
		if err != nil {
			return fmt.Errorf("failed to marshal table to YAML: %w", err)
		}
		fmt.Print(string(data))
		return nil

	default:
		return fmt.Errorf("unsupported format: %s (supported: pretty, toml, json, yaml)", tableFormat)
	}
}

func buildTableDocument(table *expand.Table) tableDocument {
	doc := tableDocument{
		Depth:  table.Depth(),
		Levels: make([]tableLevel, 0, table.Depth()+1),
	}
	for _, set := range table.Sets() {
		level := tableLevel{
			Order:     set.Order(),
			Mass:      set.Mass(),
			Expansion: set.String(),
			Terms:     make([]tableTerm, 0, set.Len()),
		}
		for _, e := range set.Terms() {
			level.Terms = append(level.Terms, tableTerm{I: e.Term.I, J: e.Term.J, Coeff: e.Coeff})
		}
		doc.Levels = append(doc.Levels, level)
	}
	return doc
}
