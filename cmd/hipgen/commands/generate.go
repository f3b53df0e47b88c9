package commands

import (
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/helfem/hipgen/config"
	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/emit/cpp"
	"github.com/helfem/hipgen/emit/golang"
	"github.com/helfem/hipgen/emit/markdown"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/logger"
	"github.com/helfem/hipgen/version"
)

var (
	generateOutputDir  string
	generateMaxOrder   int
	generateTableDepth int
	generateDryRun     bool
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render all configured targets",
	Long: `Render every configured output from the derivative table.

The table is expanded once to generator.table_depth, dispatch arms are
assembled for orders 0 through generator.max_order-1, and each target
renders the same assembled model in its own language.

Examples:
  hipgen generate                  # Render configured targets
  hipgen generate --dry-run        # Show what would be written
  hipgen generate --max-order 6    # Shorter dispatch for this run
  hipgen generate -o /tmp/out      # Redirect the output directory`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", "", "Output directory (default: generator.output_dir)")
	GenerateCmd.Flags().IntVar(&generateMaxOrder, "max-order", 0, "Override the number of dispatch arms")
	GenerateCmd.Flags().IntVar(&generateTableDepth, "table-depth", 0, "Override the derivative table depth")
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Render without writing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	started := time.Now()
	runID := uuid.New().String()
	verbosity, _ := cmd.Flags().GetCount("verbose")

	cfg, err := loadGeneratorConfig(cmd)
	if err != nil {
		return err
	}

	outputDir := generateOutputDir
	if outputDir == "" {
		outputDir, err = config.GetOutputDir()
		if err != nil {
			return err
		}
	}

	if logger.ShouldOutput(verbosity, logger.OutputStartup) {
		pterm.Info.Printf("hipgen %s\n", version.Version)
		pterm.Info.Printf("Verbosity: %s\n", logger.LevelName(verbosity))
	}

	logger.Infow("Starting generation",
		logger.FieldRunID, runID,
		"max_order", cfg.Generator.MaxOrder,
		logger.FieldTableDepth, cfg.Generator.TableDepth,
		"targets", len(cfg.GetTargets()),
		"output_dir", outputDir)

	model, outputs, err := renderTargets(cfg, outputDir)
	if err != nil {
		return err
	}

	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		pterm.Info.Printf("Assembled %d dispatch arms in %s\n",
			len(model.Cases), time.Since(started).Round(time.Millisecond))
	}
	if logger.ShouldOutput(verbosity, logger.OutputTableStats) {
		for _, c := range model.Cases {
			pterm.Printf("  order %d: %d terms, coefficient mass %d\n",
				c.Order, c.Cur.Set.Len(), c.Cur.Set.Mass())
		}
	}
	if logger.ShouldLogTrace(verbosity) {
		for _, c := range model.Cases {
			pterm.Printf("  d%d value column: %s\n", c.Order, c.Value)
			pterm.Printf("  d%d slope column: %s\n", c.Order, c.Slope)
		}
	}
	if logger.ShouldLogAll(verbosity) {
		for _, c := range model.Cases {
			pterm.Printf("  d%d[g^2] = %s\n", c.Order, c.Cur.Set)
		}
	}

	if generateDryRun {
		pterm.Warning.Println("DRY RUN MODE: no files will be written")
		for _, out := range outputs {
			pterm.Info.Printf("Would write %s (%s, %d bytes)\n", out.Path, out.Language, len(out.Content))
		}
		return nil
	}

	for i, out := range outputs {
		if err := out.Write(); err != nil {
			return err
		}
		logger.Debugw("Wrote target",
			logger.FieldRunID, runID,
			logger.FieldPath, out.Path,
			logger.FieldLang, out.Language,
			logger.FieldSize, len(out.Content))

		if err := runFormatter(cfg.GetTargets()[i], out.Path); err != nil {
			return err
		}

		pterm.Info.Printf("Generated %s (%s)\n", out.Path, out.Language)
	}

	pterm.Success.Printf("Rendered %d targets in %s\n",
		len(outputs), time.Since(started).Round(time.Millisecond))
	pterm.Printf("  Dispatch arms: %d\n", model.DispatchLimit)
	pterm.Printf("  Table depth:   %d\n", model.TableDepth)

	logger.Infow("Generation complete",
		logger.FieldRunID, runID,
		"targets", len(outputs),
		logger.FieldDurationMS, time.Since(started).Milliseconds())
	return nil
}

// loadGeneratorConfig loads the config and applies generation flag
// overrides on a copy, so the cached config stays intact.
func loadGeneratorConfig(cmd *cobra.Command) (*config.Config, error) {
	loaded, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading configuration")
	}

	cfg := *loaded
	if cmd.Flags().Changed("max-order") {
		cfg.Generator.MaxOrder = generateMaxOrder
	}
	if cmd.Flags().Changed("table-depth") {
		cfg.Generator.TableDepth = generateTableDepth
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// renderTargets builds the model once and renders every configured
// target against it.
func renderTargets(cfg *config.Config, outputDir string) (*emit.Model, []*emit.Output, error) {
	model, err := emit.BuildModel(cfg.Generator.MaxOrder, cfg.Generator.TableDepth)
	if err != nil {
		return nil, nil, err
	}

	targets := cfg.GetTargets()
	outputs := make([]*emit.Output, 0, len(targets))
	for _, target := range targets {
		g, err := newGenerator(target)
		if err != nil {
			return nil, nil, err
		}

		out, err := emit.Render(g, model, target.OutputPath(outputDir))
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, out)
	}
	return model, outputs, nil
}

// newGenerator maps a configured target onto its language generator.
// New languages register here.
func newGenerator(target config.TargetConfig) (emit.Generator, error) {
	switch target.Language {
	case "cpp":
		return cpp.NewGenerator(cpp.Options{
			Namespace: target.Namespace,
			Class:     target.Class,
			Function:  target.Function,
			Primitive: target.Primitive,
		}), nil
	case "go":
		return golang.NewGenerator(golang.Options{
			Package:   target.Package,
			Function:  target.Function,
			Interface: target.Interface,
		}), nil
	case "markdown":
		return markdown.NewGenerator(markdown.Options{
			Title: target.Title,
		}), nil
	}
	return nil, errors.NewUnknownLanguage(target.Language)
}

// runFormatter runs the target's format_cmd on the written file, with
// the file path appended as the last argument.
func runFormatter(target config.TargetConfig, path string) error {
	if target.FormatCmd == "" {
		return nil
	}

	// Parse args respecting quotes (like shell does)
	words, err := shellquote.Split(target.FormatCmd)
	if err != nil {
		return errors.Wrapf(err, "parsing format_cmd %q", target.FormatCmd)
	}
	if len(words) == 0 {
		return nil
	}

	format := exec.Command(words[0], append(words[1:], path)...)
	format.Stdout = os.Stdout
	format.Stderr = os.Stderr
	if err := format.Run(); err != nil {
		return errors.Wrapf(err, "format_cmd %q on %s", target.FormatCmd, path)
	}
	return nil
}
