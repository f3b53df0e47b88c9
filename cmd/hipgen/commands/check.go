package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/helfem/hipgen/config"
	"github.com/helfem/hipgen/display"
	"github.com/helfem/hipgen/emit"
	"github.com/helfem/hipgen/errors"
	"github.com/helfem/hipgen/logger"
	"github.com/helfem/hipgen/version"
)

var checkStrictVersion bool

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify committed outputs match a fresh render",
	Long: `Render every configured target in memory and compare it against the
file on disk. Version stamp lines are ignored, so a rebuilt generator
alone does not flag identical formulas as stale.

Intended for CI: the command exits non-zero when any output is missing
or differs, with the offending paths listed.

Examples:
  hipgen check                    # Compare all targets
  hipgen check --strict-version   # Also reject incompatible stamps
  hipgen check --json             # Machine-readable result`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().BoolVar(&checkStrictVersion, "strict-version", false,
		"Also fail when an output was stamped by an incompatible generator major version")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadGeneratorConfig(cmd)
	if err != nil {
		return err
	}

	outputDir, err := config.GetOutputDir()
	if err != nil {
		return err
	}

	_, outputs, err := renderTargets(cfg, outputDir)
	if err != nil {
		return err
	}

	result, err := emit.CompareOutputs(outputs)
	if err != nil {
		return err
	}

	if checkStrictVersion {
		checkStampedVersions(outputs, result)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(struct {
			UpToDate    bool                `json:"up_to_date"`
			Differences map[string][]string `json:"differences,omitempty"`
		}{
			UpToDate:    result.UpToDate,
			Differences: result.Differences,
		})
	}

	if result.UpToDate {
		pterm.Success.Printf("Outputs are up to date (%d targets)\n", len(outputs))
		return nil
	}

	stale := 0
	for language, paths := range result.Differences {
		for _, path := range paths {
			pterm.Error.Printf("%s: %s\n", language, path)
			stale++
		}
	}
	return errors.Wrapf(errors.ErrOutOfDate, "%d outputs need regeneration, run 'hipgen generate'", stale)
}

// checkStampedVersions folds incompatible version stamps into the check
// result. Files already flagged stale or missing are left alone.
func checkStampedVersions(outputs []*emit.Output, result *emit.CheckResult) {
	for _, out := range outputs {
		existing, err := os.ReadFile(out.Path)
		if err != nil {
			// Missing files are already reported by the content compare
			continue
		}

		stamp := emit.StampedVersion(existing)
		ok, err := version.Compatible(stamp)
		if err != nil {
			logger.Warnw("Unparseable generator version stamp",
				logger.FieldPath, out.Path,
				"stamp", stamp,
				logger.FieldError, err)
			ok = false
		}
		if !ok {
			result.Differences[out.Language] = append(result.Differences[out.Language],
				out.Path+" (stamped by generator "+stamp+")")
			result.UpToDate = false
		}
	}
}
