package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftcatch/internal/differ"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/internal/output"
)

const pricingURL = "https://driftcatch.dev/pricing"

// gateExitCode is returned when the gate blocks a pipeline
const gateExitCode = 1

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <old> <new>",
		Short: "Fail when the schema has breaking changes",
		Long: `Check diffs two snapshots, prints the report and exits 1 when any change is
BREAKING. Set check.fail_on to WARNING in the config to also block on
columns that became nullable.

Exit codes:
  0   no blocking changes
  1   blocking changes detected
  64+ usage, input or storage errors`,
		Example: `  # Gate a CI job
  driftcatch snapshot data/users.csv -o head.json
  driftcatch check baseline.json head.json`,
		Args:         exactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0], args[1])
		},
	}

	cmd.Flags().String("sarif", "", "export a SARIF report to this path")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, oldPath, newPath string) error {
	failOn, err := differ.ParseSeverity(a.cfg.Check.FailOn)
	if err != nil {
		return errors.ConfigurationError("invalid check.fail_on", err)
	}

	report, err := a.compare(cmd.Context(), oldPath, newPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(output.FormatText, a.colorFor(out))
	if err := formatter.Write(out, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if sarif, _ := cmd.Flags().GetString("sarif"); sarif != "" {
		a.log.WithField("path", sarif).Debug("sarif export requested")
		fmt.Fprintln(out, "\nSARIF export is a DriftCatch Pro feature.")
		fmt.Fprintf(out, "Upgrade at %s\n", pricingURL)
	}

	fmt.Fprintf(out, "\n%s\n", output.GateMessageFor(report.Changes, failOn))
	if differ.HasAtLeast(report.Changes, failOn) {
		return &exitError{code: gateExitCode}
	}
	return nil
}
