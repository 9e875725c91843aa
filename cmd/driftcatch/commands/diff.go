package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftcatch/internal/differ"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/internal/output"
)

func newDiffCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two schema snapshots",
		Long: `Diff compares two snapshots and lists every column change with its severity.

Severities:
  BREAKING  column removed, type changed, or nullable column made required
  WARNING   required column made nullable
  INFO      column added

Diff always exits 0; use 'driftcatch check' to fail a pipeline.`,
		Example: `  # Plain text report
  driftcatch diff base.json head.json

  # Machine-readable report
  driftcatch diff base.json head.json --format json

  # Only show what needs attention
  driftcatch diff base.json head.json --min-severity warning

  # Git-style views
  driftcatch diff base.json head.json --format stat
  driftcatch diff base.json head.json --format name-only`,
		Args:         exactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiff(cmd, args[0], args[1])
		},
	}

	cmd.Flags().String("format", "", "report format: text, json, yaml, markdown, name-only, stat (default from output.format)")
	cmd.Flags().String("min-severity", string(differ.SeverityInfo), "hide changes below this severity: INFO, WARNING, BREAKING")

	return cmd
}

func (a *app) runDiff(cmd *cobra.Command, oldPath, newPath string) error {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		name = a.cfg.Output.Format
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return errors.UsageError(err.Error())
	}
	minName, _ := cmd.Flags().GetString("min-severity")
	minSeverity, err := differ.ParseSeverity(minName)
	if err != nil {
		return errors.UsageError(err.Error())
	}

	report, err := a.compare(cmd.Context(), oldPath, newPath)
	if err != nil {
		return err
	}
	if minSeverity != differ.SeverityInfo {
		report.Changes = differ.FilterMinSeverity(report.Changes, minSeverity)
		report.Summary = differ.Summarize(report.Changes)
		report.HasBreaking = differ.HasBreaking(report.Changes)
	}

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(format, a.colorFor(out))
	if err := formatter.Write(out, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// compare loads both snapshots and diffs them
func (a *app) compare(ctx context.Context, oldPath, newPath string) (*differ.Report, error) {
	oldSnap, err := a.store.Load(ctx, oldPath)
	if err != nil {
		return nil, err
	}
	newSnap, err := a.store.Load(ctx, newPath)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"old":         oldPath,
		"new":         newPath,
		"old_columns": oldSnap.ColumnCount(),
		"new_columns": newSnap.ColumnCount(),
	}).Debug("comparing snapshots")

	return differ.NewDifferEngine().Compare(oldSnap, newSnap)
}
