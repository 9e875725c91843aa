package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftcatch/internal/collectors"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/internal/storage"
)

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <source>",
		Short: "Capture the schema of a CSV or JSON source",
		Long: `Snapshot infers the column schema of a CSV or JSON source and saves it as a
snapshot file. The source may be a local path, - for stdin, or an s3://,
gs:// or azurerm:// location.

Each column gets the narrowest type covering every value seen (null, int,
float, bool or str) and is nullable when any row leaves it empty.`,
		Example: `  # Snapshot a CSV file into .driftcatch/
  driftcatch snapshot data/users.csv

  # Choose the output path
  driftcatch snapshot data/users.csv -o baseline.json

  # Read JSON from stdin
  curl -s https://api.example.com/users | driftcatch snapshot - -f json -o users.json

  # Store the snapshot in S3
  driftcatch snapshot data/users.csv -o s3://ci-artifacts/schemas/users.json`,
		Args:         exactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSnapshot(cmd, args[0])
		},
	}

	cmd.Flags().StringP("output", "o", "", "snapshot path (default .driftcatch/<source>.snapshot.json)")
	cmd.Flags().StringP("format", "f", "", "source format: csv or json (default from file extension)")

	return cmd
}

func (a *app) runSnapshot(cmd *cobra.Command, source string) error {
	ctx := cmd.Context()
	outPath, _ := cmd.Flags().GetString("output")
	explicit, _ := cmd.Flags().GetString("format")

	format, err := collectors.DetectFormat(source, explicit)
	if err != nil {
		return err
	}

	config := collectors.Config{
		Format: format,
		Path:   source,
		Source: source,
		Clock:  time.Now,
	}

	src, err := openSource(ctx, a.store, cmd.InOrStdin(), source)
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
		config.Reader = src
	}

	snapshot, err := a.registry.Collect(ctx, config)
	if err != nil {
		return err
	}

	if snapshot.ColumnCount() == 0 {
		errors.DisplayWarningTo(cmd.ErrOrStderr(), fmt.Sprintf("%s has no columns", source))
	}

	if outPath == "" {
		outPath = a.store.SnapshotPath(source)
	}
	log := a.log.WithField("path", outPath)

	replaced, err := a.store.Exists(ctx, outPath)
	if err != nil {
		log.WithField("error", err.Error()).Debug("could not check for an existing snapshot")
	}
	if err := a.store.Save(ctx, snapshot, outPath); err != nil {
		return err
	}

	if replaced {
		backups, err := a.store.Backups(outPath)
		switch {
		case err != nil:
			log.WithField("error", err.Error()).Warn("could not list snapshot backups")
		case len(backups) > 0:
			log.WithField("backup", backups[0]).Info("previous snapshot backed up")
		default:
			log.Debug("replaced existing snapshot")
		}
	}
	log.Info("snapshot saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot saved to %s  (%d columns)\n", outPath, snapshot.ColumnCount())
	return nil
}

// openSource returns the reader for stdin or a remote source. Local paths
// return nil and are opened by the collector.
func openSource(ctx context.Context, opener storage.Opener, stdin io.Reader, source string) (io.ReadCloser, error) {
	switch {
	case source == collectors.StdinPath:
		return io.NopCloser(stdin), nil
	case storage.IsRemote(source):
		return opener.Open(ctx, source)
	default:
		return nil, nil
	}
}
