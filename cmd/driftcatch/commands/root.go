package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yairfalse/driftcatch/internal/collectors"
	_ "github.com/yairfalse/driftcatch/internal/collectors/builtin"
	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/internal/logger"
	"github.com/yairfalse/driftcatch/internal/output"
	"github.com/yairfalse/driftcatch/internal/storage"
	"github.com/yairfalse/driftcatch/pkg/config"
)

// app carries the state shared by every subcommand of one invocation
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	log     logger.Logger

	store    *storage.Router
	registry *collectors.CollectorRegistry
}

// exitError ends the process with a status code and no error display
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCommand builds the driftcatch command tree
func NewRootCommand() *cobra.Command {
	a := &app{
		v:        viper.New(),
		log:      logger.Nop(),
		registry: collectors.DefaultRegistry(),
	}

	rootCmd := &cobra.Command{
		Use:   "driftcatch",
		Short: "Catch schema drift before it catches you",
		Long: `driftcatch detects structural drift between two versions of a CSV or JSON
data source. Take a schema snapshot of each version, then diff them or gate a
CI pipeline on breaking changes.

  driftcatch snapshot data/users.csv -o base.json
  driftcatch snapshot data/users.csv -o head.json
  driftcatch diff base.json head.json
  driftcatch check base.json head.json   # exit 1 on breaking changes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "driftcatch %s\n", Version)
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	// Global flags
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.UsageError(err.Error()).
			WithHelp(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath()))
	})

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.driftcatch/config.yaml or $HOME/.driftcatch/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.Flags().Bool("version", false, "show version information")

	// Bind flags to viper
	a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	a.v.BindPFlag("output.no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(newSnapshotCommand(a))
	rootCmd.AddCommand(newDiffCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// init loads configuration and wires logging and storage
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if cfg.Output.NoColor {
		// seen by errors.DisplayErrorTo, which reads the global viper
		viper.Set("output.no_color", true)
		color.NoColor = true
	}

	a.cfg = cfg
	a.log = logger.NewLogrus(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetDefault(a.log)

	a.store = storage.New(storage.Config{
		SnapshotDir: cfg.Storage.SnapshotDir,
		BackupDir:   cfg.Storage.BackupDir,
		AWSRegion:   cfg.Storage.AWSRegion,
	})

	a.log.WithFields(map[string]interface{}{
		"snapshot_dir": cfg.Storage.SnapshotDir,
		"fail_on":      cfg.Check.FailOn,
	}).Debug("configuration loaded")

	return nil
}

// colorFor reports whether report output to w may be coloured
func (a *app) colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return output.ColorEnabled(a.cfg.Output.NoColor, f)
}

// Run executes the command tree with args and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var exit *exitError
	if stderrors.As(err, &exit) {
		return exit.code
	}

	if errors.InCI() {
		fmt.Fprint(stderr, errors.FormatErrorWithContext(err, map[string]string{
			"Command": strings.Join(append([]string{"driftcatch"}, args...), " "),
		}))
	} else {
		errors.DisplayErrorTo(stderr, err)
	}
	return errors.GetExitCode(err)
}

// exactArgs is cobra.ExactArgs reporting a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errors.UsageError(err.Error()).
				WithHelp(fmt.Sprintf("Usage: %s", cmd.UseLine()))
		}
		return nil
	}
}

// Execute runs driftcatch with the process arguments and exits
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
