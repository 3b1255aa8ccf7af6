package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// rootOpts contains shared state used by all commands
type rootOpts struct {
	debug   bool
	noColor bool
	logFile string

	stdout io.Writer
	stderr io.Writer

	logger    *log.Logger
	collector *log.MemoryCollector
	closeLog  func() error
}

// newRootCmd creates the devbox command tree
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{
		stdout:    stdout,
		stderr:    stderr,
		collector: log.NewMemoryCollector(),
	}

	cmd := &cobra.Command{
		Use:   "devbox",
		Short: "Batch rename, text replace and BOM conversion over directory trees",
		Long: `devbox walks a directory tree and applies one transform to every entry:
renaming, replacing text inside files, or adding and removing the UTF-8 BOM.

Every command previews by default. Pass --commit to write the changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.setupLogging(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	addRootFlags(cmd, opts)

	bom := newBOMCmd(opts)
	bom.AddCommand(newBOMScanCmd(opts))

	cmd.AddCommand(
		newRenameCmd(opts),
		newReplaceCmd(opts),
		bom,
		newRunCmd(opts),
		newVersionCmd(opts),
	)

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "also write structured JSON logs to this file")
}

// setupLogging configures zerolog and the console logger based on flags.
// Warnings and errors reach stderr; the log file, when set, gets every record.
func (o *rootOpts) setupLogging(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.noColor {
		color.NoColor = true
	}

	level := zerolog.InfoLevel
	if o.debug {
		level = zerolog.DebugLevel
	}

	stderrLevel := zerolog.WarnLevel
	if o.debug {
		stderrLevel = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: o.stderr, NoColor: color.NoColor}
	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: console},
			Level:  stderrLevel,
		},
	}

	o.closeLog = func() error { return nil }
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
		o.closeLog = f.Close
	}

	zlog := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	o.logger = log.New(o.stdout, zlog)

	ctx = zlog.WithContext(ctx)
	ctx = log.NewContext(ctx, o.logger)
	return ctx, nil
}

func (o *rootOpts) close() error {
	if o.closeLog == nil {
		return nil
	}
	if err := o.closeLog(); err != nil {
		return errors.Errorf("closing log file: %w", err)
	}
	o.closeLog = nil
	return nil
}
