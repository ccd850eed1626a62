package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/treecopy/internal/config"
	"github.com/bamsammich/treecopy/internal/engine"
	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// conflictFlag is a pflag.Value that parses overwrite|skip|cancel.
type conflictFlag struct {
	mode *engine.ConflictMode
}

func (f *conflictFlag) String() string {
	if f.mode == nil {
		return ""
	}
	return f.mode.String()
}

func (*conflictFlag) Type() string { return "mode" }

func (f *conflictFlag) Set(val string) error {
	m, err := engine.ParseConflictMode(val)
	if err != nil {
		return err
	}
	*f.mode = m
	return nil
}

// sizeFlag is a pflag.Value that accepts human-readable sizes (80K, 4M).
type sizeFlag struct {
	n *int
}

func (f *sizeFlag) String() string {
	if f.n == nil {
		return ""
	}
	return config.FormatSize(int64(*f.n))
}

func (*sizeFlag) Type() string { return "size" }

func (f *sizeFlag) Set(val string) error {
	n, err := parseSize(val)
	if err != nil {
		return err
	}
	*f.n = n
	return nil
}

func parseSize(val string) (int, error) {
	n, err := config.ParseSize(val)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("size %q too large", val)
	}
	return int(n), nil
}

// options collects the flag values that have a config file counterpart.
type options struct {
	workers        int
	bufferSize     int
	conflict       engine.ConflictMode
	includeSpecial bool
	noAudit        bool
}

//nolint:gocyclo,revive // main CLI entry point wires config, logging, engine and presenter
func run() int {
	opts := options{
		workers:    engine.DefaultWorkers,
		bufferSize: engine.DefaultBufferSize,
		conflict:   engine.DefaultConflictMode,
	}
	var (
		verbose     bool
		quiet       bool
		showVersion bool
		logFile     string
		configFile  string
	)

	rootCmd := &cobra.Command{
		Use:   "treecopy [flags] <source> <destination-dir>",
		Short: "Concurrent file and directory copy with conflict handling and rollback",
		Long: "Copies <source> into <destination-dir>/<name of source>. Directories are copied\n" +
			"recursively by a bounded pool of workers. Interrupting a run (Ctrl-C) stops\n" +
			"the copy and removes the files it already completed.",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "treecopy %s\n", version)
				return nil
			}
			src, dstDir := args[0], args[1]

			// Load optional config file.
			cfg, err := loadConfig(configFile)
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}

			// Apply config defaults for flags not explicitly set on CLI.
			if err := applyConfigDefaults(cmd.Flags(), cfg.Defaults, &opts); err != nil {
				return fmt.Errorf("config %s: %w", config.Path(), err)
			}

			// Configure logging.
			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			} else if quiet {
				logLevel = slog.LevelWarn
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			logger := slog.New(logHandler)
			slog.SetDefault(logger)

			// Set up context with signal handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			events := make(chan event.Event, 256)
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				presenterEvents = teeEvents(events)
			}

			eng, err := engine.New(engine.Config{
				Workers:        opts.workers,
				BufferSize:     opts.bufferSize,
				Conflict:       opts.conflict,
				IncludeSpecial: opts.includeSpecial,
				NoAudit:        opts.noAudit,
				Events:         events,
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			srcRoot, dstRoot := displayRoots(src, dstDir)
			theme := ui.DefaultTheme.WithOverrides(cfg.Theme)
			tty := ui.DetectTerminal(os.Stderr)
			presenter := ui.NewPresenter(ui.Config{
				Writer:    os.Stdout,
				ErrWriter: os.Stderr,
				Stats:     eng.Collector(),
				SrcRoot:   srcRoot,
				DstRoot:   dstRoot,
				Theme:     theme,
				IsTTY:     tty.TTY,
				Width:     tty.Width,
				Quiet:     quiet,
			})

			// Presenter runs in the background, engine in the foreground.
			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			outcome := eng.Copy(ctx, src, dstDir)
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			if !quiet {
				records := reportRecords(eng.AuditLog(), verbose)
				if err := ui.WriteAuditLog(os.Stdout, records, srcRoot, dstRoot, theme); err != nil {
					slog.Warn("write audit log", "error", err)
				}
				if summary := presenter.Summary(outcome.String()); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			code := exitCode(outcome)
			if code == exitPrecondition {
				slog.Error("copy rejected", "outcome", outcome.String(), "src", src, "dst", dstDir)
			}
			if code != exitOK {
				return &exitError{code: code}
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		IntVarP(&opts.workers, "workers", "n", engine.DefaultWorkers,
			fmt.Sprintf("number of concurrent file copies (1-%d)", engine.MaxWorkers))
	rootCmd.Flags().
		Var(&sizeFlag{n: &opts.bufferSize}, "buffer-size", "copy buffer size per worker (e.g. 80K, 4M)")
	rootCmd.Flags().
		Var(&conflictFlag{mode: &opts.conflict}, "conflict", "when a destination file exists: overwrite, skip or cancel")
	rootCmd.Flags().
		BoolVar(&opts.includeSpecial, "include-special", false, "copy FIFOs, devices and other non-regular files")
	rootCmd.Flags().BoolVar(&opts.noAudit, "no-audit", false, "do not keep the per-file audit log")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log, full audit table)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.Flags().StringVar(&configFile, "config", "", "read defaults from FILE instead of the XDG config path")

	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitPrecondition
	}

	return exitOK
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(flags *pflag.FlagSet, defaults config.DefaultsConfig, opts *options) error {
	if !flags.Changed("workers") && defaults.Workers != nil {
		opts.workers = *defaults.Workers
	}
	if !flags.Changed("buffer-size") && defaults.BufferSize != nil {
		n, err := parseSize(*defaults.BufferSize)
		if err != nil {
			return fmt.Errorf("buffer_size: %w", err)
		}
		opts.bufferSize = n
	}
	if !flags.Changed("conflict") && defaults.Conflict != nil {
		m, err := engine.ParseConflictMode(*defaults.Conflict)
		if err != nil {
			return fmt.Errorf("conflict: %w", err)
		}
		opts.conflict = m
	}
	if !flags.Changed("include-special") && defaults.IncludeSpecial != nil {
		opts.includeSpecial = *defaults.IncludeSpecial
	}
	if !flags.Changed("no-audit") && defaults.Audit != nil {
		opts.noAudit = !*defaults.Audit
	}
	return nil
}

// teeEvents writes every event to the structured log before forwarding it
// to the presenter.
func teeEvents(events <-chan event.Event) <-chan event.Event {
	teed := make(chan event.Event, cap(events))
	go func() {
		for ev := range events {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("run", ev.RunID),
				slog.String("path", ev.Path),
				slog.String("dst", ev.DstPath),
				slog.String("outcome", ev.Outcome),
				slog.Int64("size", ev.Size),
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			slog.LogAttrs(context.Background(), slog.LevelDebug, "treecopy.event", attrs...)
			teed <- ev
		}
		close(teed)
	}()
	return teed
}

// displayRoots returns the absolute source and resolved destination used
// to shorten paths in output.
func displayRoots(src, dstDir string) (string, string) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", ""
	}
	absDst, err := filepath.Abs(dstDir)
	if err != nil {
		return absSrc, ""
	}
	return absSrc, filepath.Join(absDst, filepath.Base(absSrc))
}

// reportRecords selects the audit records worth printing: everything when
// verbose, otherwise only records that are not a plain success.
func reportRecords(records []engine.CopyRecord, verbose bool) []engine.CopyRecord {
	if verbose {
		return records
	}
	var out []engine.CopyRecord
	for _, rec := range records {
		if rec.Outcome != engine.Success {
			out = append(out, rec)
		}
	}
	return out
}

// Process exit codes.
const (
	exitOK           = 0
	exitCopyErrors   = 1
	exitPrecondition = 2
	exitCanceled     = 3
)

func exitCode(o engine.Outcome) int {
	switch o {
	case engine.Success:
		return exitOK
	case engine.Canceled:
		return exitCanceled
	case engine.SourceNotFound, engine.DestinationIsFile, engine.SourceEqualsDestination,
		engine.SourceIsSubdirectoryOfDestination, engine.FileExists, engine.InProgress:
		return exitPrecondition
	default:
		// ErrorWhenCopying, or the per-file outcome of a single-file copy.
		return exitCopyErrors
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
