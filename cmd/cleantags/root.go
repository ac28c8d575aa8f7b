package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/cleantags/internal/config"
	"github.com/handiism/cleantags/internal/logging"
	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/pipeline"
	"github.com/handiism/cleantags/internal/tags"
)

type scanOptions struct {
	path           string
	dryRun         bool
	apply          bool
	logLevel       string
	logFormat      string
	playlist       string
	playlistFormat string
	quiet          bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts scanOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "cleantags [PATH]",
		Short: "Fix duplicated \"X / X\" tag values in an audio library",
		Long: "Scan PATH for audio files and repair artist, album and title values\n" +
			"that were stored twice, such as \"Queen / Queen\".\n\n" +
			"Runs are dry runs unless --apply (or --dry-run=false) is given.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, ctx, &opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default ~/.config/cleantags/config.toml)")

	bindScanFlags(rootCmd, &opts)

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func bindScanFlags(cmd *cobra.Command, opts *scanOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.path, "path", "p", "", "Root directory to scan (default \".\")")
	flags.BoolVar(&opts.dryRun, "dry-run", true, "Report fixes without writing them")
	flags.BoolVar(&opts.apply, "apply", false, "Write fixes (same as --dry-run=false)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console, json")
	flags.StringVar(&opts.playlist, "playlist", "", "Write a playlist of affected files to this file or directory")
	flags.StringVar(&opts.playlistFormat, "playlist-format", "", "Playlist format: m3u, pls")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the summary, not every fix")
}

func runScan(cmd *cobra.Command, ctx *commandContext, opts *scanOptions, args []string) error {
	root, err := resolveRoot(cmd, opts, args)
	if err != nil {
		return err
	}

	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	settings := *loaded
	if err := applyScanFlags(cmd, &settings, opts); err != nil {
		return err
	}

	logger, err := logging.NewFromSettings(&settings)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // ignore sync errors on stderr

	manager := pipeline.NewManager(&settings, tags.DefaultRegistry(), logger)
	report, err := manager.Run(cmd.Context(), root)
	if err != nil {
		if report != nil {
			printReport(cmd.OutOrStdout(), report, opts.quiet)
		}
		return err
	}

	printReport(cmd.OutOrStdout(), report, opts.quiet)

	if opts.playlist != "" {
		written, err := manager.WritePlaylist(cmd.Context(), report, opts.playlist)
		if err != nil {
			logger.Warn("playlist not written", zap.Error(err))
			fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine("Playlist", statusError, err.Error(), shouldColorize(cmd.OutOrStdout())))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine("Playlist", statusOK, written, shouldColorize(cmd.OutOrStdout())))
	}
	return nil
}

func resolveRoot(cmd *cobra.Command, opts *scanOptions, args []string) (string, error) {
	root := strings.TrimSpace(opts.path)
	if len(args) == 1 {
		if cmd.Flags().Changed("path") && root != args[0] {
			return "", errors.New("give the root directory either as argument or with --path, not both")
		}
		root = args[0]
	}
	if root == "" {
		root = "."
	}
	return root, nil
}

// applyScanFlags overrides settings with the flags given on the command
// line and validates the result.
func applyScanFlags(cmd *cobra.Command, settings *config.Settings, opts *scanOptions) error {
	dryRun, err := resolveDryRun(cmd, settings.DryRun, opts)
	if err != nil {
		return err
	}
	settings.DryRun = dryRun

	if opts.logLevel != "" {
		settings.Logging.Level = strings.ToLower(strings.TrimSpace(opts.logLevel))
	}
	if opts.logFormat != "" {
		settings.Logging.Format = strings.ToLower(strings.TrimSpace(opts.logFormat))
	}
	if opts.playlistFormat != "" {
		settings.Playlist.Format = strings.ToLower(strings.TrimSpace(opts.playlistFormat))
	}
	return settings.Validate()
}

// resolveDryRun combines the configured mode with --dry-run and --apply.
// Without either flag the configured mode wins.
func resolveDryRun(cmd *cobra.Command, configured bool, opts *scanOptions) (bool, error) {
	dryRunSet := cmd.Flags().Changed("dry-run")
	if opts.apply {
		if dryRunSet && opts.dryRun {
			return false, errors.New("--apply conflicts with --dry-run=true")
		}
		return false, nil
	}
	if dryRunSet {
		return opts.dryRun, nil
	}
	return configured, nil
}

func printReport(out io.Writer, report *model.Report, quiet bool) {
	colorize := shouldColorize(out)

	if !quiet {
		if rows := fixRows(report); len(rows) > 0 {
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Field", "Key", "Old", "New"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
		}
	}

	for _, line := range renderSectionHeader(summaryTitle(report), colorize) {
		fmt.Fprintln(out, line)
	}

	processed := fmt.Sprintf("%d file(s) in %s", report.Processed(), report.Duration().Round(time.Millisecond))
	fmt.Fprintln(out, renderStatusLine("Processed", statusInfo, processed, colorize))

	if report.DryRun {
		msg := fmt.Sprintf("%d field(s) in %d file(s)", report.FieldsFixed(), report.Count(model.StatusWouldFix))
		fmt.Fprintln(out, renderStatusLine("Would fix", statusWarnIf(report.FieldsFixed() > 0), msg, colorize))
	} else {
		msg := fmt.Sprintf("%d field(s) in %d file(s)", report.FieldsFixed(), report.Count(model.StatusFixed))
		fmt.Fprintln(out, renderStatusLine("Fixed", statusOK, msg, colorize))
	}

	if failures := report.Failures(); failures > 0 {
		msg := fmt.Sprintf("%d file(s), see log", failures)
		fmt.Fprintln(out, renderStatusLine("Failed", statusError, msg, colorize))
		for _, res := range report.Results() {
			if res.Status.Failed() {
				fmt.Fprintf(out, "%s%s (%s)\n", statusIndent+statusIndent, relPath(report.Root, res.Path), res.Status)
			}
		}
	}

	if report.DryRun && report.FieldsFixed() > 0 {
		fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, "dry run, rerun with --apply to write", colorize))
	}
}

func summaryTitle(report *model.Report) string {
	if report.DryRun {
		return "Dry run summary"
	}
	return "Summary"
}

func statusWarnIf(cond bool) statusKind {
	if cond {
		return statusWarn
	}
	return statusOK
}

func fixRows(report *model.Report) [][]string {
	var rows [][]string
	for _, res := range report.Affected() {
		for _, fix := range res.Fixes {
			rows = append(rows, []string{relPath(report.Root, res.Path), fix.Field, fix.Key, fix.Old, fix.New})
		}
	}
	return rows
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
