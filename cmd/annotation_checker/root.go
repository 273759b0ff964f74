package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/annotation-checker/internal/config"
	"github.com/odvcencio/annotation-checker/internal/logging"
	"github.com/odvcencio/annotation-checker/pkg/exclude"
	"github.com/odvcencio/annotation-checker/pkg/files"
	"github.com/odvcencio/annotation-checker/pkg/ignore"
	"github.com/odvcencio/annotation-checker/pkg/lang/treesitter"
	"github.com/odvcencio/annotation-checker/pkg/model"
	"github.com/odvcencio/annotation-checker/pkg/runner"
)

func execute(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string
	var jsonOutput bool
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "annotation_checker [flags] filenames...",
		Short: "Check that Python functions and methods annotate every argument and return value",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(errors.New("at least one filename is required"))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return usageError(err)
			}
			mergeFlags(cmd, cfg, flags)
			return run(cmd.Context(), cfg, args, jsonOutput, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "YAML settings file; explicit flags take precedence")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "exit non-zero when any check fails")
	cmd.Flags().BoolVar(&flags.ExcludeSelf, "exclude_self", false, "do not check the first parameter of methods")
	cmd.Flags().StringVar(&flags.ExcludeFiles, "exclude_files", "", "regex; files in which it is found are not checked")
	cmd.Flags().StringVar(&flags.ExcludeParameters, "exclude_parameters", "", "regex; parameters in which it is found are not checked")
	cmd.Flags().StringVar(&flags.ExcludeByName, "exclude_by_name", "", "regex; functions and classes in which it is found are not checked")
	cmd.Flags().StringVar(&flags.ExclusionComment, "exclusion_comment", exclude.DefaultCommentMarker, "comment text that suppresses checking of the adjacent declaration")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "INFO", "INFO or DEBUG")
	cmd.Flags().BoolVar(&flags.KeepGoing, "keep-going", false, "report unparseable files and continue with the rest")
	cmd.Flags().StringVar(&flags.IgnoreFile, "ignore-file", flags.IgnoreFile, "gitignore-style rules for directory arguments")
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "re-run checks when Python files change")
	cmd.Flags().DurationVar(&flags.Debounce, "debounce", flags.Debounce, "quiet period before a watch re-run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	return cmd
}

// mergeFlags copies explicitly set flags over the file configuration.
func mergeFlags(cmd *cobra.Command, cfg, flags *config.Config) {
	changed := cmd.Flags().Changed
	if changed("strict") {
		cfg.Strict = flags.Strict
	}
	if changed("exclude_self") {
		cfg.ExcludeSelf = flags.ExcludeSelf
	}
	if changed("exclude_files") {
		cfg.ExcludeFiles = flags.ExcludeFiles
	}
	if changed("exclude_parameters") {
		cfg.ExcludeParameters = flags.ExcludeParameters
	}
	if changed("exclude_by_name") {
		cfg.ExcludeByName = flags.ExcludeByName
	}
	if changed("exclusion_comment") {
		cfg.ExclusionComment = flags.ExclusionComment
	}
	if changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if changed("keep-going") {
		cfg.KeepGoing = flags.KeepGoing
	}
	if changed("ignore-file") {
		cfg.IgnoreFile = flags.IgnoreFile
	}
	if changed("watch") {
		cfg.Watch = flags.Watch
	}
	if changed("debounce") {
		cfg.Debounce = flags.Debounce
	}
}

// session holds everything a single check pass needs. Watch mode reuses it per change.
type session struct {
	targets []string
	cfg     *config.Config
	matcher *ignore.Matcher
	runner  *runner.Runner
}

func newSession(cfg *config.Config, targets []string, logger *zap.Logger) (*session, error) {
	policy, err := exclude.NewPolicy(cfg.Exclusion())
	if err != nil {
		return nil, err
	}
	if _, err := files.Filter(nil, cfg.ExcludeFiles); err != nil {
		return nil, err
	}
	matcher, err := ignore.Load(cfg.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("load ignore file %s: %w", cfg.IgnoreFile, err)
	}

	return &session{
		targets: targets,
		cfg:     cfg,
		matcher: matcher,
		runner: runner.New(
			treesitter.NewPythonParser(),
			policy,
			runner.WithLogger(logger),
			runner.WithReporter(runner.NewLogReporter(logger)),
			runner.WithKeepGoing(cfg.KeepGoing),
		),
	}, nil
}

func (s *session) check() (*model.Report, error) {
	expanded, err := files.Expand(s.targets, s.matcher)
	if err != nil {
		return nil, err
	}
	paths, err := files.Filter(expanded, s.cfg.ExcludeFiles)
	if err != nil {
		return nil, err
	}
	return s.runner.Check(paths)
}

func run(ctx context.Context, cfg *config.Config, targets []string, jsonOutput bool, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError(err)
	}
	logger := logging.New(stderr, level)
	defer func() { _ = logger.Sync() }()

	s, err := newSession(cfg, targets, logger)
	if err != nil {
		return usageError(err)
	}

	if cfg.Watch {
		return runWatch(ctx, s, logger, jsonOutput, stdout)
	}

	report, err := s.check()
	if err != nil {
		return exitCodeError{code: exitViolations, err: err}
	}
	if jsonOutput {
		if err := emitReport(stdout, report); err != nil {
			return err
		}
	}
	if cfg.Strict && !report.Passed() {
		return exitCodeError{code: exitViolations}
	}
	return nil
}
