// Package main provides the CLI entrypoint for ttt.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/ttt/internal/config"
	"github.com/verte-zerg/ttt/internal/generator"
	"github.com/verte-zerg/ttt/internal/logging"
	"github.com/verte-zerg/ttt/internal/model"
	"github.com/verte-zerg/ttt/internal/stats"
	"github.com/verte-zerg/ttt/internal/textsource"
	"github.com/verte-zerg/ttt/internal/tui"
)

const (
	defaultLang       = "en"
	defaultWords      = 50
	defaultSeconds    = 60
	defaultCaps       = 0.0
	defaultPunct      = 0.0
	defaultWeakTop    = 8
	defaultWeakFactor = 2.0
	defaultLogLevel   = "warn"
	defaultLogFormat  = "text"
)

const defaultPunctSet = ".,!?;:\"'()-"

var (
	practiceText        string
	practiceDict        string
	practiceLang        string
	practiceWords       int
	practiceSeconds     int
	practiceCaps        float64
	practicePunct       float64
	practicePunctSet    string
	practiceStopOnError bool
	practiceWatch       bool
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64

	logLevel  string
	logFormat string
	logFile   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ttt",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&practiceText, "text", "", "practice a fixed text read from this file")
	flags.StringVar(&practiceDict, "dict", "", "dictionary file, one word per line")
	flags.StringVar(&practiceLang, "lang", defaultLang, "language code for the word list and filters")
	flags.IntVar(&practiceWords, "words", defaultWords, "words per generated text")
	flags.IntVar(&practiceSeconds, "seconds", defaultSeconds, "time limit per session in seconds (0 disables)")
	flags.Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	flags.StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	flags.BoolVar(&practiceStopOnError, "stop-on-error", false, "require each mistake to be fixed before moving on")
	flags.BoolVar(&practiceWatch, "watch", false, "reload the --text file when it changes")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters of this run")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	flags.Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "log format (text, json)")
	flags.StringVar(&logFile, "log-file", "", "log file (default: $XDG_STATE_HOME/ttt/ttt.log)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.ResolveConfigPath(config.DefaultConfigPath()))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	cfg := model.Config{
		Lang:        practiceLang,
		TextPath:    practiceText,
		DictPath:    practiceDict,
		Words:       practiceWords,
		Seconds:     practiceSeconds,
		CapsPct:     practiceCaps,
		PunctPct:    practicePunct,
		PunctSet:    practicePunctSet,
		StopOnError: practiceStopOnError,
		Watch:       practiceWatch,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakFactor:  practiceWeakFactor,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	source, err := resolveSource(cfg)
	if err != nil {
		logger.Error("failed to load text", "err", err)
		return err
	}
	logger.Info("practice starting",
		"source", source.Describe(),
		"seconds", cfg.Seconds,
		"stop_on_error", cfg.StopOnError,
		"log_level", logging.LevelString(logger.Level()),
	)

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("ttt needs an interactive terminal")
	}

	var watcher *textsource.Watcher
	if cfg.Watch {
		watcher, err = textsource.Watch(cfg.TextPath, textsource.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", cfg.TextPath, err)
		}
		defer func() {
			if cerr := watcher.Close(); cerr != nil {
				logger.Warn("failed to close watcher", "err", cerr)
			}
		}()
	}

	run := stats.NewRun()
	m, err := tui.NewModel(tui.Options{
		Config:  cfg,
		Source:  source,
		Watcher: watcher,
		Logger:  logger.WithComponent("tui"),
		Run:     run,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	if run.Len() == 0 {
		return nil
	}
	if err := stats.RenderReport(cmd.OutOrStdout(), run, 0); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newLogger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-format: %w", err)
	}
	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	cfg := logging.DefaultConfig(path)
	cfg.Level = level
	cfg.Format = format
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

func resolveSource(cfg model.Config) (textsource.Source, error) {
	if cfg.TextPath != "" {
		text, err := textsource.LoadText(cfg.TextPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load text: %w", err)
		}
		return textsource.NewFixed(text, cfg.TextPath), nil
	}
	path := resolveWordListPath(cfg)
	words, err := textsource.LoadWords(path, cfg.Lang)
	if err != nil {
		return nil, wordListLoadError(cfg.Lang, path, err)
	}
	opts := generator.Options{
		Count:      cfg.Words,
		CapsPct:    cfg.CapsPct,
		PunctPct:   cfg.PunctPct,
		PunctSet:   []rune(cfg.PunctSet),
		WeakFactor: cfg.WeakFactor,
	}
	return textsource.NewRandom(generator.New(), words, opts, path), nil
}

// resolveWordListPath picks --dict, then the downloaded list for the
// language, then the system dictionary.
func resolveWordListPath(cfg model.Config) string {
	if cfg.DictPath != "" {
		return cfg.DictPath
	}
	path := config.DefaultWordListPath(cfg.Lang)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return config.SystemDictPath
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("Add one for %q at: %s", lang, config.DefaultWordListPath(lang)),
		"Or pass: ttt --dict <file> or ttt --text <file>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func isTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.ResolveConfigPath(config.DefaultConfigPath())
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented config at path unless a file
// already exists there.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List installed wordlist languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	wordlistDir := config.DefaultWordListDir()
	langs, err := listLangs(wordlistDir)
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		logErrf("No wordlists found. Add <lang>.txt files to %s\n", wordlistDir)
		return fmt.Errorf("no wordlists found")
	}
	return printLangs(cmd.OutOrStdout(), langs)
}

func listLangs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}

func printLangs(w io.Writer, langs []string) error {
	for _, lang := range langs {
		if _, err := fmt.Fprintln(w, lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	p := fileCfg.Practice
	applyStringConfig(cmd, "lang", &practiceLang, p.Lang)
	applyStringConfig(cmd, "dict", &practiceDict, p.Dict)
	applyIntConfig(cmd, "words", &practiceWords, p.Words)
	applyIntConfig(cmd, "seconds", &practiceSeconds, p.Seconds)
	applyFloatConfig(cmd, "caps", &practiceCaps, p.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, p.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, p.PunctSet)
	applyBoolConfig(cmd, "stop-on-error", &practiceStopOnError, p.StopOnError)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)

	l := fileCfg.Log
	applyStringConfig(cmd, "log-level", &logLevel, l.Level)
	applyStringConfig(cmd, "log-format", &logFormat, l.Format)
	applyStringConfig(cmd, "log-file", &logFile, l.File)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ttt configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q               # Language code
# dict = "/usr/share/dict/words"  # Dictionary file, one word per line
# words = %d              # Words per generated text
# seconds = %d            # Time limit per session (0 disables)
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# stop-on-error = false   # Require fixing mistakes before moving on
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d           # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters

[log]
# level = %q              # debug, info, warn, error
# format = %q             # text or json
# file = ""               # Log file (default: $XDG_STATE_HOME/ttt/ttt.log)
`,
		defaultLang,
		defaultWords,
		defaultSeconds,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.TextPath == "" && cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Seconds < 0 {
		return fmt.Errorf("--seconds must be >= 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.Watch && cfg.TextPath == "" {
		return fmt.Errorf("--watch requires --text")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
