package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/corpeningc/cmt/internal/config"
	"github.com/corpeningc/cmt/internal/git"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "cmt",
	Short: "Find and resolve merge conflict markers",
	Long:  "Detects merge conflict blocks in text files and resolves them by accepting the current, incoming, both or highlighted changes",

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Populated by setup before every command runs.
var (
	settings config.Settings
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var (
	errorColor    = color.New(color.FgRed, color.Bold)
	fileColor     = color.New(color.FgCyan)
	currentColor  = color.New(color.FgGreen)
	incomingColor = color.New(color.FgBlue)
	dimColor      = color.New(color.Faint)
)

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(err)
	}
	return err
}

func reportError(err error) {
	if errors.Is(err, git.ErrGitNotFound) {
		errorColor.Fprintf(os.Stderr, "Unable to find git executable. Set git_binary in %s or install git.\n", config.ProjectFileName)
		return
	}
	errorColor.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides the config file")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup reloads the settings and rebuilds the logger for every command, so a
// changed config file is picked up between commands of one shell session.
func setup(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	settings, err = config.Load(cwd)
	if err != nil {
		return err
	}

	if lvl, _ := cmd.Root().PersistentFlags().GetString("log-level"); lvl != "" {
		settings.LogLevel = lvl
	}
	level, err := config.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if settings.Source != "" {
		logger.Debug("loaded settings", "source", settings.Source)
	}

	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color %q: want auto, on or off", colorFlag)
	}
	return nil
}

// tuiLogger returns the logger used while a full-screen program owns the
// terminal: CMT_LOG_FILE if set, otherwise nothing is logged. The returned
// closer must be called when the program exits.
func tuiLogger() (*slog.Logger, func(), error) {
	path := os.Getenv("CMT_LOG_FILE")
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level, err := config.ParseLevel(settings.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }, nil
}

// openRepo checks for the git executable and locates the repository holding
// the working directory.
func openRepo(cmd *cobra.Command) (*git.GitRepo, string, error) {
	repo := git.New(".")
	repo.Binary = settings.GitBinary

	if err := repo.ExecutableAvailable(); err != nil {
		return nil, "", err
	}
	root, err := repo.DetermineRepo(cmd.Context())
	if err != nil {
		return nil, "", err
	}
	repo.WorkDir = root
	return repo, root, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
