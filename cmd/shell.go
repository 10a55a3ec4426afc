package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpeningc/cmt/internal/git"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive cmt shell",
	Long:  "Launch an interactive shell for running cmt commands without repeating the 'cmt' prefix",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runInteractiveShell(cmd.Context())
	},
}

func runInteractiveShell(ctx context.Context) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(completeCommand)

	fmt.Println("cmt interactive shell. Type 'exit' or press Ctrl+D to quit.")
	fmt.Println("Type 'help' to see available commands.")

	// git is only asked again once a command may have changed the repository.
	prompt := shellPrompt(ctx)
	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			fmt.Println()
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit, handled := handleSpecialCommand(input); quit {
			break
		} else if handled {
			continue
		}

		executeCommand(input)
		prompt = shellPrompt(ctx)
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

// shellPrompt shows the current branch and, inside a repository, how many
// files are still conflicted.
func shellPrompt(ctx context.Context) string {
	repo := git.New(".")
	repo.Binary = settings.GitBinary

	branch, err := repo.GetCurrentBranch(ctx)
	if err != nil {
		return "[cmt]> "
	}
	files, err := repo.ConflictedFiles(ctx)
	if err != nil || len(files) == 0 {
		return fmt.Sprintf("[%s]> ", branch)
	}
	return fmt.Sprintf("[%s %d conflicted]> ", branch, len(files))
}

func handleSpecialCommand(input string) (quit, handled bool) {
	switch strings.ToLower(input) {
	case "exit", "quit":
		fmt.Println("Goodbye!")
		return true, true
	case "clear", "cls":
		fmt.Print("\033[H\033[2J")
		return false, true
	case "help":
		rootCmd.Help()
		return false, true
	}
	return false, false
}

func executeCommand(input string) {
	parts := parseCommandLine(input)
	if len(parts) == 0 {
		return
	}

	rootCmd.SetArgs(parts)
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
	}
	rootCmd.SetArgs([]string{})

	// Flags keep their values between runs of the same command.
	if cmd, _, err := rootCmd.Find(parts); err == nil {
		resetFlags(cmd)
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
}

func parseCommandLine(input string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, char := range input {
		switch {
		case (char == '"' || char == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = char
		case char == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func completeCommand(prefix string) []string {
	var matches []string
	for _, name := range getCommandNames() {
		if strings.HasPrefix(name, strings.ToLower(prefix)) {
			matches = append(matches, name)
		}
	}
	return matches
}

func getCommandNames() []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "shell" {
			continue
		}
		names = append(names, cmd.Name())
	}
	return names
}

func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cmt_history"
	}
	return filepath.Join(homeDir, ".cmt_history")
}
