package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
	"github.com/corpeningc/cmt/internal/editor"
	"github.com/corpeningc/cmt/internal/ui"
	"github.com/spf13/cobra"
)

var acceptCmd = &cobra.Command{
	Use:   "accept FILE",
	Short: "Resolve conflicts without the interactive resolver",
	Long: `Resolves one conflict (--index, default the first) or every conflict (--all)
by accepting the current, incoming, both or highlighted changes. Highlighted
changes are given with --select as byte ranges (start:end) or line ranges
(L3-L5).`,
	Args: cobra.ExactArgs(1),
	RunE: runAccept,
}

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show what accepting a choice would produce",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	for _, c := range []*cobra.Command{acceptCmd, previewCmd} {
		c.Flags().StringP("choice", "c", "current", "current, incoming, both or highlighted")
		c.Flags().IntP("index", "i", 0, "0-based index of the conflict")
		c.Flags().StringArray("select", nil, "highlighted range, start:end or Ln-Lm (repeatable)")
	}
	acceptCmd.Flags().Bool("all", false, "resolve every conflict in the file")
	acceptCmd.Flags().Bool("stage", false, "stage the file with git once no conflicts are left")
}

type acceptOptions struct {
	Choice     conflict.Choice
	Index      int
	All        bool
	Selections []string
}

type acceptReport struct {
	Resolved  int
	Remaining int
}

// acceptFile resolves conflicts in doc according to opts. It does not write
// the document back.
func acceptFile(doc *document.Document, opts acceptOptions) (acceptReport, error) {
	session := editor.Open(doc, logger)
	defer session.Close()

	if session.Len() == 0 {
		return acceptReport{}, nil
	}

	sels, err := parseSelections(doc, opts.Selections)
	if err != nil {
		return acceptReport{}, err
	}
	if opts.Choice == conflict.Highlighted && len(sels) == 0 {
		logger.Warn("no --select given, highlighted resolution removes the whole conflict")
	}
	session.Selections().Set(sels...)

	if opts.All {
		n, err := session.ResolveAll(opts.Choice)
		return acceptReport{Resolved: n, Remaining: session.Len()}, err
	}

	if err := session.Invoke(opts.Index, opts.Choice); err != nil {
		return acceptReport{Remaining: session.Len()}, err
	}
	return acceptReport{Resolved: 1, Remaining: session.Len()}, nil
}

func choiceFlags(cmd *cobra.Command) (acceptOptions, error) {
	name, _ := cmd.Flags().GetString("choice")
	choice, err := conflict.ParseChoice(name)
	if err != nil {
		return acceptOptions{}, err
	}
	index, _ := cmd.Flags().GetInt("index")
	sels, _ := cmd.Flags().GetStringArray("select")

	opts := acceptOptions{Choice: choice, Index: index, Selections: sels}
	if f := cmd.Flags().Lookup("all"); f != nil {
		opts.All, _ = cmd.Flags().GetBool("all")
	}
	return opts, nil
}

func runAccept(cmd *cobra.Command, args []string) error {
	opts, err := choiceFlags(cmd)
	if err != nil {
		return err
	}

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}

	report, err := acceptFile(doc, opts)
	if errors.Is(err, conflict.ErrNotFound) || errors.Is(err, document.ErrNoAction) {
		return fmt.Errorf("%s has no conflict %d: %w", args[0], opts.Index, err)
	}
	if err != nil {
		return err
	}
	if report.Resolved == 0 {
		fmt.Printf("No conflicts in %s\n", fileColor.Sprint(args[0]))
		return nil
	}

	if err := doc.Save(); err != nil {
		return err
	}
	fmt.Printf("%s: resolved %d conflict(s) with %s, %d left\n",
		fileColor.Sprint(args[0]), report.Resolved, opts.Choice, report.Remaining)

	stage, _ := cmd.Flags().GetBool("stage")
	if !stage {
		return nil
	}
	if report.Remaining > 0 {
		fmt.Fprintf(os.Stderr, "Not staging %s: %d conflict(s) left\n", args[0], report.Remaining)
		return nil
	}
	repo, _, err := openRepo(cmd)
	if err != nil {
		return err
	}
	return stageFile(cmd, repo, args[0])
}

func runPreview(cmd *cobra.Command, args []string) error {
	opts, err := choiceFlags(cmd)
	if err != nil {
		return err
	}

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}
	session := editor.Open(doc, logger)
	defer session.Close()

	sels, err := parseSelections(doc, opts.Selections)
	if err != nil {
		return err
	}
	session.Selections().Set(sels...)

	after, err := session.Preview(opts.Index, opts.Choice)
	if err != nil {
		return err
	}

	if !isTerminal(os.Stdout) {
		fmt.Print(after)
		return nil
	}
	before := doc.Substr(session.Conflicts()[opts.Index].Block)
	title := fmt.Sprintf("%s: conflict %d, %s", args[0], opts.Index+1, opts.Choice.Label())
	return ui.ShowPreview(title, before, after)
}
