package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var scanCmd = &cobra.Command{
	Use:   "scan FILE...",
	Short: "Print the conflicts found in files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		results, err := scanFiles(cmd.Context(), args)
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		printScan(os.Stdout, results)
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next FILE",
	Short: "Print the next conflict marker at or after an offset",
	Long:  "Finds the next conflict marker at or after --offset, wrapping to the start of the file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		headers, _ := cmd.Flags().GetBool("conflict")

		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}

		find := conflict.FindNext
		if headers {
			find = conflict.FindNextConflict
		}
		match, err := find(doc, offset)
		if errors.Is(err, conflict.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "No conflict found")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("%d\t%d\t%s\t%s\n",
			doc.LineNumber(match.Line.Start)+1,
			match.Line.Start,
			match.Marker,
			doc.Substr(match.Line))
		return nil
	},
}

func init() {
	scanCmd.Flags().Bool("json", false, "print results as JSON")
	nextCmd.Flags().Int("offset", 0, "byte offset to search from")
	nextCmd.Flags().Bool("conflict", false, "only stop at conflict headers")
}

type scanResult struct {
	Path      string         `json:"path"`
	Conflicts []scanConflict `json:"conflicts"`
}

type scanConflict struct {
	Index         int    `json:"index"`
	Line          int    `json:"line"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
	CurrentLabel  string `json:"current_label"`
	IncomingLabel string `json:"incoming_label"`
	HasBase       bool   `json:"has_base"`
	Current       string `json:"current"`
	Base          string `json:"base,omitempty"`
	Incoming      string `json:"incoming"`
}

// scanFiles parses every file concurrently. Results keep the order of paths.
func scanFiles(ctx context.Context, paths []string) ([]scanResult, error) {
	results := make([]scanResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			doc, err := document.Load(path)
			if err != nil {
				return err
			}
			results[i] = scanDocument(doc)
			logger.Debug("scanned file", "path", path, "conflicts", len(results[i].Conflicts))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanDocument(doc *document.Document) scanResult {
	res := scanResult{Path: doc.Path(), Conflicts: []scanConflict{}}
	for _, c := range conflict.Parse(doc) {
		res.Conflicts = append(res.Conflicts, scanConflict{
			Index:         c.Index,
			Line:          doc.LineNumber(c.Header.Start) + 1,
			Start:         c.Block.Start,
			End:           c.Block.End,
			CurrentLabel:  conflict.Label(doc, c.Header),
			IncomingLabel: conflict.Label(doc, c.Footer),
			HasBase:       c.HasBase(),
			Current:       doc.Substr(c.CurrentBody),
			Base:          doc.Substr(c.Base),
			Incoming:      doc.Substr(c.IncomingBody),
		})
	}
	return res
}

func printScan(w io.Writer, results []scanResult) {
	for _, res := range results {
		fmt.Fprintf(w, "%s: %d conflict(s)\n", fileColor.Sprint(res.Path), len(res.Conflicts))
		for _, c := range res.Conflicts {
			kind := ""
			if c.HasBase {
				kind = dimColor.Sprint(" (diff3)")
			}
			fmt.Fprintf(w, "  #%d line %d: %s <-> %s%s\n",
				c.Index+1,
				c.Line,
				currentColor.Sprint(orUnnamed(c.CurrentLabel)),
				incomingColor.Sprint(orUnnamed(c.IncomingLabel)),
				kind)
		}
	}
}

func orUnnamed(label string) string {
	if label == "" {
		return "(unnamed)"
	}
	return label
}
