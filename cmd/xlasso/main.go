// Package main provides the CLI entry point for xlasso-go.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xlasso-go/pkg/xlasso"
)

var (
	outputPath string
	pretty     bool
	lax        bool
	verbose    bool
	dumpLasso  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlasso [xl-ref]",
		Short: "Resolve an xl-ref against a spreadsheet and print the values",
		Long: `xlasso-go resolves compact textual references (xl-refs) like

    file.xlsx#Sheet1!A1(RD):_.(D):RD{"func": "redim", "args": [null, null, 1, 1, 2]}

into rectangular regions of a spreadsheet, reads the values, runs
them through the trailing filters and outputs JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVar(&lax, "lax", false, "Skip failing filters instead of aborting")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Augment errors with filter help")
	rootCmd.Flags().BoolVar(&dumpLasso, "lasso", false, "Output the resolved lasso fields, not just the values")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ref := args[0]

	opts := xlasso.DefaultOpts()
	opts["lax"] = lax
	opts["verbose"] = verbose

	lasso, err := xlasso.Do(ref, &xlasso.DoOptions{BaseOpts: opts})
	if err != nil {
		return fmt.Errorf("resolving %q failed: %w", ref, err)
	}

	out := any(lasso.Values)
	if dumpLasso {
		out = lassoDump(lasso)
	}

	var jsonData []byte
	if pretty {
		jsonData, err = json.MarshalIndent(out, "", "  ")
	} else {
		jsonData, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	jsonData = append(jsonData, '\n')

	if outputPath != "" {
		return os.WriteFile(outputPath, jsonData, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(jsonData)
	return err
}

// lassoDump renders the resolved lasso fields for inspection.
func lassoDump(l xlasso.Lasso) map[string]any {
	dump := map[string]any{
		"ref":    l.Ref,
		"wb_id":  l.WbID,
		"edges":  l.EdgesString(),
		"values": l.Values,
	}
	if l.Sheet != nil {
		wb, shs := l.Sheet.SheetIDs()
		dump["wb_id"] = wb
		if len(shs) > 0 {
			dump["sheet_id"] = shs[0]
		}
	}
	if l.St != nil {
		dump["st"] = *l.St
	}
	if l.Nd != nil {
		dump["nd"] = *l.Nd
	}
	return dump
}
