package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treesum-dev/treesum/internal/manifest"
	"github.com/treesum-dev/treesum/internal/report"
)

var compareOutputCSV string

var compareCmd = &cobra.Command{
	Use:   "compare <manifest-a> <manifest-b>",
	Short: "Compare two manifests and report their differences",
	Long: `Compare two manifest files and report files present in only one of them
and files whose hashes differ.

Finding differences is a successful outcome: the command exits 0 whether or
not the manifests match. A non-zero exit means a manifest could not be read
or parsed.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCompare,
}

func init() {
	compareCmd.Flags().
		StringVar(&compareOutputCSV, "output-csv", "", "also write the differences to FILE as CSV")
}

func runCompare(_ *cobra.Command, args []string) error {
	a, err := manifest.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	b, err := manifest.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}

	d := manifest.Compare(a, b)

	if err := report.WriteText(os.Stdout, d); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if compareOutputCSV != "" {
		f, err := os.Create(compareOutputCSV)
		if err != nil {
			return fmt.Errorf("create csv file: %w", err)
		}
		if err := report.WriteCSV(f, d); err != nil {
			f.Close()
			return fmt.Errorf("write csv: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close csv file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", compareOutputCSV)
	}

	return nil
}
