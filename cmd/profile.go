package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/tools"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Classify every column of a table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, cleanup, err := initService(ctx, "classify")
		if err != nil {
			return err
		}
		defer cleanup()

		input, _ := cmd.Flags().GetString("input")
		return runProfile(ctx, svc, os.Stdout, outputFormat, tools.ProfileArgs{FilePath: input})
	},
}

func runProfile(ctx context.Context, svc *tools.Service, w io.Writer, format string, args tools.ProfileArgs) error {
	result, err := callTool(ctx, svc, tools.ToolProfileFile, args)
	if err != nil {
		return err
	}
	res, ok := result.(*model.ProfileResult)
	if !ok {
		return eris.Errorf("profile: unexpected result %T", result)
	}
	return writeOutput(w, format, res, func(w io.Writer) error {
		formatProfile(w, res)
		return nil
	})
}

// formatProfile writes one row per column with its label and scores.
func formatProfile(out io.Writer, res *model.ProfileResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COLUMN\tLABEL\tPHONE\tDATE\tCOUNTRY\tCOMPANY")
	_, _ = fmt.Fprintln(w, "------\t-----\t-----\t----\t-------\t-------")
	for _, c := range res.Columns {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			c.Column, c.Label, c.Scores.Phone, c.Scores.Date, c.Scores.Country, c.Scores.Company)
	}
	_ = w.Flush()

	if res.Best.Parseable() {
		_, _ = fmt.Fprintf(out, "\nBest parsed column: %s (type=%s, score=%.2f)\n", res.Best.Column, res.Best.Label, res.Best.Score)
	}
	_, _ = fmt.Fprintf(out, "Rows: %d\n", res.Rows)
}

func init() {
	profileCmd.Flags().String("input", "", "path to the input table (relative to data.base_dir)")
	_ = profileCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(profileCmd)
}
