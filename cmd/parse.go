package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/tools"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Split the best phone or company column into sub-fields",
	Long:  "Scores every column as a phone or company column, parses the best one into Country/Number or Name/Legal, and writes the augmented table in the format of the output extension (.csv, .tsv or .xlsx).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, cleanup, err := initService(ctx, "classify")
		if err != nil {
			return err
		}
		defer cleanup()

		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		return runParse(ctx, svc, os.Stdout, outputFormat, tools.ParseArgs{FilePath: input, OutputPath: output})
	},
}

func runParse(ctx context.Context, svc *tools.Service, w io.Writer, format string, args tools.ParseArgs) error {
	result, err := callTool(ctx, svc, tools.ToolParseFile, args)
	if err != nil {
		return err
	}
	res, ok := result.(*model.ParseResult)
	if !ok {
		return eris.Errorf("parse: unexpected result %T", result)
	}
	return writeOutput(w, format, res, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, res.Log)
		return err
	})
}

func init() {
	parseCmd.Flags().String("input", "", "path to the input table (relative to data.base_dir)")
	parseCmd.Flags().String("output", "", "output path, .csv, .tsv or .xlsx (default data.output)")
	_ = parseCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(parseCmd)
}
