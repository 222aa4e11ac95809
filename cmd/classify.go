package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/tools"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Predict the semantic type of one column",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, cleanup, err := initService(ctx, "classify")
		if err != nil {
			return err
		}
		defer cleanup()

		input, _ := cmd.Flags().GetString("input")
		column, _ := cmd.Flags().GetString("column")
		return runClassify(ctx, svc, os.Stdout, outputFormat, tools.PredictionArgs{FilePath: input, ColumnName: column})
	},
}

func runClassify(ctx context.Context, svc *tools.Service, w io.Writer, format string, args tools.PredictionArgs) error {
	result, err := callTool(ctx, svc, tools.ToolColumnPrediction, args)
	if err != nil {
		return err
	}
	res, ok := result.(*model.PredictionResult)
	if !ok {
		return eris.Errorf("classify: unexpected result %T", result)
	}
	return writeOutput(w, format, res, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, res.Label)
		return err
	})
}

// callTool runs a tool through the service so the invocation is recorded
// like any protocol request.
func callTool(ctx context.Context, svc *tools.Service, name string, args any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: marshal args", name)
	}
	return svc.Call(ctx, name, raw)
}

func init() {
	classifyCmd.Flags().String("input", "", "path to the input table (relative to data.base_dir)")
	classifyCmd.Flags().String("column", "", "column to classify")
	_ = classifyCmd.MarkFlagRequired("input")
	_ = classifyCmd.MarkFlagRequired("column")
	rootCmd.AddCommand(classifyCmd)
}
