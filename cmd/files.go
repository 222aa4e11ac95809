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

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List table files in the data directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, cleanup, err := initService(ctx, "classify")
		if err != nil {
			return err
		}
		defer cleanup()

		return runFiles(ctx, svc, os.Stdout, outputFormat)
	},
}

func runFiles(ctx context.Context, svc *tools.Service, w io.Writer, format string) error {
	result, err := svc.Call(ctx, tools.ToolListFiles, nil)
	if err != nil {
		return err
	}
	res, ok := result.(*model.ListFilesResult)
	if !ok {
		return eris.Errorf("files: unexpected result %T", result)
	}
	return writeOutput(w, format, res, func(w io.Writer) error {
		if len(res.Files) == 0 {
			fmt.Fprintln(os.Stderr, "No files found.")
			return nil
		}
		for _, f := range res.Files {
			if _, err := fmt.Fprintln(w, f); err != nil {
				return err
			}
		}
		return nil
	})
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
