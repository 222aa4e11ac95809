package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/table"
)

// PredictionArgs are the arguments of column_prediction.
type PredictionArgs struct {
	FilePath   string `json:"file_path"`
	ColumnName string `json:"column_name"`
}

// ParseArgs are the arguments of parse_file.
type ParseArgs struct {
	FilePath   string `json:"file_path"`
	OutputPath string `json:"output_path,omitempty"`
}

// ProfileArgs are the arguments of profile_file.
type ProfileArgs struct {
	FilePath string `json:"file_path"`
}

func (s *Service) handleListTools(_ context.Context, _ json.RawMessage) (any, error) {
	return &model.ListToolsResult{Tools: s.Names()}, nil
}

func (s *Service) handleListFiles(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.ListFiles(ctx)
}

func (s *Service) handleColumnPrediction(ctx context.Context, raw json.RawMessage) (any, error) {
	var args PredictionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return s.ColumnPrediction(ctx, args)
}

func (s *Service) handleParseFile(ctx context.Context, raw json.RawMessage) (any, error) {
	var args ParseArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return s.ParseFile(ctx, args)
}

func (s *Service) handleProfileFile(ctx context.Context, raw json.RawMessage) (any, error) {
	var args ProfileArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return s.ProfileFile(ctx, args)
}

// ListFiles lists table files in the data directory. Paths are relative to
// the base directory so they can be passed back as file_path.
func (s *Service) ListFiles(_ context.Context) (*model.ListFilesResult, error) {
	base := s.cfg.Data.BaseDir
	files, err := table.ListFiles(s.resolve(s.cfg.Data.Dir), s.cfg.Data.Extensions)
	if err != nil {
		return nil, err
	}

	out := &model.ListFilesResult{Files: make([]string, 0, len(files))}
	for _, f := range files {
		rel, err := filepath.Rel(base, f.Path)
		if err != nil {
			rel = f.Path
		}
		out.Files = append(out.Files, filepath.ToSlash(rel))
	}
	return out, nil
}

// ColumnPrediction classifies one column of a file.
func (s *Service) ColumnPrediction(_ context.Context, args PredictionArgs) (*model.PredictionResult, error) {
	if strings.TrimSpace(args.FilePath) == "" || strings.TrimSpace(args.ColumnName) == "" {
		return nil, newError(ErrInvalidArgs, "Both 'file_path' and 'column_name' are required.")
	}

	t, err := s.readTable(args.FilePath)
	if err != nil {
		return nil, err
	}
	values, ok := t.Values(args.ColumnName)
	if !ok {
		return nil, newError(ErrColumnNotFound, "column '%s' not found in %s", args.ColumnName, args.FilePath)
	}

	res, err := s.loadResources()
	if err != nil {
		return nil, err
	}
	d := s.classifier(res).Classify(values)

	zap.L().Debug("column classified",
		zap.String("file", args.FilePath),
		zap.String("column", args.ColumnName),
		zap.String("label", d.Label.String()),
	)

	return &model.PredictionResult{
		File:   args.FilePath,
		Column: args.ColumnName,
		Label:  d.Label,
		Scores: d.Scores,
	}, nil
}

// ParseFile picks the best phone or company column of a file, appends the
// parsed sub-fields and writes the result in the format named by the output
// extension. Without an output path the configured default is used, taking
// the input's extension for .tsv and .xlsx inputs.
func (s *Service) ParseFile(_ context.Context, args ParseArgs) (*model.ParseResult, error) {
	if strings.TrimSpace(args.FilePath) == "" {
		return nil, newError(ErrInvalidArgs, "'file_path' is required.")
	}
	output := args.OutputPath
	if output == "" {
		output = defaultOutput(s.cfg.Data.Output, args.FilePath)
	}
	if !table.Writable(output) {
		return nil, newError(ErrInvalidArgs, "unsupported output format: %s", output)
	}

	t, err := s.readTable(args.FilePath)
	if err != nil {
		return nil, err
	}
	if t.NumRows() == 0 {
		return nil, newError(ErrEmptyTable, "input table %s is empty", args.FilePath)
	}

	res, err := s.loadResources()
	if err != nil {
		return nil, err
	}
	best := s.classifier(res).SelectBest(t)

	out, parsed, err := s.parser(res).Augment(t, best)
	if err != nil {
		return nil, eris.Wrapf(err, "tools: parse %s", args.FilePath)
	}
	if err := table.WriteFile(s.resolve(output), out); err != nil {
		return nil, err
	}

	var log strings.Builder
	log.WriteString("Input file: " + args.FilePath + "\n")
	log.WriteString("Best parsed column: " + best.Column +
		" (type=" + best.Label.String() + ", score=" + formatScore(best.Score) + ")\n")
	log.WriteString("Wrote parsed data to " + output)

	zap.L().Info("file parsed",
		zap.String("input", args.FilePath),
		zap.String("output", output),
		zap.String("column", best.Column),
		zap.String("type", best.Label.String()),
		zap.Float64("score", best.Score),
		zap.Bool("parsed", parsed),
	)

	return &model.ParseResult{
		Input:  args.FilePath,
		Output: output,
		Column: best.Column,
		Type:   best.Label,
		Score:  best.Score,
		Parsed: parsed,
		Rows:   out.NumRows(),
		Log:    log.String(),
	}, nil
}

// ProfileFile classifies every column of a file concurrently.
func (s *Service) ProfileFile(ctx context.Context, args ProfileArgs) (*model.ProfileResult, error) {
	if strings.TrimSpace(args.FilePath) == "" {
		return nil, newError(ErrInvalidArgs, "'file_path' is required.")
	}

	t, err := s.readTable(args.FilePath)
	if err != nil {
		return nil, err
	}
	res, err := s.loadResources()
	if err != nil {
		return nil, err
	}
	c := s.classifier(res)

	cols := t.Columns()
	profiles := make([]model.ColumnProfile, len(cols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Classify.MaxConcurrency, 1))
	for i, col := range cols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := c.Classify(col.Values)
			profiles[i] = model.ColumnProfile{Column: col.Name, Label: d.Label, Scores: d.Scores}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.ProfileResult{
		File:    args.FilePath,
		Rows:    t.NumRows(),
		Columns: profiles,
		Best:    c.SelectBest(t),
	}, nil
}

// defaultOutput swaps the extension of the configured output for the input's
// when the input is a .tsv or .xlsx table.
func defaultOutput(output, input string) string {
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".tsv", ".xlsx":
		return strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return output
}
