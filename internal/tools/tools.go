// Package tools exposes column classification and field parsing as named
// tools invoked with JSON arguments, and serves them over a line-delimited
// JSON protocol.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"slices"

	"go.uber.org/zap"

	"github.com/sells-group/coltype/internal/config"
	"github.com/sells-group/coltype/internal/fields"
	"github.com/sells-group/coltype/internal/resource"
	"github.com/sells-group/coltype/internal/scorer"
	"github.com/sells-group/coltype/internal/store"
	"github.com/sells-group/coltype/internal/table"
)

// Tool names.
const (
	ToolListTools        = "list_tools"
	ToolListFiles        = "list_files"
	ToolColumnPrediction = "column_prediction"
	ToolParseFile        = "parse_file"
	ToolProfileFile      = "profile_file"
)

type handlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Service runs tools against the configured data directory. It is safe for
// concurrent use.
type Service struct {
	cfg      *config.Config
	store    store.Store
	handlers map[string]handlerFunc
}

// NewService creates a Service. st may be nil, in which case invocations
// are not recorded.
func NewService(cfg *config.Config, st store.Store) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{cfg: cfg, store: st}
	s.handlers = map[string]handlerFunc{
		ToolListTools:        s.handleListTools,
		ToolListFiles:        s.handleListFiles,
		ToolColumnPrediction: s.handleColumnPrediction,
		ToolParseFile:        s.handleParseFile,
		ToolProfileFile:      s.handleProfileFile,
	}
	return s
}

// Names returns the registered tool names, sorted.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is a registered tool.
func (s *Service) Has(name string) bool {
	_, ok := s.handlers[name]
	return ok
}

// Call invokes the named tool. A panic inside the tool is recovered and
// returned as an ErrInvocationFailure error.
func (s *Service) Call(ctx context.Context, name string, args json.RawMessage) (result any, err error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, newError(ErrUnknownTool, "Unknown tool: %s", name)
	}

	runID := s.recordStart(ctx, name, args)

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("tool panicked",
				zap.String("tool", name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			result = nil
			err = newError(ErrInvocationFailure, "%s failed: %v", name, r)
		}
		s.recordFinish(ctx, runID, result, err)
	}()

	return h(ctx, args)
}

func (s *Service) recordStart(ctx context.Context, name string, args json.RawMessage) string {
	if s.store == nil {
		return ""
	}
	run, err := s.store.CreateRun(ctx, name, args)
	if err != nil {
		zap.L().Warn("failed to record tool run", zap.String("tool", name), zap.Error(err))
		return ""
	}
	return run.ID
}

func (s *Service) recordFinish(ctx context.Context, runID string, result any, callErr error) {
	if s.store == nil || runID == "" {
		return
	}
	var errMsg string
	if callErr != nil {
		errMsg = callErr.Error()
		result = nil
	}
	if err := s.store.CompleteRun(ctx, runID, result, errMsg); err != nil {
		zap.L().Warn("failed to complete tool run", zap.String("run_id", runID), zap.Error(err))
	}
}

// resolve maps a caller-supplied path onto the base directory.
func (s *Service) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.cfg.Data.BaseDir, p)
}

// loadResources reads the resource lists fresh for each invocation.
func (s *Service) loadResources() (*resource.Set, error) {
	return resource.Load(resource.Paths{
		Countries: s.resolve(s.cfg.Resources.Countries),
		Legal:     s.resolve(s.cfg.Resources.Legal),
	})
}

func (s *Service) classifier(res *resource.Set) *scorer.Classifier {
	return scorer.New(res, scorer.ThresholdsFromConfig(s.cfg.Classify))
}

func (s *Service) parser(res *resource.Set) *fields.Parser {
	return fields.NewParser(res, fields.DialCodes(s.cfg.Classify.DialCodes))
}

func (s *Service) readTable(filePath string) (*table.Table, error) {
	t, err := table.Read(s.resolve(filePath), table.Options{Charset: s.cfg.Data.Charset})
	if err != nil {
		if errors.Is(err, table.ErrNotFound) {
			return nil, newError(ErrInputNotFound, "input file not found: %s", filePath)
		}
		return nil, err
	}
	return t, nil
}

// decodeArgs unmarshals args into dst. Absent or null args leave dst zero.
func decodeArgs(args json.RawMessage, dst any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return newError(ErrInvalidArgs, "invalid arguments: %v", err)
	}
	return nil
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
