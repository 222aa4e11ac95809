// Package store records tool invocations in SQLite or Postgres so past
// classifications and parses can be listed later.
package store

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/coltype/internal/config"
	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/resilience"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Tool   string          `json:"tool,omitempty"`
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for tool invocations.
type Store interface {
	CreateRun(ctx context.Context, tool string, args json.RawMessage) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result any, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the Store selected by cfg.Driver, migrated and ready. The
// "none" driver returns a nil Store and no error.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	retry := resilience.PolicyFrom(cfg.RetryAttempts, cfg.RetryBackoffMs)

	var st Store
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		s, err := NewSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.retry = retry
		st = s
	case "postgres":
		s, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.retry = retry
		st = s
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func statusFor(errMsg string) model.RunStatus {
	if errMsg != "" {
		return model.RunStatusFailed
	}
	return model.RunStatusComplete
}

func marshalResult(result any) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	b, err := json.Marshal(result)
	return b, eris.Wrap(err, "store: marshal result")
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
