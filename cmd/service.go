package main

import (
	"context"

	"github.com/sells-group/coltype/internal/scorer"
	"github.com/sells-group/coltype/internal/store"
	"github.com/sells-group/coltype/internal/tools"
)

// initService validates config for mode, opens the configured store and
// returns a tool service with a cleanup func.
func initService(ctx context.Context, mode string) (*tools.Service, func(), error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate("store"); err != nil {
		return nil, nil, err
	}
	if err := scorer.ValidateThresholds(scorer.ThresholdsFromConfig(cfg.Classify)); err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if st != nil {
		cleanup = func() { _ = st.Close() }
	}
	return tools.NewService(cfg, st), cleanup, nil
}
