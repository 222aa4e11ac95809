package model

import (
	"encoding/json"
	"time"
)

// RunStatus represents the outcome of a recorded tool invocation.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded tool invocation.
type Run struct {
	ID        string          `json:"id" yaml:"id"`
	Tool      string          `json:"tool" yaml:"tool"`
	Args      json.RawMessage `json:"args,omitempty" yaml:"-"`
	Status    RunStatus       `json:"status" yaml:"status"`
	Result    json.RawMessage `json:"result,omitempty" yaml:"-"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
}
