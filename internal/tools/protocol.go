package tools

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// maxLineSize bounds a single request line.
const maxLineSize = 4 << 20

// Request is one line of the tool protocol.
type Request struct {
	ID   json.RawMessage `json:"id"`
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// Response answers a Request. ID echoes the request id, or null when the
// request could not be decoded.
type Response struct {
	ID     json.RawMessage `json:"id"`
	OK     bool            `json:"ok"`
	Result any             `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Respond builds the Response for a completed call.
func Respond(id json.RawMessage, result any, err error) Response {
	if err != nil {
		return Response{ID: id, OK: false, Error: err.Error()}
	}
	return Response{ID: id, OK: true, Result: result}
}

// Handle decodes one request line and runs it.
func (s *Service) Handle(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Respond(nil, nil, newError(ErrMalformedRequest, "Invalid JSON: %v", err))
	}
	result, err := s.Call(ctx, req.Tool, req.Args)
	if err != nil {
		zap.L().Debug("tool call failed", zap.String("tool", req.Tool), zap.Error(err))
	}
	return Respond(req.ID, result, err)
}

// Serve reads requests from r one per line and writes one response line per
// request to w, in order. Blank lines are skipped. It returns nil at EOF and
// ctx.Err() when ctx is cancelled.
func (s *Service) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- bytes.Clone(line):
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return eris.Wrap(err, "tools: read request")
				default:
					return ctx.Err()
				}
			}
			resp := s.Handle(ctx, line)
			if err := enc.Encode(resp); err != nil {
				return eris.Wrap(err, "tools: encode response")
			}
			if err := bw.Flush(); err != nil {
				return eris.Wrap(err, "tools: flush response")
			}
		}
	}
}
