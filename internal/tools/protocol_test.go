package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/store"
)

type wireResponse struct {
	ID     json.RawMessage `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func decodeLines(t *testing.T, out string) []wireResponse {
	t.Helper()
	var resps []wireResponse
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var r wireResponse
		require.NoError(t, json.Unmarshal([]byte(line), &r), line)
		resps = append(resps, r)
	}
	return resps
}

func TestHandle_ColumnPrediction(t *testing.T) {
	s, _ := newTestService(t)

	resp := s.Handle(context.Background(),
		[]byte(`{"id": 7, "tool": "column_prediction", "args": {"file_path": "data/phones.csv", "column_name": "phone"}}`))
	assert.True(t, resp.OK)
	assert.Equal(t, "7", string(resp.ID))

	res, ok := resp.Result.(*model.PredictionResult)
	require.True(t, ok)
	assert.Equal(t, model.LabelPhoneNumber, res.Label)
}

func TestHandle_MalformedJSON(t *testing.T) {
	s, _ := newTestService(t)

	resp := s.Handle(context.Background(), []byte(`{"id": 1, "tool": `))
	assert.False(t, resp.OK)
	assert.Nil(t, resp.ID)
	assert.True(t, strings.HasPrefix(resp.Error, "Invalid JSON: "), resp.Error)
}

func TestHandle_MissingToolField(t *testing.T) {
	s, _ := newTestService(t)

	resp := s.Handle(context.Background(), []byte(`{"id": "a"}`))
	assert.False(t, resp.OK)
	assert.Equal(t, "Unknown tool: ", resp.Error)
}

func TestServe_Sequence(t *testing.T) {
	s, _ := newTestService(t)

	in := strings.Join([]string{
		`{"id": 1, "tool": "list_tools"}`,
		``,
		`not json`,
		`{"id": "two", "tool": "column_prediction", "args": {"file_path": "data/phones.csv", "column_name": "fax"}}`,
		`{"id": 3, "tool": "nope"}`,
		`{"id": 4, "tool": "parse_file", "args": {"file_path": "data/phones.csv"}}`,
		`{"id": 5, "tool": "list_files", "args": null}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), strings.NewReader(in), &out))

	resps := decodeLines(t, out.String())
	require.Len(t, resps, 6)

	assert.Equal(t, "1", string(resps[0].ID))
	assert.True(t, resps[0].OK)
	assert.JSONEq(t,
		`{"tools":["column_prediction","list_files","list_tools","parse_file","profile_file"]}`,
		string(resps[0].Result))

	assert.False(t, resps[1].OK)
	assert.Contains(t, resps[1].Error, "Invalid JSON")
	lines := strings.Split(out.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[1], `{"id":null,"ok":false,"error":"Invalid JSON: `), lines[1])

	assert.Equal(t, `"two"`, string(resps[2].ID))
	assert.Equal(t, "column 'fax' not found in data/phones.csv", resps[2].Error)

	assert.Equal(t, "Unknown tool: nope", resps[3].Error)

	assert.True(t, resps[4].OK)
	var parsed model.ParseResult
	require.NoError(t, json.Unmarshal(resps[4].Result, &parsed))
	assert.Equal(t, "phone", parsed.Column)
	assert.Equal(t, model.LabelPhoneNumber, parsed.Type)

	assert.True(t, resps[5].OK)
	assert.Contains(t, string(resps[5].Result), "data/phones.csv")
}

func TestServe_ErrorResponseHasNoResult(t *testing.T) {
	s, _ := newTestService(t)

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), strings.NewReader(`{"id":1,"tool":"x"}`+"\n"), &out))
	assert.NotContains(t, out.String(), `"result"`)
	assert.Contains(t, out.String(), `"ok":false`)
}

func TestServe_ContextCancelled(t *testing.T) {
	s, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestService_RecordsRuns(t *testing.T) {
	s, _ := newTestService(t)
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	s.store = st

	ctx := context.Background()
	_, err = s.Call(ctx, ToolColumnPrediction, json.RawMessage(`{"file_path":"data/phones.csv","column_name":"phone"}`))
	require.NoError(t, err)
	_, err = s.Call(ctx, ToolParseFile, json.RawMessage(`{"file_path":"data/empty.csv"}`))
	require.Error(t, err)

	runs, err := st.ListRuns(ctx, store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byTool := map[string]model.Run{}
	for _, r := range runs {
		byTool[r.Tool] = r
	}
	assert.Equal(t, model.RunStatusComplete, byTool[ToolColumnPrediction].Status)
	assert.Contains(t, string(byTool[ToolColumnPrediction].Result), "PhoneNumber")
	assert.Equal(t, model.RunStatusFailed, byTool[ToolParseFile].Status)
	assert.Equal(t, "input table data/empty.csv is empty", byTool[ToolParseFile].Error)
}
