package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"forcealign/internal/api"
	"forcealign/internal/config"
	"forcealign/internal/logging"
	"forcealign/internal/server"
	"forcealign/internal/testsupport"
)

func newServer(t *testing.T, cfg *config.Config, runs server.RunStore) *server.Server {
	t.Helper()
	srv, err := server.New(cfg, runs, logging.NewNop())
	if err != nil {
		t.Fatalf("server.New returned error: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *server.Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func alignRequest(t *testing.T, payload map[string]any) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/align", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthz(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t), nil)

	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var health api.HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Store || len(health.Methods) != 6 {
		t.Fatalf("unexpected health: %+v", health)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestAlignThenFetchRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	srv := newServer(t, cfg, st)

	payload := testsupport.AlignPayload(t, []string{"Hello world."}, []string{"hello|world"}, 2)
	resp, body := do(t, srv, alignRequest(t, payload))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var aligned api.AlignResponse
	if err := json.Unmarshal(body, &aligned); err != nil {
		t.Fatalf("decode align response: %v", err)
	}
	if aligned.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(aligned.Result.WordSegments) != 2 || aligned.Result.WordSegments[1].Word != "world." {
		t.Fatalf("unexpected words: %+v", aligned.Result.WordSegments)
	}

	resp, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs/"+aligned.RunID, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("run status = %d, body %s", resp.StatusCode, body)
	}
	var detail api.RunDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode run detail: %v", err)
	}
	if detail.Source != "api" || detail.Words != 2 || len(detail.Result.Segments) != 1 {
		t.Fatalf("unexpected run detail: %+v", detail)
	}

	resp, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs?limit=5", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list api.RunListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode run list: %v", err)
	}
	if len(list.Runs) != 1 || list.Runs[0].ID != aligned.RunID {
		t.Fatalf("unexpected run list: %+v", list)
	}
}

func TestAlignValidationErrors(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/align", bytes.NewReader([]byte(`{"segments":[]}`)))
	req.Header.Set("X-Request-ID", "req-123")
	resp, body := do(t, srv, req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var apiErr api.ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if apiErr.RequestID != "req-123" || apiErr.Error == "" {
		t.Fatalf("unexpected error body: %+v", apiErr)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t), nil)

	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(bytes.TrimSpace(body)) != `{"runs":[]}` {
		t.Fatalf("unexpected body %s", body)
	}

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs/abc", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs?limit=-1", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUnknownRunIsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newServer(t, cfg, testsupport.MustOpenStore(t, cfg))

	resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBearerAuth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.API.Token = "secret"
	srv := newServer(t, cfg, nil)

	resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, _ = do(t, srv, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz should not require auth, got %d", resp.StatusCode)
	}
}

func TestLogsEndpointTailsServerLog(t *testing.T) {
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{filepath.Join(t.TempDir(), "server.json")},
	})
	if err != nil {
		t.Fatalf("logging.New returned error: %v", err)
	}
	srv, err := server.New(testsupport.NewConfig(t), nil, logger)
	if err != nil {
		t.Fatalf("server.New returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "health-1")
	do(t, srv, req)

	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/logs?component=api-server", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var logs api.LogStreamResponse
	if err := json.Unmarshal(body, &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs.Events) == 0 {
		t.Fatal("expected at least one log event")
	}
	first := logs.Events[0]
	if first.Message != "request served" || first.CorrelationID != "health-1" || first.Fields["path"] != "/healthz" {
		t.Fatalf("unexpected event: %+v", first)
	}

	resp, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/logs?since="+strconv.FormatUint(logs.Next, 10), nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var later api.LogStreamResponse
	if err := json.Unmarshal(body, &later); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	for _, evt := range later.Events {
		if evt.Sequence <= logs.Next {
			t.Fatalf("event %d not after cursor %d", evt.Sequence, logs.Next)
		}
	}

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/v1/logs?since=abc", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
