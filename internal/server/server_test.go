package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/observability"
	"github.com/matzehuels/codematrix/pkg/pipeline"
)

const testCatalog = `{
  "nodes": [
    {"id": "crate::x", "type": "crate", "name": "x"},
    {"id": "crate::x|class_struct::Foo", "type": "class_struct", "name": "Foo", "filename": "src/foo.rs"},
    {"id": "crate::x|class_struct::Foo|method::bar", "type": "method", "name": "bar", "filename": "src/foo.rs"},
    {"id": "crate::x|function::run", "type": "function", "name": "run", "filename": "src/main.rs"}
  ],
  "edges": [
    {"from": "crate::x|class_struct::Foo", "to": "crate::x|class_struct::Foo|method::bar", "type": "includes"}
  ]
}`

func newTestServer(t *testing.T, c cache.Cache, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(c, nil, logger), logger, opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	h := decodeBody[healthResponse](t, resp)
	if h.Status != "ok" || h.Cache != "none" || h.Version.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestClassify(t *testing.T) {
	ts := newTestServer(t, nil)

	for name, body := range map[string]string{
		"bare":     testCatalog,
		"envelope": `{"catalog": ` + testCatalog + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/classify", body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			got := decodeBody[classifyResponse](t, resp)
			if got.Nodes != 4 || got.Classified != 3 || len(got.Counts) != 16 {
				t.Errorf("classify = %+v", got)
			}
			if got.DocHash == "" {
				t.Error("missing doc hash")
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, nil)
	given := uuid.NewString()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"none", "", false},
		{"valid", given, true},
		{"garbage", "not-a-uuid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			id := resp.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				t.Fatalf("response id %q is not a uuid", id)
			}
			if (id == tt.header) != tt.keep {
				t.Errorf("id = %q, keep = %v", id, tt.keep)
			}
		})
	}
}

type layoutOut struct {
	Source     string `json:"source"`
	Placements []struct {
		Name string  `json:"name"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	} `json:"placements"`
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/layout", `{"catalog": `+testCatalog+`, "layout": {"padding": 12}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	out := decodeBody[layoutOut](t, resp)
	if out.Source == "" || len(out.Placements) != 3 {
		t.Fatalf("layout = %+v", out)
	}
	for _, p := range out.Placements {
		if p.Name == "Foo" && (p.X != 612 || p.Y != 412) {
			t.Errorf("Foo at (%v,%v), want (612,412)", p.X, p.Y)
		}
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name        string
		query       string
		contentType string
		prefix      string
	}{
		{"default svg", "", "image/svg+xml", "<svg"},
		{"matrix json", "?format=json", "application/json", "{"},
		{"nodelink json", "?format=json&type=nodelink", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render"+tt.query, testCatalog)
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d: %s", resp.StatusCode, b)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			b, _ := io.ReadAll(resp.Body)
			if !strings.HasPrefix(string(b), tt.prefix) {
				t.Errorf("body starts %q", string(b[:min(20, len(b))]))
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, nil, WithMaxBodySize(1024))

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed body", "/v1/classify", `{`, 400, errors.ErrCodeInvalidDocument},
		{"missing edges", "/v1/classify", `{"nodes": []}`, 400, errors.ErrCodeInvalidDocument},
		{"bad layout config", "/v1/layout", `{"catalog": ` + testCatalog + `, "layout": {"column_width": -1}}`, 400, errors.ErrCodeInvalidConfig},
		{"nodelink layout", "/v1/layout", `{"catalog": ` + testCatalog + `, "viz_type": "nodelink"}`, 400, errors.ErrCodeInvalidVizType},
		{"bad format", "/v1/render?format=gif", testCatalog, 400, errors.ErrCodeInvalidFormat},
		{"bad type", "/v1/render?type=sankey", testCatalog, 400, errors.ErrCodeInvalidVizType},
		{"too large", "/v1/classify", `{"catalog": "` + strings.Repeat("x", 2048) + `"}`, 400, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			e := decodeBody[errorBody](t, resp)
			if e.Error != string(tt.code) {
				t.Errorf("error = %q (%s), want %s", e.Error, e.Message, tt.code)
			}
			if e.RequestID == "" {
				t.Error("error body has no request id")
			}
		})
	}
}

func TestCacheHeader(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, fc)

	for i, want := range []string{"miss", "hit"} {
		resp := post(t, ts.URL+"/v1/render", testCatalog)
		if got := resp.Header.Get(CacheHeader); got != want {
			t.Errorf("request %d: %s = %q, want %q", i, CacheHeader, got, want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	m.Register()
	t.Cleanup(observability.Reset)
	ts := newTestServer(t, nil, WithMetrics(m))

	resp := post(t, ts.URL+"/v1/layout", testCatalog)
	_, _ = io.Copy(io.Discard, resp.Body)

	mresp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer mresp.Body.Close()
	b, _ := io.ReadAll(mresp.Body)
	body := string(b)

	for _, want := range []string{
		`codematrix_layout_duration_seconds_count{viz_type="matrix"} 1`,
		`codematrix_layout_nodes_count{viz_type="matrix"} 1`,
		`codematrix_cache_events_total{event="miss",key_type="layout"} 1`,
		`codematrix_http_requests_total{method="POST",route="/v1/layout",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "x"), 400},
		{fmt.Errorf("load: %w", errors.New(errors.ErrCodeInvalidDocument, "x")), 400},
		{errors.New(errors.ErrCodeFileNotFound, "x"), 404},
		{errors.New(errors.ErrCodeUnsupported, "x"), 501},
		{errors.New(errors.ErrCodeInternal, "x"), 500},
		{fmt.Errorf("plain"), 500},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
