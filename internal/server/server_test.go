package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangedeck/pkg/buildinfo"
	"github.com/matzehuels/rangedeck/pkg/catalog"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/store"
)

const testCatalog = `
[[notebook]]
id = "nb"
  [[notebook.scenario]]
  id = "A"
  compare = true
  [[notebook.scenario]]
  id = "B"
  [[notebook.scenario]]
  id = "C"
  [[notebook.scenario]]
  id = "D"

[[notebook]]
id = "solver"
  [[notebook.scenario]]
  id = "a1"
  kind = "analysis"
  [[notebook.scenario]]
  id = "a2"
  kind = "analysis"
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := store.New(store.NewMemoryBackend(), store.WithLogger(logger))
	srv := New(s, cat, Options{Width: 1000, Logger: logger})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func comparison(t *testing.T, data []byte) ComparisonResponse {
	t.Helper()
	var c ComparisonResponse
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("decode response: %v\n%s", err, data)
	}
	return c
}

func TestGetComparison(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, ts, http.MethodGet, "/api/comparisons/nb", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	c := comparison(t, data)
	if c.Columns != 3 {
		t.Errorf("Columns = %d, want 3 at width 1000", c.Columns)
	}
	if diff := cmp.Diff(grid.Slots{"A", "B", "C", "D"}, c.State.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if len(c.Slots) != 12 {
		t.Errorf("len(Slots) = %d, want 12", len(c.Slots))
	}

	_, data = do(t, ts, http.MethodGet, "/api/comparisons/nb?width=1600", nil)
	if got := comparison(t, data).Columns; got != 5 {
		t.Errorf("Columns at width 1600 = %d, want 5", got)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, ts, http.MethodGet, "/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got struct {
		Status string         `json:"status"`
		Store  string         `json:"store"`
		Build  buildinfo.Info `json:"build"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := buildinfo.Get()
	if got.Status != "ok" || got.Store != "memory" || got.Build != want {
		t.Errorf("health = %+v, want ok/memory/%+v", got, want)
	}
}

func TestDropUndoFlow(t *testing.T) {
	ts := newTestServer(t)

	side := grid.SideBottom
	resp, data := do(t, ts, http.MethodPost, "/api/comparisons/nb/drop?width=0", DropRequest{
		Source: "D", Index: 1, Side: &side,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("drop status = %d: %s", resp.StatusCode, data)
	}
	c := comparison(t, data)
	if diff := cmp.Diff(grid.Slots{"A", "B", "D", "C"}, c.State.Order); diff != "" {
		t.Errorf("Order after drop mismatch (-want +got):\n%s", diff)
	}
	if !c.CanUndo {
		t.Error("CanUndo = false after drop")
	}

	_, data = do(t, ts, http.MethodPost, "/api/comparisons/nb/undo", nil)
	if diff := cmp.Diff(grid.Slots{"A", "B", "C", "D"}, comparison(t, data).State.Order); diff != "" {
		t.Errorf("Order after undo mismatch (-want +got):\n%s", diff)
	}
}

func TestDropWithGeometry(t *testing.T) {
	ts := newTestServer(t)

	rect := grid.Rect{Left: 0, Top: 0, Width: 100, Height: 100}
	_, data := do(t, ts, http.MethodPost, "/api/comparisons/nb/drop", DropRequest{
		Source: "C", Index: 0, X: 10, Y: 50, Rect: &rect,
	})
	if diff := cmp.Diff(grid.Slots{"C", "A", "B", "D"}, comparison(t, data).State.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestDropOutsideGridIsIgnored(t *testing.T) {
	ts := newTestServer(t)

	for _, index := range []int{12, 5_000_000, 1 << 40} {
		resp, data := do(t, ts, http.MethodPost, "/api/comparisons/nb/drop", DropRequest{
			Source: "A", Index: index,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("drop at %d status = %d: %s", index, resp.StatusCode, data)
		}
		c := comparison(t, data)
		if diff := cmp.Diff(grid.Slots{"A", "B", "C", "D"}, c.State.Order); diff != "" {
			t.Errorf("Order after drop at %d mismatch (-want +got):\n%s", index, diff)
		}
		if c.CanUndo {
			t.Errorf("CanUndo = true after drop at %d", index)
		}
	}
}

func TestPresetZoomModeReset(t *testing.T) {
	ts := newTestServer(t)

	_, data := do(t, ts, http.MethodPost, "/api/comparisons/nb/preset", map[string]int{"rows": 2, "cols": 2})
	if got := comparison(t, data).Columns; got != 2 {
		t.Errorf("Columns after preset = %d, want 2", got)
	}

	_, data = do(t, ts, http.MethodPost, "/api/comparisons/nb/zoom", ZoomRequest{Level: 9})
	if got := comparison(t, data).State.Zoom; got != 2 {
		t.Errorf("Zoom = %v, want 2", got)
	}

	_, data = do(t, ts, http.MethodPost, "/api/comparisons/nb/mode", ModeRequest{Simple: true})
	if !comparison(t, data).State.SimpleMode {
		t.Error("SimpleMode = false")
	}

	_, data = do(t, ts, http.MethodPost, "/api/comparisons/nb/reset", nil)
	c := comparison(t, data)
	if c.State.Zoom != 1 || c.State.ColumnOverride != 0 {
		t.Errorf("after reset: Zoom = %v, ColumnOverride = %d", c.State.Zoom, c.State.ColumnOverride)
	}
}

func TestCanvasEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, data := do(t, ts, http.MethodPost, "/api/comparisons/solver/cards/a1/move", DeltaRequest{DX: 10, DY: 20})
	c := comparison(t, data)
	card, ok := c.State.Card("a1")
	if !ok || card.Position.X != 70 || card.Position.Y != 170 {
		t.Errorf("card after move = %+v", card)
	}

	_, data = do(t, ts, http.MethodPost, "/api/comparisons/solver/cards/a1/front", nil)
	if card, _ := comparison(t, data).State.Card("a1"); card.Z != 3 {
		t.Errorf("z after front = %d, want 3", card.Z)
	}

	resp, _ := do(t, ts, http.MethodPost, "/api/comparisons/solver/cards/zz/resize", DeltaRequest{DX: 1})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown card status = %d, want 404", resp.StatusCode)
	}
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown notebook", http.MethodGet, "/api/comparisons/nope", nil, http.StatusNotFound},
		{"bad width", http.MethodGet, "/api/comparisons/nb?width=wide", nil, http.StatusBadRequest},
		{"bad preset", http.MethodPost, "/api/comparisons/nb/preset", map[string]int{"rows": 0, "cols": 2}, http.StatusBadRequest},
		{"oversized preset", http.MethodPost, "/api/comparisons/nb/preset", map[string]int{"rows": 3037000500, "cols": 3037000500}, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/comparisons/nb/zoom", "not an object", http.StatusBadRequest},
		{"missing source", http.MethodPost, "/api/comparisons/nb/drop", DropRequest{Index: 1}, http.StatusBadRequest},
		{"card in grid mode", http.MethodPost, "/api/comparisons/nb/cards/A/front", nil, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.want, data)
			}
		})
	}
}

func TestListAndDelete(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodGet, "/api/comparisons/nb", nil)
	do(t, ts, http.MethodGet, "/api/comparisons/global", nil)

	_, data := do(t, ts, http.MethodGet, "/api/comparisons", nil)
	var list struct {
		Stored  []string `json:"stored"`
		Catalog []string `json:"catalog"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"global", "nb"}, list.Stored); diff != "" {
		t.Errorf("stored mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"nb", "solver", "global"}, list.Catalog); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}

	resp, _ := do(t, ts, http.MethodDelete, "/api/comparisons/nb", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cat, _ := catalog.Parse([]byte(testCatalog))
	srv := New(store.New(store.NewMemoryBackend()), cat, Options{Logger: log.New(io.Discard)})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
