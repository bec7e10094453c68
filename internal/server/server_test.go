package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PizzaHomicide/reel/internal/bridge"
	"github.com/PizzaHomicide/reel/internal/player/builtin"
	"github.com/PizzaHomicide/reel/internal/player/playertest"
	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = time.Second

type fixture struct {
	mount *playertest.Mount
	srv   *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.SyncInterval = 5 * time.Millisecond
	cfg.ReadyTimeout = waitFor

	registry := builtin.All()
	mount := playertest.NewMount()
	c := session.New(registry, registry.Loaders(&playertest.Scripts{}, waitFor), mount, cfg)
	t.Cleanup(c.Close)

	hub := bridge.NewHub()
	t.Cleanup(hub.Close)
	return &fixture{mount: mount, srv: New(c, hub)}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestServesHostPage(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `src="/bridge.js"`)

	w = f.do(t, http.MethodGet, "/bridge.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/bridge")
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "idle", body["phase"])
}

func TestClassify(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/classify?url=https://vimeo.com/76979871", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"platform": "vimeo", "id": "76979871"}, decode(t, w))

	w = f.do(t, http.MethodGet, "/api/classify?url=https://example.com/video", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "no player found")

	w = f.do(t, http.MethodGet, "/api/classify", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetURLReturnsReadyStatus(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/api/player/url", `{"url":"https://www.youtube.com/watch?v=abc123&t=5"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "ready", body["phase"])
	assert.Equal(t, "youtube", body["platform"])
	assert.Equal(t, map[string]any{"platform": "youtube", "id": "abc123"}, body["request"])

	w = f.do(t, http.MethodDelete, "/api/player/url", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["phase"])
	assert.Equal(t, 0, f.mount.Live())
}

func TestUnknownURLIsRejected(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPut, "/api/player/url", `{"url":"https://example.com/video"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommandsWithoutPlayerConflict(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPut, "/api/player/state", `{"state":"playing"}`).Code)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodGet, "/api/player/title", "").Code)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodGet, "/api/player/pip", "").Code)

	w := f.do(t, http.MethodGet, "/api/player/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unstarted", decode(t, w)["state"])
}

func TestCommandsReachThePlayer(t *testing.T) {
	f := newFixture(t)
	f.mount.OnConstruct = func(n *playertest.Native) {
		n.Return("getVideoData", map[string]any{"title": "A video"})
	}
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/player/url", `{"url":"https://youtu.be/def456"}`).Code)
	native := f.mount.Last()

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/api/player/state", `{"state":"paused"}`).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/api/player/volume", `{"volume":0}`).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/api/player/mute", `{"muted":true}`).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/api/player/seek", `{"seconds":42.5}`).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/api/player/size", `{"width":800,"height":600}`).Code)

	assert.True(t, native.Called("pauseVideo"))
	assert.Equal(t, []any{0}, native.CallsTo("setVolume")[0].Args)
	assert.True(t, native.Called("mute"))
	assert.Equal(t, []any{42.5, true}, native.CallsTo("seekTo")[0].Args)
	assert.Equal(t, []any{800, 600}, native.CallsTo("setSize")[0].Args)

	w := f.do(t, http.MethodGet, "/api/player/title", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A video", decode(t, w)["title"])
}

func TestInvalidInput(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/player/url", `{"url":"https://youtu.be/def456"}`).Code)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/player/volume", `{"volume":101}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/player/volume", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/player/state", `{"state":"rewinding"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/player/seek", `{"seconds":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/player/size", `{"width":0,"height":10}`).Code)
}

func TestUnsupportedFullscreen(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/player/url", `{"url":"https://youtu.be/def456"}`).Code)

	w := f.do(t, http.MethodPut, "/api/player/fullscreen", `{"enabled":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["error"], "youtube")
}

func TestEventStream(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*waitFor)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	lines := bufio.NewScanner(res.Body)
	next := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event:"); ok {
				return name
			}
		}
		return ""
	}
	require.Equal(t, "status", next())

	go func() {
		_ = f.srv.session.SetURL(context.Background(), "https://youtu.be/def456")
	}()
	require.Equal(t, "state", next())
	require.True(t, lines.Scan())
	assert.Equal(t, `data:{"kind":"state","value":"unstarted"}`, lines.Text())
}

func TestRunServesUntilCancelled(t *testing.T) {
	f := newFixture(t)

	listening := make(chan string, 1)
	f.srv.OnListening(func(addr net.Addr) { listening <- addr.String() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Run(ctx, "127.0.0.1:0") }()

	var addr string
	select {
	case addr = <-listening:
	case <-time.After(waitFor):
		t.Fatal("server never started listening")
	}

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(waitFor * 6):
		t.Fatal("server did not shut down")
	}
}

func TestRunReportsListenErrors(t *testing.T) {
	f := newFixture(t)
	err := f.srv.Run(context.Background(), "256.0.0.1:bad")
	assert.Error(t, err)
}
