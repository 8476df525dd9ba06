package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, autostart bool) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(ServerConfig{
		FrameInterval:  time.Millisecond,
		SampleInterval: 5 * time.Millisecond,
		HistorySize:    10,
		Autostart:      autostart,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go s.drive(ctx)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return s, srv
}

func postControl(t *testing.T, srv *httptest.Server, action string) (*http.Response, Status) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/control/"+action, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var st Status
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	}
	return resp, st
}

func TestServerPublishesReadingsWhileRunning(t *testing.T) {
	_, srv := newTestServer(t, true)
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		r, err := c.Reading(context.Background())
		return err == nil && r.Speed > 0 && r.Distance > 0
	}, 2*time.Second, 5*time.Millisecond)

	r, err := c.Reading(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, r.Speed, 10.0)
}

func TestServerHistoryIsBounded(t *testing.T) {
	_, srv := newTestServer(t, true)
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		h, err := c.History(context.Background())
		return err == nil && len(h.Records) == 10
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	h, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.Records, 10)
	assert.NotEmpty(t, h.RunID)
	for i := 1; i < len(h.Records); i++ {
		assert.GreaterOrEqual(t, h.Records[i].Distance, h.Records[i-1].Distance)
	}
}

func TestServerControlStartStopReset(t *testing.T) {
	s, srv := newTestServer(t, false)
	firstRun := s.RunID()

	resp, st := postControl(t, srv, "start")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, st.Running)

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		r, err := c.Reading(context.Background())
		return err == nil && r.Speed > 0
	}, 2*time.Second, 5*time.Millisecond)

	resp, st = postControl(t, srv, "stop")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, st.Running)

	// stopping twice is harmless
	resp, st = postControl(t, srv, "stop")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, st.Running)

	resp, st = postControl(t, srv, "reset")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, st.Running)
	assert.Equal(t, Reading{}, st.Reading)
	assert.NotEqual(t, firstRun, st.RunID)

	h, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.Records)
	assert.Equal(t, st.RunID, h.RunID)
}

func TestServerNoHistoryWhileStopped(t *testing.T) {
	_, srv := newTestServer(t, false)
	time.Sleep(30 * time.Millisecond)

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	h, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.Records)
}

func TestServerUnknownAction(t *testing.T) {
	s := NewServer(ServerConfig{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/control/boost", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "boost")
}

func TestServerRejectsWrongMethod(t *testing.T) {
	s := NewServer(ServerConfig{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/sensor", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServerHealth(t *testing.T) {
	s := NewServer(ServerConfig{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServerListenAndServeShutsDownOnCancel(t *testing.T) {
	s := NewServer(ServerConfig{Addr: "127.0.0.1:0", Autostart: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 2*time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerControlAfterDriveExitsIsUnavailable(t *testing.T) {
	s := NewServer(ServerConfig{FrameInterval: time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go s.drive(ctx)
	cancel()
	select {
	case <-s.driveDone:
	case <-time.After(2 * time.Second):
		t.Fatal("drive did not stop")
	}

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Post(srv.URL+"/api/control/start", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServerListenAndServeReportsListenError(t *testing.T) {
	taken := NewServer(ServerConfig{Addr: "127.0.0.1:0"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- taken.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return taken.Addr() != "" }, 2*time.Second, 5*time.Millisecond)

	s := NewServer(ServerConfig{Addr: taken.Addr()}, nil)
	err := s.ListenAndServe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
