package bus

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/dream"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/kernel"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
)

func startObserver(t *testing.T, cfg ObserverConfig) (*Bus, *Observer, *httptest.Server) {
	t.Helper()
	b := New()
	o := NewObserver(b, cfg, zerolog.Nop())
	o.Open()
	srv := httptest.NewServer(o.Handler())
	t.Cleanup(func() {
		o.Close()
		srv.Close()
		b.Close()
	})
	return b, o, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + WebSocketEndpoint + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) conscious.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var e conscious.Event
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestObserver_ReplayThenLive(t *testing.T) {
	b, o, srv := startObserver(t, DefaultObserverConfig())

	b.Publish(ev(conscious.EventRunStart, 0))
	b.Publish(ev(conscious.EventPerception, 1))

	conn := dial(t, srv, "?count=10")
	assert.Equal(t, conscious.EventRunStart, readEvent(t, conn).Type)
	assert.Equal(t, conscious.EventPerception, readEvent(t, conn).Type)

	require.Eventually(t, func() bool { return o.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	b.Publish(ev(conscious.EventPhi, 1))
	got := readEvent(t, conn)
	assert.Equal(t, conscious.EventPhi, got.Type)
	assert.Equal(t, 1, got.Step)
}

func TestObserver_NoReplay(t *testing.T) {
	b, o, srv := startObserver(t, DefaultObserverConfig())
	b.Publish(ev(conscious.EventRunStart, 0))

	conn := dial(t, srv, "?replay=false")
	require.Eventually(t, func() bool { return o.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	b.Publish(ev(conscious.EventStability, 2))
	assert.Equal(t, conscious.EventStability, readEvent(t, conn).Type)
}

func TestObserver_HealthAndIndex(t *testing.T) {
	_, _, srv := startObserver(t, DefaultObserverConfig())

	resp, err := http.Get(srv.URL + HealthEndpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.EqualValues(t, 1, health["bus_subscriptions"])

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	var index struct {
		EventTypes []string `json:"event_types"`
		Routes     []string `json:"routes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&index))
	assert.Contains(t, index.EventTypes, "cips:workspace_winner")
	assert.NotContains(t, index.Routes, "POST "+RunsEndpoint)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+RunsEndpoint, "application/json", strings.NewReader(`{"goal":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "runs route needs a runner")
}

func TestObserver_PostRunPublishesEvents(t *testing.T) {
	opts := conscious.DefaultOptions()
	opts.MaxSteps = 2
	opts.Seed = 3
	k, err := kernel.New(opts)
	require.NoError(t, err)

	cfg := DefaultObserverConfig()
	cfg.Runner = k
	b, _, srv := startObserver(t, cfg)

	ended := make(chan conscious.Event, 1)
	b.Subscribe(conscious.EventRunEnd, func(e conscious.Event) { ended <- e })

	resp, err := http.Post(srv.URL+RunsEndpoint, "application/json", strings.NewReader(`{"goal":"observe me","run_id":"r-7"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var ack RunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, "r-7", ack.RunID)
	assert.Equal(t, "enhanced", ack.Profile)

	select {
	case e := <-ended:
		assert.Equal(t, "r-7", e.RunID)
		require.NotNil(t, e.Summary)
		assert.Equal(t, 2, e.Summary.Steps)
	case <-time.After(3 * time.Second):
		t.Fatal("run never finished")
	}
	assert.Equal(t, conscious.EventRunStart, b.History(0)[0].Type)
}

func TestObserver_PostRunValidation(t *testing.T) {
	k, err := kernel.New(conscious.DefaultOptions())
	require.NoError(t, err)
	cfg := DefaultObserverConfig()
	cfg.Runner = k
	_, _, srv := startObserver(t, cfg)

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"get", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"empty goal", http.MethodPost, `{"goal":""}`, http.StatusBadRequest},
		{"long goal", http.MethodPost, `{"goal":"` + strings.Repeat("g", MaxGoalBytes+1) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+RunsEndpoint, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestObserver_Dream(t *testing.T) {
	store := memory.NewStore()
	store.Add(conscious.ConsciousExperience{ID: "e1", MainContent: "step 1: walk the dog", PhiLevel: 4})
	store.Add(conscious.ConsciousExperience{ID: "e2", MainContent: "step 2: walk the dog", PhiLevel: 5})

	cfg := DefaultObserverConfig()
	cfg.Dreamer = dream.NewEngine(store)
	_, _, srv := startObserver(t, cfg)

	resp, err := http.Post(srv.URL+DreamEndpoint, "application/json", bytes.NewReader([]byte(`{"duration_ms":250}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report dream.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.EqualValues(t, 250, report.DurationMs)
	assert.Equal(t, 2, report.MemoriesConsolidated)
}

func TestObserver_ListenAndServeStopsOnCancel(t *testing.T) {
	b := New()
	defer b.Close()
	cfg := DefaultObserverConfig()
	cfg.Addr = "127.0.0.1:0"
	o := NewObserver(b, cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("observer did not stop")
	}
}
