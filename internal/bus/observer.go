package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/dream"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/kernel"
)

const (
	// DefaultObserverAddr is the default listen address for the observer.
	DefaultObserverAddr = ":8765"

	// WebSocketEndpoint is the path for WebSocket connections.
	WebSocketEndpoint = "/kernel-events"

	// HealthEndpoint is the path for health checks.
	HealthEndpoint = "/health"

	// RunsEndpoint starts a kernel run (POST).
	RunsEndpoint = "/runs"

	// DreamEndpoint runs a dream pass (POST).
	DreamEndpoint = "/dream"

	// MetricsEndpoint exposes Prometheus metrics.
	MetricsEndpoint = "/metrics"

	// WriteWait is the timeout for writing to a WebSocket.
	WriteWait = 10 * time.Second

	// PongWait is the timeout for pong responses.
	PongWait = 60 * time.Second

	// PingPeriod is how often to send ping frames.
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is the maximum client message size allowed.
	MaxMessageSize = 512

	// MaxGoalBytes bounds the goal accepted by POST /runs.
	MaxGoalBytes = 4096

	defaultReplayCount = 100
	clientSendBuffer   = 256
)

// Dreamer runs a dream pass.
type Dreamer interface {
	EnterDreamState(ctx context.Context, durationMs int64) dream.Report
}

// Observer is an HTTP server that exposes kernel events to WebSocket clients
// and, when configured, starts runs and dream passes on request.
type Observer struct {
	bus      *Bus
	cfg      ObserverConfig
	log      zerolog.Logger
	upgrader websocket.Upgrader
	started  time.Time
	subID    SubscriptionID

	clients   map[*client]struct{}
	clientsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	runs   sync.WaitGroup

	openOnce  sync.Once
	closeOnce sync.Once
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// ObserverConfig configures the observer.
type ObserverConfig struct {
	Addr          string
	ReplayHistory bool
	HistoryCount  int

	// Optional surfaces. A nil value leaves its route unmounted.
	Runner  kernel.Runner
	Dreamer Dreamer
	Metrics http.Handler

	// DreamDurationMs is used when POST /dream omits a duration.
	DreamDurationMs int64
}

// DefaultObserverConfig returns the default observer configuration.
func DefaultObserverConfig() ObserverConfig {
	return ObserverConfig{
		Addr:            DefaultObserverAddr,
		ReplayHistory:   true,
		HistoryCount:    defaultReplayCount,
		DreamDurationMs: dream.DefaultDurationMs,
	}
}

// NewObserver creates an observer attached to the given bus.
func NewObserver(bus *Bus, cfg ObserverConfig, log zerolog.Logger) *Observer {
	if cfg.Addr == "" {
		cfg.Addr = DefaultObserverAddr
	}
	if cfg.HistoryCount <= 0 {
		cfg.HistoryCount = defaultReplayCount
	}
	if cfg.DreamDurationMs <= 0 {
		cfg.DreamDurationMs = dream.DefaultDurationMs
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Observer{
		bus: bus,
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Open subscribes the observer to the bus. It is called by ListenAndServe
// and must be called before serving Handler directly.
func (o *Observer) Open() {
	o.openOnce.Do(func() {
		o.started = time.Now()
		o.subID = o.bus.Subscribe(Wildcard, o.handleBusEvent)
	})
}

// Handler returns the observer's routes wrapped in permissive CORS headers.
func (o *Observer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketEndpoint, o.handleWebSocket)
	mux.HandleFunc(HealthEndpoint, o.handleHealth)
	mux.HandleFunc("/", o.handleIndex)
	if o.cfg.Runner != nil {
		mux.HandleFunc(RunsEndpoint, o.handleRuns)
	}
	if o.cfg.Dreamer != nil {
		mux.HandleFunc(DreamEndpoint, o.handleDream)
	}
	if o.cfg.Metrics != nil {
		mux.Handle(MetricsEndpoint, o.cfg.Metrics)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (o *Observer) ListenAndServe(ctx context.Context) error {
	o.Open()
	server := &http.Server{
		Addr:              o.cfg.Addr,
		Handler:           o.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		o.log.Info().Str("addr", o.cfg.Addr).Msg("observer listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		o.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("observer server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("observer shutdown: %w", err)
	}
	o.log.Info().Msg("observer stopped")
	return nil
}

// Close disconnects every client, cancels in-flight runs and waits for the
// observer's goroutines.
func (o *Observer) Close() {
	o.closeOnce.Do(func() {
		o.cancel()
		if o.subID != "" {
			_ = o.bus.Unsubscribe(o.subID)
		}

		o.clientsMu.Lock()
		for c := range o.clients {
			c.close()
			delete(o.clients, c)
		}
		o.clientsMu.Unlock()

		o.runs.Wait()
		o.wg.Wait()
	})
}

// ClientCount returns the number of connected WebSocket clients.
func (o *Observer) ClientCount() int {
	o.clientsMu.RLock()
	defer o.clientsMu.RUnlock()
	return len(o.clients)
}

func (o *Observer) drop(c *client) {
	o.clientsMu.Lock()
	_, ok := o.clients[c]
	delete(o.clients, c)
	remaining := len(o.clients)
	o.clientsMu.Unlock()

	c.close()
	if ok {
		o.log.Debug().Int("remaining", remaining).Msg("client disconnected")
	}
}

func (o *Observer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if o.ctx.Err() != nil {
		http.Error(w, "observer closed", http.StatusServiceUnavailable)
		return
	}
	replay := o.cfg.ReplayHistory
	if v := r.URL.Query().Get("replay"); v != "" {
		replay = v != "false"
	}
	count := o.cfg.HistoryCount
	if n, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && n > 0 {
		count = n
	}

	conn, err := o.upgrader.Upgrade(w, r, nil)
	if err != nil {
		o.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
		done: make(chan struct{}),
	}

	// Replay is queued before registration so history precedes live events.
	if replay {
		for _, event := range o.bus.History(count) {
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			select {
			case c.send <- data:
			default:
			}
		}
	}

	o.clientsMu.Lock()
	o.clients[c] = struct{}{}
	total := len(o.clients)
	o.clientsMu.Unlock()
	o.log.Debug().Int("total", total).Bool("replay", replay).Msg("client connected")

	o.wg.Add(2)
	go o.writePump(c)
	go o.readPump(c)
}

func (o *Observer) writePump(c *client) {
	defer o.wg.Done()
	defer o.drop(c)

	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		case <-o.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "observer closed"))
			return
		}
	}
}

func (o *Observer) readPump(c *client) {
	defer o.wg.Done()
	defer o.drop(c)

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				o.log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

// handleBusEvent forwards every bus event to all clients. A client whose
// buffer is full is disconnected.
func (o *Observer) handleBusEvent(event conscious.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		o.log.Warn().Err(err).Str("type", string(event.Type)).Msg("failed to marshal event")
		return
	}

	o.clientsMu.RLock()
	clients := make([]*client, 0, len(o.clients))
	for c := range o.clients {
		clients = append(clients, c)
	}
	o.clientsMu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			o.drop(c)
		}
	}
}

// RunRequest is the body of POST /runs.
type RunRequest struct {
	Goal  string `json:"goal"`
	RunID string `json:"run_id,omitempty"`
}

// RunResponse acknowledges a started run.
type RunResponse struct {
	RunID   string `json:"run_id"`
	Profile string `json:"profile"`
	Events  string `json:"events"`
}

func (o *Observer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxGoalBytes*2)).Decode(&req); err != nil {
		http.Error(w, "invalid run request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Goal == "" {
		http.Error(w, "goal is required", http.StatusBadRequest)
		return
	}
	if len(req.Goal) > MaxGoalBytes {
		http.Error(w, "goal too long", http.StatusRequestEntityTooLarge)
		return
	}
	if o.ctx.Err() != nil {
		http.Error(w, "observer closed", http.StatusServiceUnavailable)
		return
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	runner := o.cfg.Runner
	o.runs.Add(1)
	go func() {
		defer o.runs.Done()
		n := o.bus.PublishRun(o.ctx, runner.Run(o.ctx, req.Goal, kernel.WithRunID(req.RunID)))
		o.log.Info().Str("run_id", req.RunID).Int("events", n).Msg("run published")
	}()

	writeJSON(w, http.StatusAccepted, RunResponse{
		RunID:   req.RunID,
		Profile: string(runner.Profile()),
		Events:  WebSocketEndpoint,
	})
}

// DreamRequest is the optional body of POST /dream.
type DreamRequest struct {
	DurationMs int64 `json:"duration_ms,omitempty"`
}

func (o *Observer) handleDream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req DreamRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			http.Error(w, "invalid dream request: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.DurationMs <= 0 {
		req.DurationMs = o.cfg.DreamDurationMs
	}
	writeJSON(w, http.StatusOK, o.cfg.Dreamer.EnterDreamState(r.Context(), req.DurationMs))
}

func (o *Observer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status      string  `json:"status"`
		Service     string  `json:"service"`
		Addr        string  `json:"addr"`
		Clients     int     `json:"clients"`
		BusSubs     int     `json:"bus_subscriptions"`
		HistorySize int     `json:"history_size"`
		Dropped     uint64  `json:"dropped_events"`
		UptimeSec   float64 `json:"uptime_seconds"`
	}{
		Status:      "healthy",
		Service:     "conscious-observer",
		Addr:        o.cfg.Addr,
		Clients:     o.ClientCount(),
		BusSubs:     o.bus.SubscriptionsCount(),
		HistorySize: o.bus.HistoryLen(),
		Dropped:     o.bus.Dropped(),
	}
	if !o.started.IsZero() {
		health.UptimeSec = time.Since(o.started).Seconds()
	}
	writeJSON(w, http.StatusOK, health)
}

func (o *Observer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	types := conscious.AllEventTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	routes := []string{WebSocketEndpoint, HealthEndpoint}
	if o.cfg.Runner != nil {
		routes = append(routes, "POST "+RunsEndpoint)
	}
	if o.cfg.Dreamer != nil {
		routes = append(routes, "POST "+DreamEndpoint)
	}
	if o.cfg.Metrics != nil {
		routes = append(routes, MetricsEndpoint)
	}

	writeJSON(w, http.StatusOK, struct {
		Name       string   `json:"name"`
		WebSocket  string   `json:"websocket_endpoint"`
		Health     string   `json:"health_endpoint"`
		Routes     []string `json:"routes"`
		EventTypes []string `json:"event_types"`
	}{
		Name:       "Conscious Kernel Observer",
		WebSocket:  WebSocketEndpoint,
		Health:     HealthEndpoint,
		Routes:     routes,
		EventTypes: names,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
