// Package simserver drives a universe at a fixed cadence and publishes its
// state over HTTP and websocket. The step loop is the only writer; every
// handler works from immutable snapshots.
package simserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/sandeepkv93/cosmicsim/cosmology"
	"github.com/sandeepkv93/cosmicsim/universe"
)

// Config controls the server.
type Config struct {
	// Addr is the listen address. An address ending in ":0" picks a free
	// port, available from Addr after Start.
	Addr string

	// TickInterval is the wall-clock cadence of the step loop.
	TickInterval time.Duration

	// StepSize is the simulated seconds advanced per tick.
	StepSize float64

	// MaxClients caps concurrent websocket connections.
	MaxClients int

	// SendQueueSize is the per-client frame buffer. A client that falls
	// behind misses frames instead of stalling the loop.
	SendQueueSize int

	// PingInterval is the websocket keepalive cadence.
	PingInterval time.Duration

	// AllowedOrigins configures CORS for the HTTP API.
	AllowedOrigins []string

	// EnableRateLimit toggles the per-address request limiter.
	EnableRateLimit   bool
	RequestsPerSecond float64
	RequestBurst      int
}

// DefaultConfig returns a server configuration that steps one simulated day
// per wall-clock second.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		TickInterval:      time.Second,
		StepSize:          cosmology.Day,
		MaxClients:        64,
		SendQueueSize:     16,
		PingInterval:      30 * time.Second,
		AllowedOrigins:    []string{"*"},
		EnableRateLimit:   true,
		RequestsPerSecond: 10,
		RequestBurst:      20,
	}
}

// Stats counts server activity since creation.
type Stats struct {
	StepsCompleted int64 `json:"steps_completed"`
	Broadcasts     int64 `json:"broadcasts"`
	ClientsServed  int64 `json:"clients_served"`
	ActiveClients  int64 `json:"active_clients"`
}

type client struct {
	id        string
	conn      *websocket.Conn
	sendQueue chan []byte
}

// Server publishes one universe. It implements universe.Observer and fans
// every completed step out to all connected websocket clients.
type Server struct {
	config   Config
	universe *universe.Universe
	handler  http.Handler
	upgrader websocket.Upgrader

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter

	clientsMu sync.RWMutex
	clients   map[string]*client

	stateMu  sync.Mutex
	running  bool
	listener net.Listener
	httpSrv  *http.Server
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	stats Stats
}

// New creates a server for the given universe and registers it as a step
// observer. The universe may be shared with other drivers; whoever steps
// it, connected clients see the frames.
func New(config Config, u *universe.Universe) (*Server, error) {
	if u == nil {
		return nil, errors.New("simserver: nil universe")
	}
	if config.TickInterval <= 0 {
		return nil, fmt.Errorf("simserver: tick interval must be positive, got %v", config.TickInterval)
	}
	if config.StepSize <= 0 {
		return nil, fmt.Errorf("simserver: step size must be positive, got %g", config.StepSize)
	}
	if config.MaxClients <= 0 {
		return nil, fmt.Errorf("simserver: client limit must be positive, got %d", config.MaxClients)
	}
	if config.SendQueueSize <= 0 {
		config.SendQueueSize = 16
	}
	if config.PingInterval <= 0 {
		config.PingInterval = 30 * time.Second
	}

	s := &Server{
		config:   config,
		universe: u,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		limiters: make(map[string]*rate.Limiter),
		clients:  make(map[string]*client),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/bodies", s.handleBodies)
	mux.HandleFunc("/api/statistics", s.handleStatistics)
	mux.HandleFunc("/api/server/stats", s.handleServerStats)
	mux.HandleFunc("/ws", s.handleWebSocket)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = corsWrapper.Handler(s.rateLimit(mux))

	u.AddObserver(s)
	return s, nil
}

// Start binds the listener and launches the HTTP and step loops.
func (s *Server) Start() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.running {
		return errors.New("simserver: already running")
	}

	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("simserver: listen on %s: %w", s.config.Addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.listener = listener
	s.cancel = cancel
	s.httpSrv = &http.Server{Handler: s.handler}
	s.running = true

	s.wg.Add(2)
	go s.serveHTTP(listener)
	go s.stepLoop(ctx)

	log.Printf("simserver: listening on %s", listener.Addr())
	return nil
}

// Stop halts the step loop, shuts the HTTP server down and closes every
// websocket connection.
func (s *Server) Stop() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if !s.running {
		return errors.New("simserver: not running")
	}
	s.running = false
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		log.Printf("simserver: shutdown: %v", err)
	}

	s.clientsMu.Lock()
	for id, c := range s.clients {
		c.conn.Close()
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()
	atomic.StoreInt64(&s.stats.ActiveClients, 0)

	s.wg.Wait()
	log.Printf("simserver: stopped")
	return nil
}

// Addr returns the bound listener address, empty before Start.
func (s *Server) Addr() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the HTTP handler with middleware applied, for driving the
// API without a network listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Stats returns a copy of the server counters.
func (s *Server) Stats() Stats {
	return Stats{
		StepsCompleted: atomic.LoadInt64(&s.stats.StepsCompleted),
		Broadcasts:     atomic.LoadInt64(&s.stats.Broadcasts),
		ClientsServed:  atomic.LoadInt64(&s.stats.ClientsServed),
		ActiveClients:  atomic.LoadInt64(&s.stats.ActiveClients),
	}
}

func (s *Server) serveHTTP(listener net.Listener) {
	defer s.wg.Done()
	if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("simserver: http server stopped: %v", err)
	}
}

func (s *Server) stepLoop(ctx context.Context) {
	defer s.wg.Done()
	err := s.universe.RunContinuous(ctx, s.config.TickInterval, s.config.StepSize)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("simserver: step loop stopped: %v", err)
	}
}

// OnStepComplete implements universe.Observer.
func (s *Server) OnStepComplete(snap universe.Snapshot) {
	atomic.AddInt64(&s.stats.StepsCompleted, 1)
	s.broadcast(snap)
}

func (s *Server) broadcast(snap universe.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("simserver: failed to marshal snapshot: %v", err)
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		select {
		case c.sendQueue <- data:
		default:
			// Slow consumer, drop the frame.
		}
	}
	if len(s.clients) > 0 {
		atomic.AddInt64(&s.stats.Broadcasts, 1)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   s.universe.Time(),
		"steps":  s.universe.StepCount(),
		"bodies": s.universe.BodyCount(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.universe.Snapshot())
}

func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.universe.Snapshot().Bodies)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.universe.Statistics())
}

func (s *Server) handleServerStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Stats())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.clientsMu.RLock()
	full := len(s.clients) >= s.config.MaxClients
	s.clientsMu.RUnlock()
	if full {
		http.Error(w, "client limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("simserver: websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		id:        uuid.New().String(),
		conn:      conn,
		sendQueue: make(chan []byte, s.config.SendQueueSize),
	}

	// Seed the new client with the current state so it does not wait a
	// full tick for its first frame.
	if data, err := json.Marshal(s.universe.Snapshot()); err == nil {
		c.sendQueue <- data
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	atomic.AddInt64(&s.stats.ClientsServed, 1)
	atomic.AddInt64(&s.stats.ActiveClients, 1)

	go s.writeLoop(c)
	go s.readLoop(c)
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.sendQueue:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) readLoop(c *client) {
	defer s.removeClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(c *client) {
	c.conn.Close()

	s.clientsMu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		atomic.AddInt64(&s.stats.ActiveClients, -1)
	}
	s.clientsMu.Unlock()
}

// rateLimit applies a token bucket per client address.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.EnableRateLimit {
			next.ServeHTTP(w, r)
			return
		}
		if !s.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allow(ip string) bool {
	s.limiterMu.Lock()
	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.RequestBurst)
		s.limiters[ip] = limiter
	}
	s.limiterMu.Unlock()
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("simserver: failed to encode response: %v", err)
	}
}
