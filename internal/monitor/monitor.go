// Package monitor serves live frames, diagnostics, control and metrics
// over HTTP and websockets.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-lightstrip/internal/diagnostics"
	"github.com/coreman2200/funtimes-lightstrip/internal/events"
	"github.com/coreman2200/funtimes-lightstrip/internal/selftest"
)

const writeWait = 200 * time.Millisecond

// Controller is what /control may do to the running strip. Every method
// must be safe to call from any goroutine.
type Controller interface {
	Push(b byte) bool
	Next() bool
	RunTest(k selftest.Kind) bool
}

type Options struct {
	Driver     string
	Count      int
	Brightness uint8
	Pattern    int
	Gatherer   prometheus.Gatherer // nil serves no /metrics
}

type Server struct {
	mu  sync.Mutex
	ctl Controller
	log zerolog.Logger
	opt Options

	frameID     uint64
	pattern     int
	patternName string
	brightness  uint8
	startTime   time.Time

	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	unsub       []func()
	upgrader    websocket.Upgrader
}

// New subscribes to bus and returns a server ready to mount.
func New(bus *events.Bus, ctl Controller, opt Options, log zerolog.Logger) *Server {
	s := &Server{
		ctl:         ctl,
		log:         log,
		opt:         opt,
		pattern:     opt.Pattern,
		brightness:  opt.Brightness,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	s.unsub = []func(){
		bus.Subscribe(s.onFrame),
		bus.Subscribe(func(e events.PatternChanged) {
			s.mu.Lock()
			s.pattern, s.patternName = e.Index, e.Name
			s.mu.Unlock()
			s.pushDiag(diag.PatternChanged(e.Index, e.Name, e.Cause))
		}),
		bus.Subscribe(func(e events.BrightnessChanged) {
			s.mu.Lock()
			s.brightness = e.Value
			s.mu.Unlock()
			s.pushDiag(diag.BrightnessChanged(e.Value, e.Byte))
		}),
		bus.Subscribe(func(e events.CommandIgnored) { s.pushDiag(diag.Ignored(e.Byte)) }),
		bus.Subscribe(func(e events.SelfTest) { s.pushDiag(diag.SelfTest(e.Kind, e.State)) }),
		bus.Subscribe(func(e events.DriverError) { s.pushDiag(diag.DriverFailure(e.Driver, e.Err)) }),
	}
	return s
}

// Handler routes every endpoint behind a permissive CORS wrapper.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	if s.opt.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.opt.Gatherer, promhttp.HandlerOpts{}))
	}
	return withCORS(mux)
}

// Close unsubscribes and drops every websocket client.
func (s *Server) Close() {
	for _, u := range s.unsub {
		u()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
	for c := range s.diagClients {
		c.Close()
	}
	s.clients = map[*websocket.Conn]bool{}
	s.diagClients = map[*websocket.Conn]bool{}
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	s.subscribe(w, r, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	s.subscribe(w, r, s.diagClients)
}

// subscribe registers a read-only client until it disconnects.
func (s *Server) subscribe(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	set[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		reply := Reply{OK: true}
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = Reply{Error: "bad json: " + err.Error()}
		} else if err := s.apply(msg); err != nil {
			reply = Reply{Error: err.Error()}
		}
		reply.Health = s.health()
		b, _ := json.Marshal(reply)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.health())
}

type Health struct {
	FrameID     uint64  `json:"frame_id"`
	UptimeS     float64 `json:"uptime_s"`
	Count       int     `json:"count"`
	Driver      string  `json:"driver"`
	Pattern     int     `json:"pattern"`
	PatternName string  `json:"pattern_name,omitempty"`
	Brightness  uint8   `json:"brightness"`
}

func (s *Server) health() Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Health{
		FrameID:     s.frameID,
		UptimeS:     time.Since(s.startTime).Seconds(),
		Count:       s.opt.Count,
		Driver:      s.opt.Driver,
		Pattern:     s.pattern,
		PatternName: s.patternName,
		Brightness:  s.brightness,
	}
}

type frameMsg struct {
	T          int64  `json:"t"`
	FrameID    uint64 `json:"frame_id"`
	Brightness uint8  `json:"brightness"`
	RGB        []byte `json:"rgb"`
}

func (s *Server) onFrame(e events.FrameRendered) {
	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: e.FrameID, Brightness: e.Brightness, RGB: e.RGB})
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID = e.FrameID
	s.broadcast(s.clients, b)
}

func (s *Server) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast(s.diagClients, b)
}

// broadcast must run with s.mu held.
func (s *Server) broadcast(set map[*websocket.Conn]bool, b []byte) {
	for c := range set {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("websocket write")
		}
	}
}

func (s *Server) clientCounts() (frames, diags int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients), len(s.diagClients)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
