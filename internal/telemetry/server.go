package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/olivier-w/rundash/internal/ring"
	"github.com/olivier-w/rundash/internal/sim"
	"go.uber.org/zap"
)

// ServerConfig configures the telemetry backend.
type ServerConfig struct {
	Addr           string
	FrameInterval  time.Duration // how often the simulated drive advances
	SampleInterval time.Duration // how often a history record is taken
	HistorySize    int
	Field          sim.Options
	Autostart      bool
}

type controlAction string

const (
	actionStart controlAction = "start"
	actionStop  controlAction = "stop"
	actionReset controlAction = "reset"
)

type command struct {
	action controlAction
	done   chan struct{}
}

// Status is the body returned by the control endpoints.
type Status struct {
	Running bool    `json:"running"`
	RunID   string  `json:"run_id"`
	Reading Reading `json:"reading"`
}

// Server publishes a simulated drive over HTTP. The simulation loop is owned
// by the drive goroutine; handlers only read the published snapshot or send
// commands to that goroutine.
type Server struct {
	cfg    ServerConfig
	logger *zap.Logger

	mu      sync.RWMutex
	reading Reading
	running bool
	runID   string
	history *ring.Buffer[Record]

	cmds      chan command
	driveDone chan struct{} // closed when drive returns
	now       func() time.Time

	httpServer *http.Server
	addr       string
}

// NewServer creates a Server. Zero intervals and sizes fall back to 1/60 s
// frames, 1 s samples and 100 records.
func NewServer(cfg ServerConfig, logger *zap.Logger) *Server {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / 60
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = time.Second
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		runID:   uuid.NewString(),
		history: ring.New[Record](cfg.HistorySize),
		cmds:      make(chan command),
		driveDone: make(chan struct{}),
		now:       time.Now,
	}
}

// Addr returns the address the server is listening on. Returns empty string
// if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+sensorPath, s.handleSensor)
	mux.HandleFunc("GET "+historyPath, s.handleHistory)
	mux.HandleFunc("POST /api/control/{action}", s.handleControl)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the simulated drive and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Unlock()

	driveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.drive(driveCtx)

	serveDone := make(chan struct{})
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("telemetry server shutdown", zap.Error(err))
		}
	}()

	s.logger.Info("telemetry server listening",
		zap.String("addr", s.addr),
		zap.String("run_id", s.RunID()),
		zap.Int("history_size", s.history.Cap()),
	)
	err = s.httpServer.Serve(ln)
	close(serveDone)
	<-shutdownDone
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// RunID returns the identifier of the current run.
func (s *Server) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// drive owns the simulation loop until ctx is cancelled.
func (s *Server) drive(ctx context.Context) {
	defer close(s.driveDone)
	sched := sim.NewManualScheduler()
	loop := sim.New(sched, s.cfg.Field)
	loop.AddDisplay(sim.DisplayFunc(s.publish))

	if s.cfg.Autostart {
		loop.Start()
		s.setRunning(true)
	}

	frames := time.NewTicker(s.cfg.FrameInterval)
	defer frames.Stop()
	samples := time.NewTicker(s.cfg.SampleInterval)
	defer samples.Stop()

	for {
		select {
		case <-ctx.Done():
			loop.Stop()
			return
		case <-frames.C:
			sched.Fire()
		case <-samples.C:
			s.sample()
		case cmd := <-s.cmds:
			s.apply(loop, cmd.action)
			close(cmd.done)
		}
	}
}

func (s *Server) apply(loop *sim.Loop, action controlAction) {
	switch action {
	case actionStart:
		loop.Start()
	case actionStop:
		loop.Stop()
	case actionReset:
		loop.Reset()
		s.history.Clear()
		s.mu.Lock()
		s.runID = uuid.NewString()
		s.mu.Unlock()
	}
	s.setRunning(loop.Running())
	s.logger.Info("control", zap.String("action", string(action)), zap.Bool("running", loop.Running()), zap.String("run_id", s.RunID()), zap.Int("history", s.history.Len()))
}

func (s *Server) publish(speed, distance float64) {
	s.mu.Lock()
	s.reading = Reading{Speed: speed, Distance: distance}
	s.mu.Unlock()
}

func (s *Server) setRunning(running bool) {
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
}

// sample records the current reading while the drive is running.
func (s *Server) sample() {
	s.mu.RLock()
	r, running := s.reading, s.running
	s.mu.RUnlock()
	if !running {
		return
	}
	s.history.Push(Record{Speed: r.Speed, Distance: r.Distance, Time: s.now().UTC()})
}

func (s *Server) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Running: s.running, RunID: s.runID, Reading: s.reading}
}

func (s *Server) handleSensor(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	reading := s.reading
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h := History{RunID: s.RunID(), Records: s.history.Items()}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	action := controlAction(r.PathValue("action"))
	switch action {
	case actionStart, actionStop, actionReset:
	default:
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown action %q", action))
		return
	}

	cmd := command{action: action, done: make(chan struct{})}
	select {
	case s.cmds <- cmd:
	case <-s.driveDone:
		writeJSONError(w, http.StatusServiceUnavailable, "simulation not running")
		return
	case <-r.Context().Done():
		writeJSONError(w, http.StatusServiceUnavailable, "simulation not running")
		return
	}
	select {
	case <-cmd.done:
	case <-s.driveDone:
		writeJSONError(w, http.StatusServiceUnavailable, "simulation not running")
		return
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
