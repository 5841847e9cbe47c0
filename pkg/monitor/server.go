// Package monitor provides a small web surface over a typing session:
// a status API, a state websocket and the Prometheus endpoint. It is a
// read-only observer; nothing here feeds back into decoding.
package monitor

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/blinktalk/go-blinktalk/internal/log"
	"github.com/blinktalk/go-blinktalk/internal/metrics"
	"github.com/blinktalk/go-blinktalk/pkg/hub"
	"github.com/blinktalk/go-blinktalk/pkg/session"
)

// Server is the monitor web server.
type Server struct {
	app  *fiber.App
	port string

	stateHub *hub.Hub

	snapshot session.Snapshot
	snapMu   sync.RWMutex
}

// NewServer creates a monitor server on the given port. m may be nil
// to skip the /metrics endpoint.
func NewServer(port string, m *metrics.Metrics) *Server {
	s := &Server{
		port:     port,
		stateHub: hub.New(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "blinktalk monitor",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/api/status", s.handleStatus)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s
}

// Publish records and broadcasts a session snapshot. Safe to call from
// the frame loop; a saturated hub drops intermediate snapshots.
func (s *Server) Publish(snap session.Snapshot) {
	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		log.Error("snapshot encode failed", "error", err)
		return
	}
	s.stateHub.Broadcast(data)
}

// Run starts the hub and serves until Shutdown. Blocking.
func (s *Server) Run() error {
	go s.stateHub.Run()
	log.Info("monitor listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the hub loop and the server gracefully.
func (s *Server) Shutdown() error {
	s.stateHub.Stop()
	return s.app.Shutdown()
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return c.JSON(s.snapshot)
}

func (s *Server) handleStateWS(conn *websocket.Conn) {
	client := hub.NewClient(s.stateHub, conn)
	client.Run()
}
