package collector

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/neurograsp/handd/pkg/telemetry"
)

// Server accepts device telemetry over HTTP and streams it to
// websocket watchers.
type Server struct {
	app    *fiber.App
	addr   string
	hub    *Hub
	logger *slog.Logger

	mu       sync.RWMutex
	last     telemetry.Snapshot
	received uint64
}

// NewServer creates the collector server.
func NewServer(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:   addr,
		hub:    NewHub(logger),
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		AppName:               "handd-collector",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/healthz", s.handleHealthz)
	api.Post("/telemetry", s.handleIngest)
	api.Get("/last", s.handleLast)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleWatch))

	s.app = app
	return s
}

// Listen runs the hub and serves until Shutdown. Blocks.
func (s *Server) Listen() error {
	go s.hub.Run()
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server and the fan-out loop.
func (s *Server) Shutdown() error {
	s.hub.Stop()
	return s.app.Shutdown()
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	s.mu.RLock()
	received := s.received
	s.mu.RUnlock()
	return c.JSON(fiber.Map{"ok": true, "received": received, "watchers": s.hub.Watchers()})
}

// handleIngest accepts one snapshot from a device.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	var snap telemetry.Snapshot
	if err := c.BodyParser(&snap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed snapshot"})
	}

	s.mu.Lock()
	s.last = snap
	s.received++
	s.mu.Unlock()

	s.logger.Info("telemetry",
		"session", snap.SessionID,
		"pose", snap.Pose,
		"angles", snap.Angles,
		"hr", snap.HeartRate,
		"spo2", snap.SpO2)

	s.hub.BroadcastJSON(snap)
	return c.SendStatus(fiber.StatusNoContent)
}

// handleLast returns the most recent snapshot.
func (s *Server) handleLast(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.received == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no telemetry yet"})
	}
	return c.JSON(s.last)
}

func (s *Server) handleWatch(conn *websocket.Conn) {
	NewClient(s.hub, conn).Run()
}
