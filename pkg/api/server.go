// Package api exposes the command interface over HTTP. It is a thin
// dispatcher: handlers translate requests into calls on the control
// core's command interface and hold no state of their own.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/neurograsp/handd/pkg/hand"
)

// Server is the device command/status HTTP server.
type Server struct {
	app  *fiber.App
	addr string
	ctrl *hand.Controller
}

// NewServer creates the command API around a controller.
func NewServer(addr string, ctrl *hand.Controller) *Server {
	s := &Server{addr: addr, ctrl: ctrl}

	app := fiber.New(fiber.Config{
		AppName:               "handd",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/healthz", s.handleHealthz)
	api.Get("/status", s.handleStatus)
	api.Get("/poses", s.handlePoses)
	api.Post("/pose/:name", s.handlePose)
	api.Post("/stop", s.handleStop)
	api.Post("/resume", s.handleResume)

	s.app = app
	return s
}

// Listen serves until Shutdown is called. Blocks.
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "session_id": s.ctrl.SessionID()})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.ctrl.Status())
}

func (s *Server) handlePoses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"poses": s.ctrl.Poses()})
}

func (s *Server) handlePose(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.ctrl.SubmitPose(name); err != nil {
		status := fiber.StatusServiceUnavailable
		if errors.Is(err, hand.ErrUnknownPose) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"pose": name})
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	s.ctrl.Stop()
	return c.JSON(fiber.Map{"tripped": true})
}

func (s *Server) handleResume(c *fiber.Ctx) error {
	if err := s.ctrl.Resume(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"tripped": false})
}
