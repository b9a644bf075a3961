// Package httpapi exposes the scheduling core over HTTP using Fiber.
package httpapi

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	recoverer "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/service"
)

const defaultRateLimit = 30 // allocation requests per client per minute

// Options wires the server to its services.
type Options struct {
	AppName       string
	RateLimit     int
	LimiterStore  fiber.Storage // nil keeps the limiter in memory
	Goals         *service.GoalService
	Allocator     *service.AllocatorService
	Planner       *service.PlannerService
	Matcher       *service.MatcherService
	Notifications port.NotificationRepository
	Ready         func(ctx context.Context) error // backing store probe for /healthz
	Log           *zap.Logger
}

type Server struct {
	app      *fiber.App
	opts     Options
	validate *validator.Validate
	log      *zap.Logger
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:     opts,
		validate: newValidator(),
		log:      opts.Log,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      opts.AppName,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.app.Use(recoverer.New())
	s.app.Use(s.requestLogger())

	s.routes()
	return s
}

// newValidator reports field names from json tags so validation errors match
// the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/v1")

	goals := api.Group("/goals")
	goals.Post("/", s.createGoal)
	goals.Get("/", s.listGoals)
	goals.Get("/:id", s.getGoal)
	goals.Delete("/:id", s.deleteGoal)
	goals.Get("/:id/progress", s.goalProgress)
	goals.Get("/:id/tasks", s.listGoalTasks)
	goals.Post("/:id/tasks", s.allocateLimiter(), s.allocateTasks)

	tasks := api.Group("/tasks")
	tasks.Patch("/:id/status", s.updateTaskStatus)
	tasks.Delete("/:id", s.deleteTask)

	api.Get("/schedule", s.upcomingTasks)
	api.Get("/schedule/overdue", s.overdueTasks)

	profiles := api.Group("/profiles")
	profiles.Put("/:userID", s.upsertProfile)
	profiles.Get("/:userID", s.getProfile)
	profiles.Get("/:userID/matches", s.peerMatches)

	notifications := api.Group("/notifications")
	notifications.Get("/", s.listNotifications)
	notifications.Post("/:id/read", s.markNotificationRead)

	api.Post("/documents/extract", s.extractDocument)
}

// allocateLimiter throttles the write-heavy allocation endpoint. With a Redis
// backed store the limit holds across api replicas.
func (s *Server) allocateLimiter() fiber.Handler {
	max := s.opts.RateLimit
	if max <= 0 {
		max = defaultRateLimit
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		Storage:    s.opts.LimiterStore,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "allocation rate limit exceeded")
		},
	})
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Resolve errors here so the logged status is the one sent.
		if err := c.Next(); err != nil {
			if handleErr := s.errorHandler(c, err); handleErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		s.log.Info("Handled request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)))
		return nil
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Listen blocks serving HTTP until the listener fails or shuts down.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
