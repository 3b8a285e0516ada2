package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofrs/flock"

	"forcealign/internal/align"
	"forcealign/internal/api"
	"forcealign/internal/config"
	"forcealign/internal/logging"
	"forcealign/internal/services"
	"forcealign/internal/store"
)

const (
	defaultRunLimit = 50
	defaultLogLimit = 200
	logBufferSize   = 1024
	shutdownTimeout = 5 * time.Second
)

// RunStore is the run persistence the server reads and writes.
type RunStore interface {
	api.RunReader
	api.RunWriter
}

// Server serves the alignment API.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	store  RunStore
	runs   *api.RunService
	hub    *logging.StreamHub
	app    *fiber.App

	listener net.Listener
}

// New builds the fiber application. runs may be nil when the store is disabled.
func New(cfg *config.Config, runs RunStore, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "server", "new", "configuration is required", nil)
	}
	hub := logging.NewStreamHub(logBufferSize)
	s := &Server{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logging.NewStreamLogger(logger, hub), "api-server"),
		store:  runs,
		hub:    hub,
	}
	if runs != nil {
		s.runs = api.NewRunService(runs)
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.API.BodyLimitMiB * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		// Ctx strings outlive the request in the log buffer.
		Immutable:             true,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())
	app.Use(s.requestContext)

	app.Get("/healthz", s.handleHealth)
	v1 := app.Group("/v1", bearerAuth(cfg.API.Token))
	v1.Post("/align", s.handleAlign)
	v1.Get("/runs", s.handleRuns)
	v1.Get("/runs/:id", s.handleRun)
	v1.Get("/logs", s.handleLogs)

	s.app = app
	return s, nil
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// Addr returns the bound address once Serve is listening.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// LockPath is the file Serve locks to keep one server per state directory.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, "forcealign-api.lock")
}

// Serve listens on api.bind until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	lock := flock.New(LockPath(s.cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire server lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another forcealign server is using %s", s.cfg.Paths.StateDir)
	}
	defer func() { _ = lock.Unlock() }()

	listener, err := net.Listen("tcp", s.cfg.API.Bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listener(listener)
	}()
	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("store", s.runs != nil),
		logging.Bool("auth", s.cfg.API.Token != ""),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return <-errCh
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(api.HealthResponse{
		Status:  "ok",
		Store:   s.runs != nil,
		Methods: align.Methods(),
	})
}

func (s *Server) handleAlign(c *fiber.Ctx) error {
	input, err := api.DecodeAlignPayload(c.Body(), s.cfg.Alignment.BlankToken)
	if err != nil {
		return err
	}
	outcome, err := api.Align(c.UserContext(), api.AlignRequest{
		Config:        s.cfg,
		Logger:        s.logger,
		Store:         s.store,
		Source:        store.SourceAPI,
		Transcript:    input.Transcript,
		Emissions:     input.Emissions,
		Vocabulary:    input.Vocabulary,
		AudioDuration: input.AudioDuration,
		Overrides:     input.Overrides,
	})
	if err != nil {
		return err
	}
	return c.JSON(api.AlignResponse{
		RunID:      outcome.RunID,
		DurationMS: outcome.Elapsed.Milliseconds(),
		Result:     outcome.Result,
	})
}

func (s *Server) handleRuns(c *fiber.Ctx) error {
	limit := defaultRunLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	runs, err := s.runs.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []api.RunSummary{}
	}
	return c.JSON(api.RunListResponse{Runs: runs})
}

func (s *Server) handleRun(c *fiber.Ctx) error {
	if s.runs == nil {
		return fiber.NewError(fiber.StatusNotFound, "run history is disabled")
	}
	detail, err := s.runs.Describe(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if detail == nil {
		return fiber.NewError(fiber.StatusNotFound, "run not found")
	}
	return c.JSON(detail)
}

func (s *Server) handleLogs(c *fiber.Ctx) error {
	since, err := queryUint(c, "since")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid since")
	}
	limit := defaultLogLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	follow := c.QueryBool("follow", false)
	component := strings.TrimSpace(c.Query("component"))

	var (
		events []logging.LogEvent
		next   uint64
	)
	if since == 0 && !follow {
		events, next = s.hub.Tail(limit)
	} else {
		ctx, cancel := context.WithTimeout(c.UserContext(), 25*time.Second)
		defer cancel()
		events, next, err = s.hub.Fetch(ctx, since, limit, follow)
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	filtered := make([]logging.LogEvent, 0, len(events))
	for _, evt := range events {
		if component != "" && !strings.EqualFold(component, evt.Component) {
			continue
		}
		filtered = append(filtered, evt)
	}
	return c.JSON(api.LogStreamResponse{Events: filtered, Next: next})
}

func queryUint(c *fiber.Ctx, key string) (uint64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := services.HTTPStatus(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	requestID, _ := services.RequestIDFromContext(c.UserContext())
	if status >= fiber.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(c.UserContext(), s.logger), "request failed", "api_request_failed",
			logging.Error(err),
			logging.String("path", c.Path()),
		)
	}
	return c.Status(status).JSON(api.ErrorResponse{Error: err.Error(), RequestID: requestID})
}
