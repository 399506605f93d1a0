package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"task-tracker/internal/config"
	"task-tracker/internal/metrics"
	"task-tracker/internal/services"
	"task-tracker/internal/web"
)

// ServeCommand runs the web server
type ServeCommand struct {
	tasks  services.TaskService
	config *config.Config
	log    *logrus.Logger
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(tasks services.TaskService, cfg *config.Config, log *logrus.Logger) *ServeCommand {
	return &ServeCommand{tasks: tasks, config: cfg, log: log}
}

// Execute serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	server, err := c.Server()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

// Server wires the handler, metrics and middleware into a web server
func (c *ServeCommand) Server() (*web.Server, error) {
	var m *metrics.Metrics
	if c.config.Metrics.Enabled {
		m = metrics.New()
	}

	opts := []web.HandlerOption{
		web.WithLogger(c.log),
		web.WithMetrics(m),
		web.WithTitleMaxLength(c.config.Validation.TitleMaxLength),
	}
	if c.config.Security.CSRFEnabled {
		key, err := c.config.Security.CSRFAuthKey()
		if err != nil {
			return nil, err
		}
		if key == nil {
			c.log.Info("no csrf key configured, using a random key")
		}
		opts = append(opts, web.WithCSRF(key, c.config.Security.CSRFSecureCookie))
	}

	handler, err := web.NewHandler(c.tasks, opts...)
	if err != nil {
		return nil, err
	}

	return web.NewServer(*c.config, handler,
		web.WithServerLogger(c.log),
		web.WithServerMetrics(m),
	), nil
}
