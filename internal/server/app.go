// Package server assembles storage, the image service client and the HTTP
// API, and runs them until the process is signalled.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/server/config"
	"github.com/Yijia-Z/dalle2-app/internal/server/httpapi"
	"github.com/Yijia-Z/dalle2-app/internal/services"
	"github.com/Yijia-Z/dalle2-app/internal/storage"
	"github.com/gin-gonic/gin"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Manager
	handler *httpapi.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel)

	store, err := storage.Open(ctx, c.Storage(), logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	history := services.NewHistoryService(store.Slots(), store.Blobs(), services.WithHistoryLogger(logger))
	client := imagegen.NewClient(c.OpenAIBaseURL,
		imagegen.WithTimeout(c.RequestTimeout),
		imagegen.WithRateLimit(c.RateLimitPerMinute),
		imagegen.WithLogger(logger),
	)
	studio := services.NewStudioService(client, history, logger)

	return &App{
		config:  c,
		logger:  logger,
		store:   store,
		handler: httpapi.NewHandler(studio, history, c.OpenAIAPIKey, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) router() *gin.Engine {
	if !strings.EqualFold(app.config.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpapi.NewRouter(app.handler, app.logger, []byte(app.config.SecretKey))
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddr, app.router(), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	if app.config.SecretKey == "" {
		app.logger.Warn(ctx, "no JWT secret configured, /api/v1 is unauthenticated")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
}
