package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Yijia-Z/dalle2-app/internal/client/config"
	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/services"
	"github.com/Yijia-Z/dalle2-app/internal/storage"
)

type studioService interface {
	Generate(ctx context.Context, apiKey string, in services.GenerateInput) (*services.Result, error)
	Vary(ctx context.Context, apiKey string, in services.VariationInput) (*services.Result, error)
	Edit(ctx context.Context, apiKey string, in services.EditInput) (*services.Result, error)
}

type historyService interface {
	List(ctx context.Context) ([]models.GenerationRecord, error)
	Get(ctx context.Context, id string) (*models.GenerationRecord, error)
	Delete(ctx context.Context, ids ...string) (int, error)
	Image(ctx context.Context, key string) (*models.Image, error)
}

type credentialService interface {
	Save(ctx context.Context, apiKey string, passphrase []byte) error
	Load(ctx context.Context, passphrase []byte) (string, error)
	Exists(ctx context.Context) (bool, error)
	Fingerprint(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Where the active API key came from.
const (
	keyNone  = "none"
	keyEnv   = "env"
	keyVault = "vault"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	store     *storage.Manager
	studio    studioService
	history   historyService
	creds     credentialService
	out       io.Writer
	model     models.Model
	apiKey    string
	keySource string
	spent     float64
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, "text", c.LogLevel)

	model, err := models.ParseModel(c.DefaultModel)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, c.Storage(), logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}

	history := services.NewHistoryService(store.Slots(), store.Blobs(), services.WithHistoryLogger(logger))
	client := imagegen.NewClient(c.OpenAIBaseURL,
		imagegen.WithTimeout(c.RequestTimeout),
		imagegen.WithRateLimit(c.RateLimitPerMinute),
		imagegen.WithLogger(logger),
	)

	a := &App{
		config:    c,
		logger:    logger,
		store:     store,
		studio:    services.NewStudioService(client, history, logger),
		history:   history,
		creds:     services.NewCredentialService(store.Conn(), store.SlotFactory()),
		out:       os.Stdout,
		model:     model,
		keySource: keyNone,
	}
	if c.OpenAIAPIKey != "" {
		a.apiKey, a.keySource = c.OpenAIAPIKey, keyEnv
	}
	return a, nil
}

// Run starts the REPL on stdin and closes storage when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx, os.Stdin)
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) exportDir() string {
	if a.config == nil || a.config.ExportDir == "" {
		return "."
	}
	return a.config.ExportDir
}
