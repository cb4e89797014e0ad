// Command medrag answers medical questions grounded in uploaded documents.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/medrag/internal/adapters/driven/agent/container"
	"github.com/custodia-labs/medrag/internal/adapters/driven/agent/general"
	"github.com/custodia-labs/medrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/medrag/internal/adapters/driven/embedding"
	embedopenai "github.com/custodia-labs/medrag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/medrag/internal/adapters/driven/embedding/primary"
	"github.com/custodia-labs/medrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medrag/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/medrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/medrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/core/services"
	"github.com/custodia-labs/medrag/internal/logger"
	"github.com/custodia-labs/medrag/internal/normalisers"
	"github.com/custodia-labs/medrag/internal/postprocessors/chunker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logger.Error(err, "medrag failed")
		os.Exit(1)
	}
}

func run() error {
	if err := file.LoadEnvFile(".env"); err != nil {
		return err
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}

	// Settings errors are reported but do not block commands such as
	// "config set" that are needed to fix them.
	settings, settingsErr := file.LoadSettings(configStore)
	cli.SetVersion(version)
	cli.SetConfigEditor(configStore)
	if settingsErr != nil {
		logger.Error(settingsErr, "invalid configuration")
		return cli.Execute()
	}

	ctx := context.Background()
	store, closer, err := openStore(ctx, settings.Storage)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("failed to open prompts: %w", err)
	}
	instructions, err := prompts.Load(driven.PromptInstructions)
	if err != nil {
		logger.Warn("using built-in instructions: %v", err)
		instructions = domain.DefaultInstructions
	}

	embedder := services.NewEmbeddingProvider(embeddingStrategies(settings.Embedding)...)
	router := services.NewAgentRouter(settings.Agent.Default,
		container.New(container.Config{
			BaseURL: settings.Agent.ContainerURL,
			Timeout: settings.Agent.Timeout,
		}),
		general.New(general.Config{
			APIKey:  settings.Agent.OpenAIKey,
			BaseURL: settings.Agent.OpenAIURL,
			Model:   settings.Agent.Model,
			Timeout: settings.Agent.Timeout,
			Prompts: prompts,
		}),
	)

	cli.SetServices(cli.Services{
		Upload: services.NewUploadService(
			normalisers.Default(), chunker.FromSettings(settings.Chunking), embedder, store, store,
		),
		Consultation: services.NewConsultationService(
			services.NewEmergencyGate(settings.Keywords()),
			embedder,
			services.NewRetriever(store),
			services.NewPromptAssembler(instructions),
			router,
			store,
			services.ConsultationConfig{
				TopK:        settings.Retrieval.TopK,
				Threshold:   settings.Retrieval.Threshold,
				Temperature: settings.Agent.Temperature,
			},
		),
		Document: services.NewDocumentService(store, store),
		Health:   services.NewHealthService(embedder, router),
	})
	cli.SetIdentity(cli.Identity{UserID: settings.User.ID, UserToken: settings.User.Token})

	return cli.Execute()
}

// persistence is everything the services persist through.
type persistence interface {
	driven.DocumentStore
	driven.ChunkStore
	driven.ConsultationStore
}

// openStore opens the configured backend. The closer is nil for memory.
func openStore(ctx context.Context, cfg domain.StorageSettings) (persistence, io.Closer, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		logger.Warn("memory storage: uploads are lost on exit")
		return memory.NewStore(), nil, nil
	case domain.StoragePostgres:
		s, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return s, s, nil
	default:
		s, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, s, nil
	}
}

// embeddingStrategies returns the configured strategies in fallback order.
func embeddingStrategies(cfg domain.EmbeddingSettings) []driven.EmbeddingStrategy {
	pacing := embedding.RateLimitConfig{RequestsPerSecond: cfg.RequestsPerSecond}

	var out []driven.EmbeddingStrategy
	if cfg.PrimaryConfigured() {
		out = append(out, embedding.Paced(primary.New(primary.Config{
			BaseURL: cfg.PrimaryURL,
			Timeout: cfg.Timeout,
		}), pacing))
	}
	if cfg.SecondaryConfigured() {
		out = append(out, embedding.Paced(embedopenai.New(embedopenai.Config{
			APIKey:  cfg.SecondaryAPIKey,
			BaseURL: cfg.SecondaryBaseURL,
			Model:   cfg.SecondaryModel,
			Timeout: cfg.Timeout,
		}), pacing))
	}
	return out
}
