package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Configuration keys. Each key can be overridden by an environment
// variable named MEDRAG_ plus the upper-cased key with dots as underscores,
// e.g. MEDRAG_EMBEDDING_PRIMARY_URL.
const (
	KeyUserID    = "user.id"
	KeyUserToken = "user.token"

	KeyStorageBackend     = "storage.backend"
	KeyStorageDataDir     = "storage.data_dir"
	KeyStoragePostgresURL = "storage.postgres_url"

	KeyEmbeddingPrimaryURL       = "embedding.primary_url"
	KeyEmbeddingSecondaryAPIKey  = "embedding.secondary_api_key"
	KeyEmbeddingSecondaryBaseURL = "embedding.secondary_base_url"
	KeyEmbeddingSecondaryModel   = "embedding.secondary_model"
	KeyEmbeddingTimeoutSeconds   = "embedding.timeout_seconds"
	KeyEmbeddingRequestsPerSec   = "embedding.requests_per_second"

	KeyAgentDefault        = "agent.default"
	KeyAgentContainerURL   = "agent.container_url"
	KeyAgentOpenAIKey      = "agent.openai_api_key"
	KeyAgentOpenAIURL      = "agent.openai_base_url"
	KeyAgentModel          = "agent.model"
	KeyAgentTemperature    = "agent.temperature"
	KeyAgentTimeoutSeconds = "agent.timeout_seconds"

	KeyChunkingSize    = "chunking.size"
	KeyChunkingOverlap = "chunking.overlap"

	KeyRetrievalTopK      = "retrieval.top_k"
	KeyRetrievalThreshold = "retrieval.threshold"

	KeyEmergencyKeywords = "emergency.keywords"
)

// Keys lists every recognised configuration key.
var Keys = []string{
	KeyUserID, KeyUserToken,
	KeyStorageBackend, KeyStorageDataDir, KeyStoragePostgresURL,
	KeyEmbeddingPrimaryURL, KeyEmbeddingSecondaryAPIKey, KeyEmbeddingSecondaryBaseURL,
	KeyEmbeddingSecondaryModel, KeyEmbeddingTimeoutSeconds, KeyEmbeddingRequestsPerSec,
	KeyAgentDefault, KeyAgentContainerURL, KeyAgentOpenAIKey, KeyAgentOpenAIURL,
	KeyAgentModel, KeyAgentTemperature, KeyAgentTimeoutSeconds,
	KeyChunkingSize, KeyChunkingOverlap,
	KeyRetrievalTopK, KeyRetrievalThreshold,
	KeyEmergencyKeywords,
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return "MEDRAG_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// LoadEnvFile loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadSettings builds typed settings from defaults, the config store and
// MEDRAG_* environment variables, in increasing precedence.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	r := resolver{store: store}
	s := domain.DefaultSettings()

	s.User.ID = r.str(KeyUserID, "")
	s.User.Token = r.str(KeyUserToken, "")

	s.Storage.Backend = domain.StorageBackend(r.str(KeyStorageBackend, string(s.Storage.Backend)))
	s.Storage.DataDir = r.str(KeyStorageDataDir, "")
	if s.Storage.DataDir == "" && store != nil && store.Path() != "" {
		s.Storage.DataDir = filepath.Dir(store.Path())
	}
	s.Storage.PostgresURL = r.str(KeyStoragePostgresURL, os.Getenv("DATABASE_URL"))

	openAIKey := os.Getenv("OPENAI_API_KEY")
	s.Embedding.PrimaryURL = r.str(KeyEmbeddingPrimaryURL, "")
	s.Embedding.SecondaryAPIKey = r.str(KeyEmbeddingSecondaryAPIKey, openAIKey)
	s.Embedding.SecondaryBaseURL = r.str(KeyEmbeddingSecondaryBaseURL, "")
	s.Embedding.SecondaryModel = r.str(KeyEmbeddingSecondaryModel, s.Embedding.SecondaryModel)
	s.Embedding.Timeout = r.seconds(KeyEmbeddingTimeoutSeconds, s.Embedding.Timeout)
	s.Embedding.RequestsPerSecond = r.float(KeyEmbeddingRequestsPerSec, 0)

	s.Agent.Default = domain.AgentID(r.str(KeyAgentDefault, string(s.Agent.Default)))
	s.Agent.ContainerURL = r.str(KeyAgentContainerURL, "")
	s.Agent.OpenAIKey = r.str(KeyAgentOpenAIKey, openAIKey)
	s.Agent.OpenAIURL = r.str(KeyAgentOpenAIURL, "")
	s.Agent.Model = r.str(KeyAgentModel, s.Agent.Model)
	s.Agent.Temperature = r.float(KeyAgentTemperature, s.Agent.Temperature)
	s.Agent.Timeout = r.seconds(KeyAgentTimeoutSeconds, s.Agent.Timeout)

	s.Chunking.Size = int(r.float(KeyChunkingSize, float64(s.Chunking.Size)))
	s.Chunking.Overlap = int(r.float(KeyChunkingOverlap, float64(s.Chunking.Overlap)))

	s.Retrieval.TopK = int(r.float(KeyRetrievalTopK, float64(s.Retrieval.TopK)))
	s.Retrieval.Threshold = r.float(KeyRetrievalThreshold, s.Retrieval.Threshold)

	s.EmergencyKeywords = r.list(KeyEmergencyKeywords)

	if r.err != nil {
		return s, r.err
	}
	return s, validate(s)
}

func validate(s domain.Settings) error {
	switch {
	case !s.Storage.Backend.IsValid():
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, s.Storage.Backend)
	case s.Storage.Backend == domain.StoragePostgres && s.Storage.PostgresURL == "":
		return fmt.Errorf("%w: %s is required for the postgres backend", domain.ErrInvalidInput, KeyStoragePostgresURL)
	case !s.Agent.Default.IsValid():
		return fmt.Errorf("%w: unknown agent %q", domain.ErrInvalidInput, s.Agent.Default)
	case s.Chunking.Size <= 0:
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyChunkingSize)
	case s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size:
		return fmt.Errorf("%w: %s must be in [0, %s)", domain.ErrInvalidInput, KeyChunkingOverlap, KeyChunkingSize)
	case s.Retrieval.Threshold < 0 || s.Retrieval.Threshold > 1:
		return fmt.Errorf("%w: %s must be in [0, 1]", domain.ErrInvalidInput, KeyRetrievalThreshold)
	}
	return nil
}

// resolver reads a key from the environment first, then the store.
// The first parse failure is kept in err.
type resolver struct {
	store driven.ConfigStore
	err   error
}

func (r *resolver) raw(key string) (any, bool) {
	if v, ok := os.LookupEnv(EnvName(key)); ok && v != "" {
		return v, true
	}
	if r.store == nil {
		return nil, false
	}
	return r.store.Get(key)
}

func (r *resolver) str(key, fallback string) string {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	s, isString := v.(string)
	if !isString {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return fallback
	}
	return s
}

func (r *resolver) float(key string, fallback float64) float64 {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			r.fail(fmt.Errorf("%w: %s: %q is not a number", domain.ErrInvalidInput, key, n))
			return fallback
		}
		return f
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	default:
		r.fail(fmt.Errorf("%w: %s: unexpected type %T", domain.ErrInvalidInput, key, v))
		return fallback
	}
}

func (r *resolver) seconds(key string, fallback time.Duration) time.Duration {
	secs := r.float(key, -1)
	if secs <= 0 {
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}

func (r *resolver) list(key string) []string {
	if v, ok := os.LookupEnv(EnvName(key)); ok && v != "" {
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	if r.store == nil {
		return nil
	}
	return r.store.GetStringSlice(key)
}

func (r *resolver) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
