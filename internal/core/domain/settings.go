package domain

import "time"

// StorageBackend selects the chunk store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite is the embedded local database.
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres is a Postgres database with the pgvector extension.
	StoragePostgres StorageBackend = "postgres"

	// StorageMemory keeps everything in process memory.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StoragePostgres || b == StorageMemory
}

// Defaults for the RAG pipeline.
const (
	DefaultChunkSize           = 3000
	DefaultChunkOverlap        = 200
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.7
	DefaultFallbackLimit       = 3
	DefaultFallbackSimilarity  = 0.5
	DefaultMaxEmbeddingChars   = 8000
	DefaultEmbeddingTimeout    = 30 * time.Second
	DefaultAgentTimeout        = 60 * time.Second
	DefaultTemperature         = 0.7
	DefaultSecondaryModel      = "text-embedding-3-small"
	DefaultChatModel           = "gpt-4o-mini"
)

// DefaultEmergencyKeywords are matched case-insensitively against every query.
var DefaultEmergencyKeywords = []string{
	"chest pain", "difficulty breathing", "severe bleeding", "unconscious",
	"heart attack", "stroke", "seizure", "severe allergic reaction",
	"suicidal thoughts", "overdose", "can't breathe", "choking",
	"severe headache", "loss of consciousness", "severe abdominal pain",
	"severe burns", "poisoning", "drug overdose", "suicide", "kill myself",
}

// UserSettings identifies the caller. Both values are opaque.
type UserSettings struct {
	ID    string
	Token string
}

// StorageSettings configures persistence.
type StorageSettings struct {
	Backend     StorageBackend
	DataDir     string
	PostgresURL string
}

// EmbeddingSettings configures the embedding strategies.
type EmbeddingSettings struct {
	// PrimaryURL is the domain-specific service base URL.
	PrimaryURL string

	// SecondaryAPIKey authenticates the general-purpose service.
	SecondaryAPIKey string

	// SecondaryBaseURL overrides the OpenAI-compatible endpoint.
	SecondaryBaseURL string

	// SecondaryModel is the general-purpose embedding model.
	SecondaryModel string

	// Timeout bounds each embedding call.
	Timeout time.Duration

	// RequestsPerSecond paces embedding calls; zero disables pacing.
	RequestsPerSecond float64
}

// PrimaryConfigured returns true if the primary endpoint is set.
func (s EmbeddingSettings) PrimaryConfigured() bool {
	return s.PrimaryURL != ""
}

// SecondaryConfigured returns true if the secondary API key is set.
func (s EmbeddingSettings) SecondaryConfigured() bool {
	return s.SecondaryAPIKey != ""
}

// AgentSettings configures the chat agents.
type AgentSettings struct {
	Default      AgentID
	ContainerURL string
	OpenAIKey    string
	OpenAIURL    string
	Model        string
	Temperature  float64
	Timeout      time.Duration
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings configures similarity search.
type RetrievalSettings struct {
	TopK      int
	Threshold float64
}

// Settings is the complete runtime configuration.
type Settings struct {
	User      UserSettings
	Storage   StorageSettings
	Embedding EmbeddingSettings
	Agent     AgentSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings

	// EmergencyKeywords extends DefaultEmergencyKeywords.
	EmergencyKeywords []string
}

// DefaultSettings returns settings populated with pipeline defaults.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{Backend: StorageSQLite},
		Embedding: EmbeddingSettings{
			SecondaryModel: DefaultSecondaryModel,
			Timeout:        DefaultEmbeddingTimeout,
		},
		Agent: AgentSettings{
			Default:     AgentContainer,
			Model:       DefaultChatModel,
			Temperature: DefaultTemperature,
			Timeout:     DefaultAgentTimeout,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK:      DefaultTopK,
			Threshold: DefaultSimilarityThreshold,
		},
	}
}

// Keywords returns the default emergency keywords followed by any extras.
func (s Settings) Keywords() []string {
	out := make([]string, 0, len(DefaultEmergencyKeywords)+len(s.EmergencyKeywords))
	out = append(out, DefaultEmergencyKeywords...)
	out = append(out, s.EmergencyKeywords...)
	return out
}
