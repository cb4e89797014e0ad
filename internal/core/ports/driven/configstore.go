package driven

// ConfigStore is a flat key/value view over the user's configuration.
// Keys are dotted paths into the TOML tables ("retrieval.top_k").
//
// The typed getters return the zero value when a key is absent or holds
// a different type; callers needing to tell the two apart use Get.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set updates key and writes the configuration through to storage.
	Set(key string, value any) error

	// Load replaces the in-memory view with what storage holds.
	Load() error

	// Save writes the in-memory view to storage.
	Save() error

	// Path is the backing file, or a descriptive name for non-file stores.
	Path() string
}
