package driven

// ConfigStore is a flat key/value view over the persisted configuration.
// Keys use dot notation ("chunking.size"); typed getters return the zero
// value when a key is missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int

	// GetFloat widens integers.
	GetFloat(key string) float64

	// Set stores value and persists it immediately.
	Set(key string, value any) error

	// Save writes the whole configuration.
	Save() error

	// Load re-reads the configuration, replacing unsaved values.
	Load() error

	// Path returns the backing file.
	Path() string
}
