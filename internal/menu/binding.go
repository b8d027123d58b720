package menu

// Binding is the engine's view of the configuration store. Values are the
// store's plain document values: int, float64, string, bool, or lists and
// maps of those.
//
// config.Store implements Binding.
type Binding interface {
	// Get returns the value at a dotted path, or an error if it is missing.
	Get(path string) (interface{}, error)
	// Set validates and stores a value at a dotted path.
	Set(path string, value interface{}) error
	// Reload discards unsaved changes and re-reads durable storage.
	Reload() error
}
