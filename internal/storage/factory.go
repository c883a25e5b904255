package storage

import "fmt"

// NewStore builds a store for the given kind. Supported kinds are
// "memory" and, when built with the sqlite tag, "sqlite".
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// DefaultStoreKind reports the store kind used when none is configured.
func DefaultStoreKind() string {
	return defaultStoreKind
}

// CloseIfSupported closes stores that hold external resources.
func CloseIfSupported(s Store) error {
	if closer, ok := s.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
