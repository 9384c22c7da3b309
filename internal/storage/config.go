package storage

import (
	"code.assetex.io/assetex/internal/config/encoding"
	"code.assetex.io/assetex/internal/logging"

	"github.com/pkg/errors"
)

// namedLogger is the identifier for package and should ideally match
// the package name; it is emitted as a hierarchical label.
const namedLogger = "storage"

// Store backends.
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

type Config struct {
	Level encoding.LogLevel

	// Backend selects the store implementation, "badger" for the
	// persistent store or "memory" for an ephemeral one.
	Backend    string
	Directory  string
	SyncWrites bool
}

// NewDefaultConfig creates an instance of the package-specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:      encoding.LogLevel{Level: logging.InfoLevel},
		Backend:    BackendBadger,
		Directory:  "ledger",
		SyncWrites: true,
	}
}

// NewStore opens the ledger store described by the configuration.
func NewStore(log *logging.Logger, cfg Config) (Store, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	switch cfg.Backend {
	case BackendBadger:
		return NewBadgerStore(log, cfg)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
