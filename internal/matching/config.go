package matching

import (
	"code.assetex.io/assetex/internal/config/encoding"
	"code.assetex.io/assetex/internal/logging"
)

// namedLogger is the identifier for package and should ideally match
// the package name; it is emitted as a hierarchical label.
const namedLogger = "matching"

type Config struct {
	Level encoding.LogLevel

	LogCandidatesDebug bool
}

// NewDefaultConfig creates an instance of the package-specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:              encoding.LogLevel{Level: logging.InfoLevel},
		LogCandidatesDebug: false,
	}
}
