package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/logging"
)

// InitLogger tags the configured logger with app and installs it as the
// global logger. Format and level follow logging.Current.
func InitLogger(app string) zerolog.Logger {
	cfg, w := logging.Current()
	logger := logging.New(w, cfg).With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
