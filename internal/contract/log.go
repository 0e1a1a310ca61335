package contract

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log formats supported by InitLogger.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// InitLogger configures the global zerolog logger used by the server, the render pool
// and the image pruner. CLI messages keep going through LogFatal and LogWarn.
func InitLogger(level, format string) error {
	return initLoggerTo(os.Stderr, level, format)
}

func initLoggerTo(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch strings.ToLower(format) {
	case LogFormatJSON:
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	case LogFormatConsole, "":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q. must be console or json", format)
	}
	return nil
}
