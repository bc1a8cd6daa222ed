package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger возвращает zerolog.Logger.
// APP_ENV=dev (или development) включает человекочитаемый вывод.
func NewLogger(env string, debug bool) zerolog.Logger {
	return newLogger(os.Stdout, env, debug)
}

func newLogger(out io.Writer, env string, debug bool) zerolog.Logger {
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
