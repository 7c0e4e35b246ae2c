package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"focusconsole/internal/domain/ports"
)

// DefaultLevel - уровень логирования, если в конфигурации ничего не задано.
const DefaultLevel = zerolog.WarnLevel

// ZeroLogger реализует интерфейс ports.Logger поверх zerolog.
type ZeroLogger struct {
	logger zerolog.Logger
}

// NewZeroLogger создает логгер, пишущий человекочитаемые строки в w.
// Цвет включается только когда w - терминал.
func NewZeroLogger(w io.Writer, level zerolog.Level) ports.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: "15:04:05",
	}
	return &ZeroLogger{
		logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

// NewNop создает логгер, который ничего не выводит.
func NewNop() ports.Logger {
	return &ZeroLogger{logger: zerolog.Nop()}
}

// ParseLevel разбирает уровень логирования. Пустая строка дает DefaultLevel.
func ParseLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	default:
		return DefaultLevel, fmt.Errorf("unknown log level %q", raw)
	}
}

// Debug выводит отладочную информацию.
func (l *ZeroLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug().Msgf(msg, args...)
}

// Info выводит информационные сообщения.
func (l *ZeroLogger) Info(msg string, args ...interface{}) {
	l.logger.Info().Msgf(msg, args...)
}

// Warn выводит предупреждения.
func (l *ZeroLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn().Msgf(msg, args...)
}

// Error выводит ошибки.
func (l *ZeroLogger) Error(msg string, args ...interface{}) {
	l.logger.Error().Msgf(msg, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
