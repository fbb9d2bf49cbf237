package observability

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger wraps zerolog for structured logging. All log output goes to
// the diagnostic stream; stdout carries the data documents.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a structured logger tagged with the tool identity
// and a fresh run id, so diagnostics from concurrent invocations can
// be told apart.
func NewLogger(service, version string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Str("host", getHostname()).
		Str("run_id", uuid.New().String()).
		Logger()

	return &Logger{logger: logger}
}

// WithLevel returns a copy of the logger filtered to the named level.
// Unknown names fall back to info.
func (l *Logger) WithLevel(level string) *Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return &Logger{logger: l.logger.Level(parsed)}
}

// WithFile adds file context to the logger.
func (l *Logger) WithFile(path string, size int64) *Logger {
	return &Logger{
		logger: l.logger.With().
			Str("file_path", path).
			Int64("file_size", size).
			Logger(),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// FingerprintStarted logs the start of a write run.
func (l *Logger) FingerprintStarted(blocks int, algorithm string, excerptSize int) {
	l.logger.Info().
		Int("blocks", blocks).
		Str("hash_algorithm", algorithm).
		Int("excerpt_size", excerptSize).
		Msg("fingerprint started")
}

// FingerprintCompleted logs the end of a write run.
func (l *Logger) FingerprintCompleted(blocks int, bytesHashed int64, elapsed time.Duration) {
	l.logger.Info().
		Int("blocks", blocks).
		Int64("bytes_hashed", bytesHashed).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("fingerprint completed")
}

// BlockLocated logs one successfully relocated block.
func (l *Logger) BlockLocated(number int, location int64, probed int) {
	l.logger.Debug().
		Int("block", number).
		Int64("location", location).
		Int("candidates_probed", probed).
		Msg("block located")
}

// BlockMissing logs a block that could not be relocated.
func (l *Logger) BlockMissing(number int, probed int) {
	l.logger.Warn().
		Int("block", number).
		Int("candidates_probed", probed).
		Msg("block not found")
}

// RelocateCompleted logs the end of a read run.
func (l *Logger) RelocateCompleted(located, missing int, elapsed time.Duration) {
	l.logger.Info().
		Int("blocks_located", located).
		Int("blocks_missing", missing).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("relocation completed")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
