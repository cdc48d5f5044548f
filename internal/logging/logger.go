package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var fileLogger *lumberjack.Logger

// Init builds a JSON slog logger writing to both stdout and a rotated log
// file, and installs it as the default logger.
func Init(level, file string) *slog.Logger {
	var writer io.Writer = os.Stdout

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err == nil {
			fileLogger = &lumberjack.Logger{
				Filename:   file,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			writer = io.MultiWriter(os.Stdout, fileLogger)
		}
	}

	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close flushes and closes the log file, if any.
func Close() {
	if fileLogger != nil {
		fileLogger.Close()
	}
}

// LogCommand records a slash-command invocation.
func LogCommand(command, userID, username, guildID, outcome string) {
	slog.Info("command",
		slog.String("command", command),
		slog.String("user", username),
		slog.String("user_id", userID),
		slog.String("guild", guildID),
		slog.String("outcome", outcome),
	)
}

// LogAPIRequest records a call to an upstream HTTP API.
func LogAPIRequest(url string, statusCode int, responseTime time.Duration) {
	slog.Debug("api request",
		slog.String("url", url),
		slog.Int("status", statusCode),
		slog.Duration("response_time", responseTime),
	)
}
