package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.SugaredLogger

// Init builds the process-wide JSON logger. Production logs at info level;
// every other environment also emits debug lines such as per-request traces.
// Each entry carries the service name and environment.
func Init(appEnv string) error {
	config := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		config = zap.NewProductionConfig()
	}
	config.Encoding = "json"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{
		"service": "telemetry-backend",
		"env":     appEnv,
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	globalLogger = logger.Sugar()
	return nil
}

// GetLogger falls back to a no-op logger until Init runs, so tests stay quiet.
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		globalLogger = zap.NewNop().Sugar()
	}
	return globalLogger
}

func Close() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

func Info(message string, fields ...interface{}) {
	GetLogger().Infow(message, fields...)
}

func Debug(message string, fields ...interface{}) {
	GetLogger().Debugw(message, fields...)
}

func Warn(message string, fields ...interface{}) {
	GetLogger().Warnw(message, fields...)
}

func Error(message string, fields ...interface{}) {
	GetLogger().Errorw(message, fields...)
}

// WithRequest tags entries with the chi request id, the API path and, for
// authenticated calls, the caller's user id.
func WithRequest(requestID string, userID uint, path string) *zap.SugaredLogger {
	l := GetLogger().With("request_id", requestID, "path", path)
	if userID != 0 {
		l = l.With("user_id", userID)
	}
	return l
}
