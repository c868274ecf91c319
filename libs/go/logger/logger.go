package logger

import (
	"os"
	"strings"

	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance. It discards everything until
	// InitLogger is called.
	Log = zap.NewNop()
)

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level       string `json:"level"`
	Stage       string `json:"stage"`
	EnableJSON  bool   `json:"enable_json"`
	EnableColor bool   `json:"enable_color"`
	// App tags every entry with the binary that wrote it, e.g. "api" or "taxctl"
	App string `json:"app"`
	// OutputPath is a file path or "stderr"/"stdout". Empty means stderr, which
	// keeps stdout free for command output.
	OutputPath string `json:"output_path"`
}

// InitLogger initializes the logger for the given stage. The level comes
// from LOG_LEVEL and defaults to info; LOG_OUTPUT redirects entries.
func InitLogger(stage string) {
	config := LoggerConfig{
		Level:       getEnvWithDefault(constants.LogLevelEnvVar, constants.InfoLevel),
		Stage:       stage,
		EnableJSON:  stage == constants.ProdEnvironment,
		EnableColor: stage != constants.ProdEnvironment,
		OutputPath:  os.Getenv(constants.LogOutputEnvVar),
	}

	InitLoggerWithConfig(config)
}

// ParseLevel maps a level name to a zap level, falling back to info
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case constants.DebugLevel:
		return zapcore.DebugLevel
	case constants.WarnLevel, "warning":
		return zapcore.WarnLevel
	case constants.ErrorLevel:
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLoggerWithConfig initializes the global logger and panics if the
// configuration cannot be built
func InitLoggerWithConfig(config LoggerConfig) {
	logger, err := NewLogger(config)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	Log = logger
}

// NewLogger builds a logger from config without touching the global one
func NewLogger(config LoggerConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	level := ParseLevel(config.Level)

	if config.Stage == constants.ProdEnvironment || config.EnableJSON {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.MessageKey = "message"
		zapConfig.EncoderConfig.LevelKey = "level"
		zapConfig.EncoderConfig.CallerKey = "caller"
		zapConfig.EncoderConfig.StacktraceKey = "stacktrace"

		zapConfig.InitialFields = map[string]interface{}{
			"service": constants.ServiceName,
			"stage":   config.Stage,
		}
	} else {
		// Human-readable console output for local and test stages
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)

		if config.EnableColor {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}

		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}

	zapConfig.DisableCaller = false
	zapConfig.DisableStacktrace = config.Stage == constants.ProdEnvironment && level > zapcore.DebugLevel

	if config.App != "" {
		if zapConfig.InitialFields == nil {
			zapConfig.InitialFields = map[string]interface{}{}
		}
		zapConfig.InitialFields["app"] = config.App
	}
	output := constants.StderrOutput
	if config.OutputPath != "" {
		output = config.OutputPath
	}
	zapConfig.OutputPaths = []string{output}
	zapConfig.ErrorOutputPaths = []string{constants.StderrOutput}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build logger writing to %s", output)
	}
	return logger, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zapcore.Field) {
	Log.Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zapcore.Field) {
	Log.Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zapcore.Field) {
	Log.Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zapcore.Field) {
	Log.Warn(msg, fields...)
}

// Fatal logs a message at FatalLevel and then calls os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) {
	Log.Fatal(msg, fields...)
}

// With creates a child logger and adds structured context to it
func With(fields ...zapcore.Field) *zap.Logger {
	return Log.With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Log.Sync()
}
