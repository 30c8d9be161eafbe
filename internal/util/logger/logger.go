package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op logger until Init is called.
var Log = zap.NewNop()

// Init builds the global logger. The menu owns stdout, so output goes to
// the given path ("stderr" is accepted too).
func Init(level, outputPath string) error {
	logLevel := zapcore.InfoLevel
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return err
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(logLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{outputPath}
	config.ErrorOutputPaths = []string{"stderr"}

	built, err := config.Build()
	if err != nil {
		return err
	}
	Log = built

	return nil
}

func Sync() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}
