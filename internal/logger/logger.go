// Package logger builds the zap logger used by the rsakit CLI.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vaultsandbox/rsakit/internal/config"
)

// DirMode is used for log directories created by New.
const DirMode = 0o755

// New returns a logger configured from c. Output goes to a rotating file
// when c.File is set and to console otherwise.
func New(c config.Log, console io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	var sink zapcore.WriteSyncer
	if c.File != "" {
		dir := filepath.Dir(c.File)
		if _, err := os.Stat(dir); err != nil {
			if err := os.MkdirAll(dir, DirMode); err != nil {
				return nil, errors.Errorf("%v,%v", dir, err)
			}
		}
		sink = getWriteSyncer(c)
	} else {
		if console == nil {
			console = os.Stderr
		}
		sink = zapcore.AddSync(console)
	}

	core := zapcore.NewCore(getEncoder(), sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()), nil
}

func getEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(
		zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller_line",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    cEncodeLevel,
			EncodeTime:     cEncodeTime,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		})
}

func getWriteSyncer(c config.Log) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		LocalTime:  true,
		Compress:   true,
	})
}

func cEncodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

func cEncodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}
