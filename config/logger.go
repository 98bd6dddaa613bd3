package config

import (
	"fmt"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. It starts as a no-op so packages can log
// from tests without calling InitLogger first.
var Logger = zap.NewNop()

// InitLogger writes logs to a date-named file under ./logs, rotated by lumberjack.
// APP_ENV=development also mirrors the output to stdout.
func InitLogger() {
	err := os.MkdirAll("logs", os.ModePerm)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logs directory: %v", err))
	}

	logFile := &lumberjack.Logger{
		Filename:   fmt.Sprintf("logs/%s.log", time.Now().Format("2006-01-02")),
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	sink := zapcore.AddSync(logFile)
	if os.Getenv("APP_ENV") == "development" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(encoder, sink, zapcore.InfoLevel)
	Logger = zap.New(core, zap.AddCaller())
}
