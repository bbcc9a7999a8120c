package logging

import (
	"io"
	"os"
	"strings"

	"github.com/ogurasousui/codex-staff-registry/internal/platform/config"
	"github.com/sirupsen/logrus"
)

// New は log 設定から logrus.Logger を構築します。
// レベルが解釈できない場合は info にフォールバックし、警告を出力します。
func New(cfg config.LogConfig) *logrus.Logger {
	return newWithOutput(cfg, os.Stdout)
}

func newWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		logger.WithField("level", cfg.Level).Warn("invalid log level, falling back to info")
		return logger
	}
	logger.SetLevel(level)
	return logger
}
