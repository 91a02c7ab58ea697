package config

import (
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the standard logrus logger and routes the stdlib
// logger through it, so chi's request logger lands in the same stream.
func InitLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.StandardLogger()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	log.SetOutput(logger.Writer())
	return logger
}
