package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogger sets up the standard logrus logger: JSON in production,
// text otherwise, at cfg.LogLevel (info when unparseable).
func ConfigureLogger(cfg *Config) {
	log.SetOutput(os.Stdout)
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
