// Package logging configures the process-wide structured logger.
package logging

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// ParseLevel maps a config level name to a logrus level. Unknown
// names fall back to warn so a config typo never silences errors.
func ParseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.WarnLevel
	}
	return parsed
}

// Setup builds a logger from the textual settings carried in the
// configuration. Format "json" selects the JSON formatter, anything
// else the plain text one. Logs go to stderr so command output on
// stdout stays clean.
func Setup(level, format string, timestamps, caller bool) *log.Logger {
	logger := log.New()
	logger.SetLevel(ParseLevel(level))
	logger.SetReportCaller(caller)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{
			DisableTimestamp: !timestamps,
		})
	default:
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp:    timestamps,
			DisableTimestamp: !timestamps,
		})
	}
	return logger
}
