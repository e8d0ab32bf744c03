package logconfig

import (
	"strings"

	myLogger "github.com/sirupsen/logrus"
)

// This output format is used in the test (has terminal).
func ConfigDebugLogger() {
	myLogger.SetReportCaller(true)
	myLogger.SetLevel(myLogger.DebugLevel)
	myLogger.SetFormatter(&myLogger.TextFormatter{
		ForceColors:            true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

// Interactive tools: no caller, no timestamps.
func ConfigInfoLogger() {
	myLogger.SetReportCaller(false)
	myLogger.SetLevel(myLogger.InfoLevel)
	myLogger.SetFormatter(&myLogger.TextFormatter{
		ForceColors:            true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

// This output format is used in production.
func ConfigProductionLogger() {
	myLogger.SetReportCaller(false)
	myLogger.SetLevel(myLogger.InfoLevel)
	myLogger.SetFormatter(&myLogger.JSONFormatter{})
}

// ConfigLogger picks a preset by name: "debug", "info", "production", or
// any logrus level name (applied on top of the production format).
// It returns false when the name is not recognized; info is used then.
func ConfigLogger(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		ConfigDebugLogger()
		return true
	case "", "info":
		ConfigInfoLogger()
		return true
	case "production", "prod":
		ConfigProductionLogger()
		return true
	}

	level, err := myLogger.ParseLevel(name)
	if err != nil {
		ConfigInfoLogger()
		return false
	}
	ConfigProductionLogger()
	myLogger.SetLevel(level)
	return true
}
