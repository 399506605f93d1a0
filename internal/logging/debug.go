package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// DebugEnabled returns true if debug mode is enabled via TASKS_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TASKS_DEBUG") != ""
}

// Level returns the effective level for the configured name. TASKS_DEBUG
// forces debug; unknown names fall back to info.
func Level(name string) logrus.Level {
	if DebugEnabled() {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
