package app

import (
	"log/slog"
	"os"
	"strconv"
)

const testModeEnv = "CASETRAIL_TEST_MODE"

// InTestMode reports whether CASETRAIL_TEST_MODE is set to a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(testModeEnv))
	return err == nil && on
}

// SkipStartup reports whether a binary should exit before touching Redis or
// opening listeners, logging the reason under component.
func SkipStartup(component string) bool {
	if !InTestMode() {
		return false
	}
	slog.Default().Info("test mode detected, skipping startup", slog.String("component", component))
	return true
}
