// Package guard switches the process into test mode when imported, so
// command entrypoints and config loading skip their runtime side effects.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CASETRAIL_TEST_MODE") == "" {
			_ = os.Setenv("CASETRAIL_TEST_MODE", "1")
		}
		if os.Getenv("LOGIN_LATENCY") == "" {
			_ = os.Setenv("LOGIN_LATENCY", "0s")
		}
	})
}
