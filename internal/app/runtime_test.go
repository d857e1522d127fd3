package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/casetrail/casetrail/internal/testing/guard"
)

func TestInTestMode(t *testing.T) {
	assert.True(t, InTestMode())
	assert.True(t, SkipStartup("server"))

	for raw, want := range map[string]bool{"0": false, "false": false, "": false, "yes": false, "true": true, "1": true} {
		t.Setenv(testModeEnv, raw)
		assert.Equal(t, want, InTestMode(), raw)
	}

	t.Setenv(testModeEnv, "0")
	assert.False(t, SkipStartup("worker"))
}

func TestLoadConfigHonoursLoginLatency(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "csrf")
	cfg, err := LoadConfig()
	if assert.NoError(t, err) {
		assert.Zero(t, cfg.LoginLatency)
		assert.Equal(t, "info", cfg.LogLevel)
	}
}
