package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearModeEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RAWLOAD_NON_INTERACTIVE", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")
}

func TestDetectMode_EnvironmentOverrides(t *testing.T) {
	for _, env := range []struct{ key, value string }{
		{"RAWLOAD_NON_INTERACTIVE", "1"},
		{"CI", "true"},
		{"NO_COLOR", "1"},
	} {
		t.Run(env.key, func(t *testing.T) {
			clearModeEnv(t)
			t.Setenv(env.key, env.value)
			assert.Equal(t, ModeNonInteractive, DetectMode())
		})
	}
}

func TestDetectMode_NoTerminal(t *testing.T) {
	// stdin and stderr are not terminals under go test
	clearModeEnv(t)
	assert.Equal(t, ModeNonInteractive, DetectMode())
	assert.False(t, IsInteractive())
}
