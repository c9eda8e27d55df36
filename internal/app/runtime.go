package app

import (
	"os"
	"sync"
)

// TestModeEnv disables server startup when set to "1".
const TestModeEnv = "LOGIPARTS_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(TestModeEnv) == "1"
})

// InTestMode reports whether binaries should skip runtime side effects.
func InTestMode() bool {
	return testMode()
}
