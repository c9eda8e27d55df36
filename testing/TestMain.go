// Package testing puts the process in test mode when imported, so handler
// tests never start real servers or dial the catalog API.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("LOGIPARTS_TEST_MODE", "1")
		if os.Getenv("API_URL") == "" {
			_ = os.Setenv("API_URL", "http://127.0.0.1:0")
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain is available to packages that delegate their own TestMain here.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
