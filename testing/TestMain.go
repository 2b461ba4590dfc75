// Package testing switches the binaries into test mode when imported by a
// test package, and supplies harmless defaults for required settings.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

var defaults = map[string]string{
	"ODYSSEY_TEST_MODE": "1",
	"API_BASE_URL":      "http://127.0.0.1:0",
	"CSRF_SECRET":       "test-csrf-secret",
	"GOTENBERG_URL":     "http://127.0.0.1:0",
}

func ensureTestMode() {
	once.Do(func() {
		for key, value := range defaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be delegated to from a package's own TestMain.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
