package simulator_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the package's tests leak no goroutines. The driver is
// single-threaded per the concurrency model, so this is a standing
// guarantee rather than a defensive afterthought.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
