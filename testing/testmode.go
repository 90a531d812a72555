// Package testing switches binaries into test mode when imported by a test.
package testing

import (
	"os"

	"github.com/auditflow/auditflow/internal/app"
)

func init() {
	_ = os.Setenv(app.TestModeEnv, "1")
	app.RefreshTestMode()
}
