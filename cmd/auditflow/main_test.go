package main

import (
	"testing"

	"github.com/auditflow/auditflow/internal/app"
	_ "github.com/auditflow/auditflow/testing"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	if !app.InTestMode() {
		t.Fatal("expected test mode to be enabled")
	}
	main()
}
