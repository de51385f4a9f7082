package main

import (
	"ebayinsights-backend/cmd/insights-cli/commands"
	"ebayinsights-backend/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
