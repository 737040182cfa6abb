package main

import (
	"gtrends/cmd/trends-cli/commands"
	"gtrends/lib/osutil"
	"gtrends/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()
	telemetry.InitSlog(false)
	telemetry.SetupFromEnv(ctx, "trends-cli")
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
