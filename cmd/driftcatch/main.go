package main

import "github.com/yairfalse/driftcatch/cmd/driftcatch/commands"

var (
	version   = ""
	commit    = "unknown"
	buildTime = "unknown"
	builtBy   = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, buildTime, builtBy)
	commands.Execute()
}
