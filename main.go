// main - entry-point to vote-ledger commands through cobra
// individual commands are outlined in ./cmd/
package main

import (
	"github.com/vendwars/vote-ledger/cmd"
	"github.com/vendwars/vote-ledger/utils/logging"
)

var (
	// variables will be overwritten at build time
	version   string
	commit    string
	buildTime string
)

func main() {
	defer func() {
		if logging.Writer != nil {
			logging.Writer.Close()
		}
	}()
	cmd.Execute(version, commit, buildTime)
}
