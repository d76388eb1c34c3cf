package main

import (
	"log"

	"github.com/eldev/eldev/cli/cmd"
	"github.com/eldev/eldev/cli/util"
	"github.com/eldev/eldev/cli/version"
)

func main() {
	defer func() {
		// A panic is reported with the eldev version and the call stack.
		if r := recover(); r != nil {
			log.Fatalf(
				"%s", util.InternalError("Unhandled internal error: %s",
					version.GetVersion, r))
		}
	}()

	cmd.InitRoot()
	cmd.Execute()
}
