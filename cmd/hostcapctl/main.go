// Command hostcapctl exercises the capability clients from the command line.
//
// It resolves the execution mode the same way an embedding program does, so it is
// also a quick way to check what a given environment would bind to:
//
//	hostcapctl detect
//	hostcapctl --host 10.0.0.5 --port 1420 store get theme --file settings.json
//	hostcapctl --mode remote fs ls /var/data
package main

import (
	"fmt"
	"os"

	"github.com/reglet-dev/hostcap/application/detect"
)

func main() {
	if err := newRootCmd(&app{hostCtx: detect.Ambient()}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
