//go:build wasip1

package detect

import (
	"github.com/reglet-dev/hostcap/infrastructure/wasm"
)

// Ambient returns the HostContext of the current process. A WASM guest compiled
// for the hostcap host module binds to the imported native functions.
func Ambient() HostContext {
	return Static{Native: wasm.NewHostAdapter()}
}
