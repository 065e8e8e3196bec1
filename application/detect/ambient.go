//go:build !wasip1

package detect

// Ambient returns the HostContext of the current process. Outside a WASM guest
// there is no native host import and no container, so clients fall through to
// the remote bridge.
func Ambient() HostContext {
	return Static{}
}
