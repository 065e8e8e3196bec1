// Package ports defines the interfaces behind which the three execution backends live.
// Capability clients depend on these abstractions; hostfuncs, the wasm host-import
// adapter, container applications and the remote-bridge transport implement them.
package ports
