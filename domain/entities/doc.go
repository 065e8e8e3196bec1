// Package entities provides the core domain types shared by every capability client:
// execution modes, the remote-bridge envelope, and the request/response shapes of the
// four capabilities. The JSON tags on these types are the wire contract; the same
// bodies are sent to native hosts, proxy objects and the remote bridge.
package entities
