// Package hostfuncs is the in-process native host: an immutable registry of named
// capability functions ("store.get", "fs.read-text", ...) that take and return JSON.
//
// A *HandlerRegistry satisfies ports.NativeHost, so a Go process can bind capability
// clients to it directly; infrastructure/wazero exports the same registry to WASM
// guests. This package has no WASM runtime dependencies.
package hostfuncs
