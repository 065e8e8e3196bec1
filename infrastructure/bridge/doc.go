// Package bridge implements the remote-bridge backend: an HTTP transport
// (ports.HTTPClient over net/http) and an envelope client that speaks the REST/JSON
// contract defined in package wireformat.
//
// Every response except health is an entities.Envelope. A non-2xx status or a
// success=false envelope becomes an *errors.OperationError whose message is the
// envelope message, or "HTTP <status>: <statusText>" when the server sent none.
package bridge
