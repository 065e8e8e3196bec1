// Package dispatch holds the machinery shared by the four capability clients:
// resolving which backend a client binds to, and calling that backend.
//
// Resolution runs once per client. Its outcome, a Binding, has exactly one of
// Native, Proxy or Remote populated and never changes afterwards.
package dispatch
