package hostfuncs

import (
	"context"
	"strings"
)

// HostContext is the context a registry hands to its handlers. Middleware uses it to
// learn which function is being invoked.
type HostContext interface {
	context.Context

	// FunctionName returns the invoked function, e.g. "store.get".
	FunctionName() string

	// Capability returns the capability prefix of FunctionName, e.g. "store".
	Capability() string
}

type hostContext struct {
	context.Context
	funcName string
}

// NewHostContext wraps ctx for a call of funcName.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{Context: ctx, funcName: funcName}
}

func (c *hostContext) FunctionName() string { return c.funcName }

func (c *hostContext) Capability() string {
	capability, _, _ := strings.Cut(c.funcName, ".")
	return capability
}

// HostContextFrom returns ctx itself when it already is a HostContext, and wraps it
// otherwise.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok {
		return hc
	}
	return NewHostContext(ctx, funcName)
}
