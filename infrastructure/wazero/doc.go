// Package wazero hosts native-embedded mode for WASM guests running in the wazero
// runtime.
//
// RegisterWithRuntime instantiates the "hostcap_host" module. A guest built for
// wasip1 detects it through its imports and dispatches every capability call to
// the ports.NativeHost given here, usually a hostfuncs.HandlerRegistry:
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithMiddleware(
//	        hostfuncs.PanicRecoveryMiddleware(),
//	        hostfuncs.LoggingMiddleware(logger),
//	    ),
//	    hostfuncs.WithBundle(storeBundle),
//	    hostfuncs.WithByteHandler(log.FunctionName, log.Receive(logger)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	err = wazero.RegisterWithRuntime(ctx, runtime, registry)
//
// # Capability limits
//
// WithCapabilities restricts a guest to a subset of capabilities. The guest sees
// the others as absent, which makes its clients fall back to another backend.
package wazero
