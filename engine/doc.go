// Package engine feeds function signatures from wazero-compiled modules into
// a signature registry and turns their functions into dispatchable references.
//
// # Flow
//
//  1. Engine.Compile() compiles a module with wazero and registers the
//     descriptor of every imported and exported function
//  2. Module.Functions() reports each function with its SigIndex
//  3. Engine.Instantiate() creates an Instance whose exports are
//     dispatch.FuncRef values tagged with those handles
//  4. A dispatch.Table built from the refs checks indirect calls by
//     comparing handles
//
// Host functions defined with DefineHostModule are registered the same way,
// so they can sit in the same tables as guest functions.
//
// # Sharing a Registry
//
// By default an Engine creates and owns its registry. Passing
// Config.Registry shares one registry between several engines; handles are
// then comparable across all of them. The caller that created the registry
// owns it.
//
// # Thread Safety
//
// Engine and Module are safe for concurrent use. Instance follows wazero's
// api.Module rules: calls into one instance must not overlap.
package engine
