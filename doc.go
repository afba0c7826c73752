// Package sigregistry canonicalizes WebAssembly function signatures into
// small integer handles so that indirect calls are type checked with one
// integer comparison.
//
// # Architecture Overview
//
//	sigregistry/
//	├── sigreg/        Signature registry: descriptor -> dense SigIndex
//	├── wasm/          Function-type descriptors and canonical keys
//	├── dispatch/      Funcref tables and the indirect-call check
//	├── engine/        wazero compilation feeding a (shared) registry
//	├── witsig/        Component Model signatures via canonical ABI flattening
//	├── errors/        Structured error types
//	└── cmd/sigdump/   Diagnostic dump of the handle table
//
// # Quick Start
//
//	reg := sigreg.New()
//	want, _ := reg.Register(wasm.NewFuncType(
//	    []wasm.ValType{wasm.ValI32, wasm.ValI32},
//	    []wasm.ValType{wasm.ValI32},
//	))
//
//	tbl := dispatch.NewTable(1, nil).WithRegistry(reg)
//	tbl.Set(0, &dispatch.FuncRef{Name: "add", Type: want, Invoke: add})
//
//	// Traps with dispatch.ErrIndirectCallTypeMismatch when handles differ.
//	err := tbl.CallIndirect(ctx, want, 0, stack)
//
// # Ownership
//
// No registry is global. Whoever needs shared canonicalization (usually an
// engine) creates one Registry and hands it to every participant; handles
// from different registries must never be compared.
//
// # Thread Safety
//
// Registry is safe for concurrent use and serves known signatures without
// locking. Engine is safe for concurrent use. Table mutation is not.
package sigregistry
