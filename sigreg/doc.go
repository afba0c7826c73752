// Package sigreg canonicalizes function-type descriptors into small integer
// handles so that indirect calls can be type checked with one comparison.
//
// # Usage
//
//	reg := sigreg.New()
//	add, err := reg.Register(wasm.NewFuncType(
//	    []wasm.ValType{wasm.ValI32, wasm.ValI32},
//	    []wasm.ValType{wasm.ValI32},
//	))
//
// The same descriptor always yields the same SigIndex from the same Registry,
// no matter how it was built. Distinct descriptors receive 0, 1, 2, ... in
// the order they are first registered. Handles are meaningful only relative
// to the Registry that issued them.
//
// # Ownership
//
// There is no package-level registry. The owner (usually an engine) creates
// one with New and shares it explicitly with every component that must agree
// on handles. A Registry only grows; entries are never removed or renumbered.
//
// # Capacity
//
// SigIndex is 32 bits wide and InvalidSigIndex (math.MaxUint32) is reserved,
// so a Registry holds at most math.MaxUint32 distinct descriptors. Register
// returns an error matching ErrCapacityExceeded once that is reached and
// leaves the Registry unchanged.
//
// # Thread Safety
//
// Registry is safe for concurrent use. Lookups of known descriptors take no
// lock; first-time insertions are serialized so handle order stays dense and
// deterministic.
package sigreg
