// Package wasm provides the function-type descriptors that the signature
// registry canonicalizes.
//
// # Descriptors
//
// A FuncType is a structural value: ordered parameter types, ordered result
// types and a calling-convention tag. Two descriptors are the same entity
// exactly when all three fields are equal element by element:
//
//	a := wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}}
//	b := wasm.NewFuncType([]wasm.ValType{wasm.ValI32}, []wasm.ValType{wasm.ValI32})
//	a.Equal(b) // true
//
// Value types use the WebAssembly binary encoding, which is also the
// encoding of wazero's api.ValueType, so conversion between the two is a cast.
//
// # Canonical Keys
//
// AppendKey writes an injective byte encoding of a descriptor:
//
//	conv | uleb128(len(params)) | params... | uleb128(len(results)) | results...
//
// Equal descriptors produce equal keys and descriptors that differ in any
// field produce different keys. The registry hashes and compares these keys.
//
// # LEB128 Encoding
//
// Lengths in keys use unsigned LEB128, as in the binary format:
//
//	buf = wasm.AppendLEB128u(buf, n)
package wasm
