package wasm

// Value type encodings as defined in the WebAssembly binary format.
// Core types use 0x7F-0x7B, reference types use 0x70-0x6F.
const (
	ValI32     ValType = 0x7F // 32-bit integer
	ValI64     ValType = 0x7E // 64-bit integer
	ValF32     ValType = 0x7D // 32-bit float
	ValF64     ValType = 0x7C // 64-bit float
	ValV128    ValType = 0x7B // 128-bit vector (SIMD)
	ValFuncRef ValType = 0x70 // Function reference
	ValExtern  ValType = 0x6F // External reference
)

// Calling conventions a descriptor can carry.
const (
	// CallConvDefault is the core WebAssembly convention.
	CallConvDefault CallConv = 0
	// CallConvCanonLift is a core function lifted to a component export
	// through the canonical ABI.
	CallConvCanonLift CallConv = 1
	// CallConvCanonLower is a component import lowered to a core function
	// through the canonical ABI.
	CallConvCanonLower CallConv = 2
)
