package witsig

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sigregistry/wasm"
)

// Canonical ABI flattening limits
const (
	MaxFlatParams  = 16
	MaxFlatResults = 1
)

// Flatten flattens a WIT type to core value types.
func Flatten(t wit.Type) []wasm.ValType {
	if t == nil {
		return nil
	}

	switch v := t.(type) {
	case wit.Bool, wit.U8, wit.U16, wit.U32, wit.S8, wit.S16, wit.S32, wit.Char:
		return []wasm.ValType{wasm.ValI32}
	case wit.U64, wit.S64:
		return []wasm.ValType{wasm.ValI64}
	case wit.F32:
		return []wasm.ValType{wasm.ValF32}
	case wit.F64:
		return []wasm.ValType{wasm.ValF64}
	case wit.String:
		return []wasm.ValType{wasm.ValI32, wasm.ValI32} // ptr, len
	case *wit.TypeDef:
		return flattenTypeDef(v)
	default:
		return []wasm.ValType{wasm.ValI32}
	}
}

// FlattenAll flattens types in order.
func FlattenAll(types []wit.Type) []wasm.ValType {
	var flat []wasm.ValType
	for _, t := range types {
		flat = append(flat, Flatten(t)...)
	}
	return flat
}

func flattenTypeDef(td *wit.TypeDef) []wasm.ValType {
	if td == nil || td.Kind == nil {
		return []wasm.ValType{wasm.ValI32}
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		var flat []wasm.ValType
		for _, field := range kind.Fields {
			flat = append(flat, Flatten(field.Type)...)
		}
		return flat
	case *wit.List:
		return []wasm.ValType{wasm.ValI32, wasm.ValI32}
	case *wit.Tuple:
		return FlattenAll(kind.Types)
	case *wit.Variant:
		var payload []wasm.ValType
		for _, c := range kind.Cases {
			payload = joinInto(payload, Flatten(c.Type))
		}
		return append([]wasm.ValType{wasm.ValI32}, payload...)
	case *wit.Enum:
		return []wasm.ValType{wasm.ValI32}
	case *wit.Option:
		return append([]wasm.ValType{wasm.ValI32}, Flatten(kind.Type)...)
	case *wit.Result:
		var payload []wasm.ValType
		if kind.OK != nil {
			payload = joinInto(payload, Flatten(kind.OK))
		}
		if kind.Err != nil {
			payload = joinInto(payload, Flatten(kind.Err))
		}
		return append([]wasm.ValType{wasm.ValI32}, payload...)
	case *wit.Flags:
		if len(kind.Flags) > 32 {
			return []wasm.ValType{wasm.ValI64}
		}
		return []wasm.ValType{wasm.ValI32}
	case *wit.Own, *wit.Borrow:
		return []wasm.ValType{wasm.ValI32}
	case wit.Type:
		// Type aliases wrap another type.
		return Flatten(kind)
	default:
		return []wasm.ValType{wasm.ValI32}
	}
}

// joinInto merges a case payload into the running union of payloads.
func joinInto(payload, flat []wasm.ValType) []wasm.ValType {
	for i, t := range flat {
		if i < len(payload) {
			payload[i] = join(payload[i], t)
		} else {
			payload = append(payload, t)
		}
	}
	return payload
}

// join unions two core types sharing one payload slot
func join(a, b wasm.ValType) wasm.ValType {
	if a == b {
		return a
	}
	if (a == wasm.ValI32 && b == wasm.ValF32) || (a == wasm.ValF32 && b == wasm.ValI32) {
		return wasm.ValI32
	}
	return wasm.ValI64
}
