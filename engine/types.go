package engine

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/sigregistry/wasm"
)

// ValTypes converts wazero value types. Both use the binary encoding.
func ValTypes(types []api.ValueType) []wasm.ValType {
	if len(types) == 0 {
		return nil
	}
	out := make([]wasm.ValType, len(types))
	for i, t := range types {
		out[i] = wasm.ValType(t)
	}
	return out
}

// APITypes converts descriptor value types back to wazero value types.
func APITypes(types []wasm.ValType) []api.ValueType {
	if len(types) == 0 {
		return nil
	}
	out := make([]api.ValueType, len(types))
	for i, t := range types {
		out[i] = api.ValueType(t)
	}
	return out
}

// FuncTypeOf returns the default-convention descriptor of a wazero function.
func FuncTypeOf(def api.FunctionDefinition) wasm.FuncType {
	return wasm.NewFuncType(ValTypes(def.ParamTypes()), ValTypes(def.ResultTypes()))
}

// stackSize is the stack length CallWithStack needs for ft.
func stackSize(ft wasm.FuncType) int {
	return max(len(ft.Params), len(ft.Results))
}
