package witsig

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/sigregistry/wasm"
)

// Lift returns the core signature of a core function lifted to a component
// export with the given WIT params and results.
func Lift(params, results []wit.Type) wasm.FuncType {
	flatParams, flatResults := flatParts(params, results)
	if len(flatResults) > MaxFlatResults {
		flatResults = []wasm.ValType{wasm.ValI32}
	}
	return wasm.FuncType{Params: flatParams, Results: flatResults, CallConv: wasm.CallConvCanonLift}
}

// Lower returns the core signature of a component import with the given WIT
// params and results lowered to a core function.
func Lower(params, results []wit.Type) wasm.FuncType {
	flatParams, flatResults := flatParts(params, results)
	if len(flatResults) > MaxFlatResults {
		flatParams = append(flatParams, wasm.ValI32)
		flatResults = nil
	}
	return wasm.FuncType{Params: flatParams, Results: flatResults, CallConv: wasm.CallConvCanonLower}
}

func flatParts(params, results []wit.Type) ([]wasm.ValType, []wasm.ValType) {
	flatParams := FlattenAll(params)
	if len(flatParams) > MaxFlatParams {
		flatParams = []wasm.ValType{wasm.ValI32}
	}
	return flatParams, FlattenAll(results)
}
