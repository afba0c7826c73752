package wasm

import (
	"slices"
	"strings"
)

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, etc.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return "unknown"
	}
}

// CallConv tags the calling convention of a function type.
// The registry treats it as opaque: two descriptors that differ only in
// convention are different descriptors.
type CallConv byte

func (c CallConv) String() string {
	switch c {
	case CallConvDefault:
		return "default"
	case CallConvCanonLift:
		return "canon-lift"
	case CallConvCanonLower:
		return "canon-lower"
	default:
		return "unknown"
	}
}

// FuncType represents a function signature: parameter and result types plus
// the calling convention. A nil slice and an empty slice describe the same
// signature.
type FuncType struct {
	Params   []ValType
	Results  []ValType
	CallConv CallConv
}

// NewFuncType returns a default-convention function type.
func NewFuncType(params, results []ValType) FuncType {
	return FuncType{Params: params, Results: results}
}

// Equal reports whether f and other describe the same signature.
func (f FuncType) Equal(other FuncType) bool {
	return f.CallConv == other.CallConv &&
		slices.Equal(f.Params, other.Params) &&
		slices.Equal(f.Results, other.Results)
}

// Clone returns a copy that shares no memory with f.
func (f FuncType) Clone() FuncType {
	c := FuncType{CallConv: f.CallConv}
	if len(f.Params) > 0 {
		c.Params = slices.Clone(f.Params)
	}
	if len(f.Results) > 0 {
		c.Results = slices.Clone(f.Results)
	}
	return c
}

// AppendKey appends the canonical key of f to dst and returns the extended slice.
func (f FuncType) AppendKey(dst []byte) []byte {
	dst = append(dst, byte(f.CallConv))
	dst = AppendLEB128u(dst, uint64(len(f.Params)))
	for _, p := range f.Params {
		dst = append(dst, byte(p))
	}
	dst = AppendLEB128u(dst, uint64(len(f.Results)))
	for _, r := range f.Results {
		dst = append(dst, byte(r))
	}
	return dst
}

// Key returns the canonical key of f.
func (f FuncType) Key() string {
	return string(f.AppendKey(make([]byte, 0, 3+len(f.Params)+len(f.Results))))
}

// String formats f as "(i32, i32) -> (i32)", prefixed with the convention
// when it is not the default one.
func (f FuncType) String() string {
	var b strings.Builder
	if f.CallConv != CallConvDefault {
		b.WriteString(f.CallConv.String())
		b.WriteByte(' ')
	}
	writeValTypes(&b, f.Params)
	b.WriteString(" -> ")
	writeValTypes(&b, f.Results)
	return b.String()
}

func writeValTypes(b *strings.Builder, types []ValType) {
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
}
