// Package witsig derives core function descriptors from Component Model
// (WIT) signatures using canonical ABI flattening.
//
// A component function crosses the core boundary either lifted (a core
// export presented as a component export) or lowered (a component import
// presented as a core function). The flattened core shapes are tagged with
// wasm.CallConvCanonLift or wasm.CallConvCanonLower, so a lifted and a
// lowered function never share a registry handle even when their flat types
// coincide.
//
// Flattening rules:
//
//	WIT Type        Core Representation    Flat Count
//	─────────────────────────────────────────────────
//	bool, u8-u32    i32                    1
//	u64, s64        i64                    1
//	f32             f32                    1
//	f64             f64                    1
//	string          (ptr, len) as i32×2    2
//	list<T>         (ptr, len) as i32×2    2
//	record, tuple   flattened fields       sum of fields
//	variant         (disc, payload)        1 + max(cases)
//	option<T>       (disc, T)              1 + T
//	result<T,E>     (disc, join(T, E))     1 + max(T, E)
//	flags           i32, or i64 past 32    1
//	own, borrow     i32 handle             1
//
// When flat params exceed MaxFlatParams they are passed through memory and
// collapse to a single i32 pointer. When flat results exceed MaxFlatResults a
// lifted function returns an i32 pointer and a lowered function takes an
// extra i32 out-pointer parameter.
package witsig
