package sigreg

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/wippyai/sigregistry/errors"
	"github.com/wippyai/sigregistry/wasm"
)

var (
	sigA = wasm.NewFuncType([]wasm.ValType{wasm.ValI32, wasm.ValI32}, []wasm.ValType{wasm.ValI32})
	sigB = wasm.NewFuncType([]wasm.ValType{wasm.ValI64}, nil)
)

func mustRegister(t testing.TB, r *Registry, ft wasm.FuncType) SigIndex {
	t.Helper()
	idx, err := r.Register(ft)
	if err != nil {
		t.Fatalf("Register(%s): %v", ft, err)
	}
	return idx
}

// distinctSig returns a unique signature for every n.
func distinctSig(n int) wasm.FuncType {
	types := []wasm.ValType{wasm.ValI32, wasm.ValI64, wasm.ValF32, wasm.ValF64}
	var params []wasm.ValType
	for {
		params = append(params, types[n%4])
		n /= 4
		if n == 0 {
			break
		}
	}
	return wasm.NewFuncType(params, nil)
}

func TestRegistry_Scenario(t *testing.T) {
	r := New()

	got := []SigIndex{
		mustRegister(t, r, sigA),
		mustRegister(t, r, sigB),
		mustRegister(t, r, sigA),
		mustRegister(t, r, sigB),
	}
	want := []SigIndex{0, 1, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("handles = %v, want %v", got, want)
		}
	}

	r2 := New()
	if idx := mustRegister(t, r2, sigB); idx != 0 {
		t.Errorf("second registry: sigB = %d, want 0", idx)
	}
	if idx := mustRegister(t, r, sigB); idx != 1 {
		t.Errorf("first registry changed: sigB = %d, want 1", idx)
	}
}

func TestRegistry_StructuralEquality(t *testing.T) {
	r := New()
	base := mustRegister(t, r, sigA)

	rebuilt := wasm.FuncType{
		Params:  append([]wasm.ValType(nil), wasm.ValI32, wasm.ValI32),
		Results: []wasm.ValType{wasm.ValI32},
	}
	if idx := mustRegister(t, r, rebuilt); idx != base {
		t.Errorf("separately built descriptor got %d, want %d", idx, base)
	}

	empty := mustRegister(t, r, wasm.FuncType{})
	if idx := mustRegister(t, r, wasm.FuncType{Params: []wasm.ValType{}, Results: []wasm.ValType{}}); idx != empty {
		t.Errorf("empty slices got %d, want %d", idx, empty)
	}
}

func TestRegistry_SingleFieldChanges(t *testing.T) {
	variants := []struct {
		name string
		ft   wasm.FuncType
	}{
		{"one param type", wasm.NewFuncType([]wasm.ValType{wasm.ValI32, wasm.ValI64}, []wasm.ValType{wasm.ValI32})},
		{"extra param", wasm.NewFuncType([]wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32}, []wasm.ValType{wasm.ValI32})},
		{"result type", wasm.NewFuncType([]wasm.ValType{wasm.ValI32, wasm.ValI32}, []wasm.ValType{wasm.ValF32})},
		{"no result", wasm.NewFuncType([]wasm.ValType{wasm.ValI32, wasm.ValI32}, nil)},
		{"lift convention", wasm.FuncType{Params: sigA.Params, Results: sigA.Results, CallConv: wasm.CallConvCanonLift}},
		{"lower convention", wasm.FuncType{Params: sigA.Params, Results: sigA.Results, CallConv: wasm.CallConvCanonLower}},
	}

	r := New()
	seen := map[SigIndex]string{mustRegister(t, r, sigA): "base"}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			idx := mustRegister(t, r, v.ft)
			if prev, dup := seen[idx]; dup {
				t.Fatalf("%s collided with %s on handle %d", v.name, prev, idx)
			}
			seen[idx] = v.name
		})
	}
}

func TestRegistry_DenseFirstSeenOrder(t *testing.T) {
	r := New()
	const n = 50

	// Register each signature, then every earlier one again.
	for i := 0; i < n; i++ {
		if idx := mustRegister(t, r, distinctSig(i)); idx != SigIndex(i) {
			t.Fatalf("signature %d got handle %d", i, idx)
		}
		for j := 0; j < i; j += 7 {
			if idx := mustRegister(t, r, distinctSig(j)); idx != SigIndex(j) {
				t.Fatalf("repeat of %d got handle %d", j, idx)
			}
		}
	}

	if r.Len() != n {
		t.Errorf("Len() = %d, want %d", r.Len(), n)
	}
}

func TestRegistry_CopiesDescriptor(t *testing.T) {
	r := New()
	params := []wasm.ValType{wasm.ValI32}
	ft := wasm.NewFuncType(params, nil)
	idx := mustRegister(t, r, ft)

	params[0] = wasm.ValF64

	stored, ok := r.Lookup(idx)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if !stored.Equal(wasm.NewFuncType([]wasm.ValType{wasm.ValI32}, nil)) {
		t.Errorf("stored descriptor follows caller mutation: %s", stored)
	}
	if got := mustRegister(t, r, wasm.NewFuncType([]wasm.ValType{wasm.ValF64}, nil)); got == idx {
		t.Error("mutated descriptor must be a new signature")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := New()
	a := mustRegister(t, r, sigA)

	ft, ok := r.Lookup(a)
	if !ok || !ft.Equal(sigA) {
		t.Errorf("Lookup(%d) = %s, %v", a, ft, ok)
	}

	// Returned copies do not alias the stored descriptor.
	ft.Params[0] = wasm.ValF32
	again, _ := r.Lookup(a)
	if !again.Equal(sigA) {
		t.Errorf("Lookup result aliases registry storage: %s", again)
	}

	if _, ok := r.Lookup(1); ok {
		t.Error("Lookup of unissued handle should fail")
	}
	if _, ok := r.Lookup(InvalidSigIndex); ok {
		t.Error("Lookup of InvalidSigIndex should fail")
	}
}

func TestRegistry_Describe(t *testing.T) {
	r := New()
	a := mustRegister(t, r, sigA)

	tests := []struct {
		idx  SigIndex
		want string
	}{
		{a, "(i32, i32) -> (i32)"},
		{7, "sig#7"},
		{InvalidSigIndex, "sig#invalid"},
	}
	for _, tt := range tests {
		if got := r.Describe(tt.idx); got != tt.want {
			t.Errorf("Describe(%d) = %q, want %q", tt.idx, got, tt.want)
		}
	}
}

func TestRegistry_CapacityBoundary(t *testing.T) {
	r := New()
	r.limit = 3

	for i := 0; i < 3; i++ {
		mustRegister(t, r, distinctSig(i))
	}

	idx, err := r.Register(distinctSig(3))
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if !stderrors.Is(err, ErrCapacityExceeded) {
		t.Errorf("error %v does not match ErrCapacityExceeded", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindCapacity {
		t.Errorf("expected structured capacity error, got %T", err)
	}
	if idx != InvalidSigIndex {
		t.Errorf("failed Register returned %d, want InvalidSigIndex", idx)
	}

	// The registry is unchanged and still serves known descriptors.
	if r.Len() != 3 {
		t.Errorf("Len() = %d after failure, want 3", r.Len())
	}
	for i := 0; i < 3; i++ {
		if got := mustRegister(t, r, distinctSig(i)); got != SigIndex(i) {
			t.Errorf("known signature %d now maps to %d", i, got)
		}
	}

	// Failing again does not consume a handle either.
	if _, err := r.Register(distinctSig(4)); !stderrors.Is(err, ErrCapacityExceeded) {
		t.Errorf("second overflow: %v", err)
	}
	if _, ok := r.Lookup(3); ok {
		t.Error("handle 3 must not exist after failed inserts")
	}
}

func TestRegistry_DefaultLimitReservesInvalid(t *testing.T) {
	r := New()
	if r.limit != uint64(InvalidSigIndex) {
		t.Errorf("limit = %d, want %d", r.limit, uint64(InvalidSigIndex))
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	const (
		workers = 16
		sigs    = 200
	)

	results := make([][]SigIndex, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out := make([]SigIndex, sigs)
			// Each worker walks the signatures from a different offset.
			for k := 0; k < sigs; k++ {
				i := (k + w*13) % sigs
				idx, err := r.Register(distinctSig(i))
				if err != nil {
					t.Errorf("worker %d: %v", w, err)
					return
				}
				out[i] = idx
			}
			results[w] = out
		}(w)
	}
	wg.Wait()

	if r.Len() != sigs {
		t.Fatalf("Len() = %d, want %d", r.Len(), sigs)
	}

	seen := make(map[SigIndex]int, sigs)
	for i := 0; i < sigs; i++ {
		idx := results[0][i]
		for w := 1; w < workers; w++ {
			if results[w][i] != idx {
				t.Fatalf("signature %d: worker 0 got %d, worker %d got %d", i, idx, w, results[w][i])
			}
		}
		if prev, dup := seen[idx]; dup {
			t.Fatalf("signatures %d and %d share handle %d", prev, i, idx)
		}
		if idx >= sigs {
			t.Fatalf("handle %d outside [0, %d)", idx, sigs)
		}
		seen[idx] = i

		ft, ok := r.Lookup(idx)
		if !ok || !ft.Equal(distinctSig(i)) {
			t.Fatalf("Lookup(%d) = %s, want %s", idx, ft, distinctSig(i))
		}
	}
}

func BenchmarkRegister_Hit(b *testing.B) {
	r := New()
	mustRegister(b, r, sigA)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Register(sigA); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRegister_HitParallel(b *testing.B) {
	r := New()
	for i := 0; i < 64; i++ {
		mustRegister(b, r, distinctSig(i))
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := r.Register(distinctSig(i % 64)); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}

func BenchmarkRegister_Insert(b *testing.B) {
	for _, n := range []int{16, 1024} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			sigs := make([]wasm.FuncType, n)
			for i := range sigs {
				sigs[i] = distinctSig(i)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r := New()
				for _, ft := range sigs {
					if _, err := r.Register(ft); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}
