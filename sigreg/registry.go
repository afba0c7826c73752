package sigreg

import (
	"math"
	"strconv"
	"sync"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"github.com/wippyai/sigregistry/errors"
	"github.com/wippyai/sigregistry/wasm"
)

// SigIndex is the canonical handle of a function signature within one Registry.
type SigIndex uint32

// InvalidSigIndex never names a registered signature. Empty table slots and
// unresolved call sites carry it.
const InvalidSigIndex SigIndex = math.MaxUint32

// ErrCapacityExceeded matches errors returned by Register when no handle is left.
var ErrCapacityExceeded = errors.Sentinel(errors.PhaseRegister, errors.KindCapacity)

// Registry maps distinct function signatures to dense SigIndex handles.
//
// The zero value is not usable; create registries with New.
type Registry struct {
	// index holds key -> SigIndex and is read without locking.
	index sync.Map

	mu    sync.Mutex
	sigs  []wasm.FuncType // guarded by mu, sigs[i] has handle i
	limit uint64          // exclusive upper bound on handles
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{limit: uint64(InvalidSigIndex)}
}

// Register returns the handle of ft, assigning the next free handle if ft has
// not been seen by this Registry. ft is copied; the caller may reuse it.
func (r *Registry) Register(ft wasm.FuncType) (SigIndex, error) {
	key := ft.Key()
	if idx, ok := r.index.Load(key); ok {
		return idx.(SigIndex), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have inserted ft while we waited.
	if idx, ok := r.index.Load(key); ok {
		return idx.(SigIndex), nil
	}

	idx, err := r.nextIndex()
	if err != nil {
		Logger().Warn("signature registry full",
			zap.Int("signatures", len(r.sigs)),
			zap.Stringer("type", ft))
		return InvalidSigIndex, err
	}

	r.sigs = append(r.sigs, ft.Clone())
	r.index.Store(key, idx)

	Logger().Debug("registered signature",
		zap.Uint32("sig", uint32(idx)),
		zap.Stringer("type", ft))
	return idx, nil
}

// nextIndex converts the current count to a handle. Caller holds mu.
func (r *Registry) nextIndex() (SigIndex, error) {
	n, err := safecast.Conv[uint32](len(r.sigs))
	if err != nil {
		return InvalidSigIndex, errors.New(errors.PhaseRegister, errors.KindCapacity).
			Value(len(r.sigs)).
			Cause(err).
			Detail("%d signatures do not fit a 32-bit handle", len(r.sigs)).
			Build()
	}
	if uint64(n) >= r.limit {
		return InvalidSigIndex, errors.CapacityExceeded(errors.PhaseRegister, r.limit)
	}
	return SigIndex(n), nil
}

// Len returns the number of distinct signatures registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sigs)
}

// Lookup returns a copy of the signature behind idx. It reports false for
// handles this Registry has not issued.
//
// Lookup exists for diagnostics such as trap messages and dumps; call
// dispatch compares handles and never needs it.
func (r *Registry) Lookup(idx SigIndex) (wasm.FuncType, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uint64(idx) >= uint64(len(r.sigs)) {
		return wasm.FuncType{}, false
	}
	return r.sigs[idx].Clone(), true
}

// Describe formats the signature behind idx, or "sig#N" for unknown handles.
func (r *Registry) Describe(idx SigIndex) string {
	if ft, ok := r.Lookup(idx); ok {
		return ft.String()
	}
	if idx == InvalidSigIndex {
		return "sig#invalid"
	}
	return "sig#" + strconv.FormatUint(uint64(idx), 10)
}

