package dispatch

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/sigregistry/errors"
	"github.com/wippyai/sigregistry/sigreg"
)

// Traps raised by indirect calls. Returned errors carry details and match
// these with errors.Is.
var (
	ErrInvalidTableAccess       = errors.Sentinel(errors.PhaseDispatch, errors.KindOutOfBounds)
	ErrUninitializedElement     = errors.Sentinel(errors.PhaseDispatch, errors.KindUninitialized)
	ErrIndirectCallTypeMismatch = errors.Sentinel(errors.PhaseDispatch, errors.KindTypeMismatch)
)

// FuncRef is a callable function together with its canonical signature handle.
type FuncRef struct {
	// Invoke runs the function. Params are read from stack and results
	// written back to it, as with wazero's api.Function.CallWithStack.
	Invoke func(ctx context.Context, stack []uint64) error
	Name   string
	Type   sigreg.SigIndex
}

// Table is a funcref table. Nil slots are uninitialized elements.
type Table struct {
	reg   *sigreg.Registry
	max   *uint32
	elems []*FuncRef
}

// NewTable creates a table with min null slots. A nil max means unbounded.
func NewTable(min uint32, max *uint32) *Table {
	return &Table{
		elems: make([]*FuncRef, min),
		max:   max,
	}
}

// WithRegistry attaches the registry that issued the table's handles. It is
// used only to describe signatures in trap messages.
func (t *Table) WithRegistry(reg *sigreg.Registry) *Table {
	t.reg = reg
	return t
}

// Size returns the number of slots.
func (t *Table) Size() uint32 {
	return uint32(len(t.elems))
}

// Get returns the reference at idx, which may be nil.
func (t *Table) Get(idx uint32) (*FuncRef, error) {
	if uint64(idx) >= uint64(len(t.elems)) {
		return nil, t.outOfBounds(uint64(idx))
	}
	return t.elems[idx], nil
}

// Set stores ref at idx. A nil ref clears the slot.
func (t *Table) Set(idx uint32, ref *FuncRef) error {
	if uint64(idx) >= uint64(len(t.elems)) {
		return t.outOfBounds(uint64(idx))
	}
	t.elems[idx] = ref
	return nil
}

// Grow appends n slots holding ref. It returns the previous size, or false
// if the table would exceed its maximum.
func (t *Table) Grow(n uint32, ref *FuncRef) (uint32, bool) {
	prev := t.Size()
	limit := uint64(^uint32(0))
	if t.max != nil {
		limit = uint64(*t.max)
	}
	if uint64(prev)+uint64(n) > limit {
		return prev, false
	}
	for range n {
		t.elems = append(t.elems, ref)
	}
	return prev, true
}

// Init copies refs into the table starting at offset.
func (t *Table) Init(offset uint32, refs []*FuncRef) error {
	end := uint64(offset) + uint64(len(refs))
	if end > uint64(len(t.elems)) {
		return t.outOfBounds(end)
	}
	copy(t.elems[offset:], refs)
	return nil
}

// Lookup resolves slot idx for a call site expecting signature expected.
// The check is a single handle comparison.
func (t *Table) Lookup(expected sigreg.SigIndex, idx uint32) (*FuncRef, error) {
	if uint64(idx) >= uint64(len(t.elems)) {
		return nil, t.outOfBounds(uint64(idx))
	}
	ref := t.elems[idx]
	if ref == nil {
		return nil, errors.New(errors.PhaseDispatch, errors.KindUninitialized).
			Value(idx).
			Detail("uninitialized element %d", idx).
			Build()
	}
	if ref.Type != expected {
		Logger().Debug("indirect call type mismatch",
			zap.Uint32("slot", idx),
			zap.String("func", ref.Name),
			zap.Uint32("want", uint32(expected)),
			zap.Uint32("got", uint32(ref.Type)))
		err := errors.TypeMismatch(errors.PhaseDispatch, t.describe(expected), t.describe(ref.Type))
		err.Name = ref.Name
		err.Value = idx
		err.Detail = "indirect call through slot " + strconv.FormatUint(uint64(idx), 10)
		return nil, err
	}
	return ref, nil
}

// CallIndirect looks up slot idx against expected and invokes it with stack.
func (t *Table) CallIndirect(ctx context.Context, expected sigreg.SigIndex, idx uint32, stack []uint64) error {
	ref, err := t.Lookup(expected, idx)
	if err != nil {
		return err
	}
	if ref.Invoke == nil {
		return errors.New(errors.PhaseDispatch, errors.KindUninitialized).
			Name(ref.Name).
			Detail("function has no body").
			Build()
	}
	return ref.Invoke(ctx, stack)
}

func (t *Table) describe(idx sigreg.SigIndex) string {
	if t.reg != nil {
		return t.reg.Describe(idx)
	}
	return "sig#" + strconv.FormatUint(uint64(idx), 10)
}

func (t *Table) outOfBounds(idx uint64) error {
	return errors.OutOfBounds(errors.PhaseDispatch, idx, uint64(len(t.elems)))
}
