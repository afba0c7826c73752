package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/sigregistry/dispatch"
)

// Module is a compiled module whose signatures are registered.
type Module struct {
	compiled wazero.CompiledModule
	exports  map[string]FuncSig
	funcs    []FuncSig
}

// Functions lists imports in index order followed by exports sorted by name.
func (m *Module) Functions() []FuncSig {
	out := make([]FuncSig, len(m.funcs))
	copy(out, m.funcs)
	return out
}

// Export returns the exported function name.
func (m *Module) Export(name string) (FuncSig, bool) {
	fs, ok := m.exports[name]
	return fs, ok
}

// Close releases the compiled code.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// Instance is an instantiated module.
type Instance struct {
	mod  api.Module
	refs map[string]*dispatch.FuncRef
}

// FuncRef returns the dispatchable reference of export name.
func (i *Instance) FuncRef(name string) (*dispatch.FuncRef, bool) {
	ref, ok := i.refs[name]
	return ref, ok
}

// Close closes the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
