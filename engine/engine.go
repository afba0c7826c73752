package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/sigregistry/dispatch"
	"github.com/wippyai/sigregistry/errors"
	"github.com/wippyai/sigregistry/sigreg"
	"github.com/wippyai/sigregistry/wasm"
	"github.com/wippyai/sigregistry/witsig"
)

// Config holds configuration for engine creation
type Config struct {
	// Registry is shared with other engines when set. When nil the engine
	// creates a private one.
	Registry *sigreg.Registry

	// Logger overrides the package logger for this engine.
	Logger *zap.Logger

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableThreads enables the WebAssembly threads proposal (experimental).
	EnableThreads bool
}

// Engine compiles modules with wazero and canonicalizes their signatures.
type Engine struct {
	runtime wazero.Runtime
	sigs    *sigreg.Registry
	log     *zap.Logger

	mu    sync.Mutex
	hosts map[string]*dispatch.FuncRef // "module.name" -> ref

	closed atomic.Bool
}

// New creates an engine. cfg may be nil.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	var (
		reg *sigreg.Registry
		log *zap.Logger
	)

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.EnableThreads {
			runtimeCfg = runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
		}
		reg = cfg.Registry
		log = cfg.Logger
	}
	if reg == nil {
		reg = sigreg.New()
	}
	if log == nil {
		log = Logger()
	}

	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		sigs:    reg,
		log:     log,
		hosts:   make(map[string]*dispatch.FuncRef),
	}, nil
}

// Registry returns the registry the engine canonicalizes into.
func (e *Engine) Registry() *sigreg.Registry {
	return e.sigs
}

// FuncSig describes one function of a compiled module.
type FuncSig struct {
	Module string // import module; empty for exports
	Name   string
	Sig    wasm.FuncType
	Type   sigreg.SigIndex
	Import bool
}

// Compile compiles bin and registers the signature of every imported and
// exported function.
func (e *Engine) Compile(ctx context.Context, bin []byte) (*Module, error) {
	if e.closed.Load() {
		return nil, errors.New(errors.PhaseCompile, errors.KindClosed).Detail("engine closed").Build()
	}
	if len(bin) == 0 {
		return nil, errors.InvalidInput(errors.PhaseCompile, "empty module binary")
	}

	compiled, err := e.runtime.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompile, errors.KindInvalidInput, err, "wazero compile")
	}

	m := &Module{
		compiled: compiled,
		exports:  make(map[string]FuncSig),
	}

	for _, def := range compiled.ImportedFunctions() {
		modName, name, _ := def.Import()
		fs, err := e.register(modName, name, true, def)
		if err != nil {
			_ = compiled.Close(ctx)
			return nil, err
		}
		m.funcs = append(m.funcs, fs)
	}

	exported := compiled.ExportedFunctions()
	names := make([]string, 0, len(exported))
	for name := range exported {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fs, err := e.register("", name, false, exported[name])
		if err != nil {
			_ = compiled.Close(ctx)
			return nil, err
		}
		m.funcs = append(m.funcs, fs)
		m.exports[name] = fs
	}

	e.log.Debug("compiled module",
		zap.String("name", compiled.Name()),
		zap.Int("functions", len(m.funcs)),
		zap.Int("signatures", e.sigs.Len()))
	return m, nil
}

func (e *Engine) register(modName, name string, imported bool, def api.FunctionDefinition) (FuncSig, error) {
	ft := FuncTypeOf(def)
	idx, err := e.sigs.Register(ft)
	if err != nil {
		qualified := name
		if modName != "" {
			qualified = modName + "." + name
		}
		return FuncSig{}, errors.New(errors.PhaseCompile, errors.KindCapacity).
			Name(qualified).
			Got(ft.String()).
			Cause(err).
			Build()
	}
	return FuncSig{Module: modName, Name: name, Import: imported, Sig: ft, Type: idx}, nil
}

// RegisterComponentFunc flattens a component function with the given WIT
// params and results and registers its core signature. conv must be
// CallConvCanonLift or CallConvCanonLower.
func (e *Engine) RegisterComponentFunc(name string, params, results []wit.Type, conv wasm.CallConv) (FuncSig, error) {
	var ft wasm.FuncType
	switch conv {
	case wasm.CallConvCanonLift:
		ft = witsig.Lift(params, results)
	case wasm.CallConvCanonLower:
		ft = witsig.Lower(params, results)
	default:
		return FuncSig{}, errors.New(errors.PhaseLower, errors.KindUnsupported).
			Name(name).
			Detail("component functions are lifted or lowered, not %s", conv).
			Build()
	}

	idx, err := e.sigs.Register(ft)
	if err != nil {
		return FuncSig{}, errors.New(errors.PhaseLower, errors.KindCapacity).
			Name(name).
			Got(ft.String()).
			Cause(err).
			Build()
	}
	e.log.Debug("registered component function",
		zap.String("name", name),
		zap.Stringer("conv", conv),
		zap.Uint32("sig", uint32(idx)))
	return FuncSig{Name: name, Sig: ft, Type: idx}, nil
}

// HostFunc is a Go function exported to guests under a host module.
type HostFunc struct {
	Fn      api.GoFunc
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// DefineHostModule instantiates a host module named module with funcs and
// registers each function's signature. The functions are then importable by
// guests and reachable through HostFuncRef.
func (e *Engine) DefineHostModule(ctx context.Context, module string, funcs ...HostFunc) error {
	if e.closed.Load() {
		return errors.New(errors.PhaseHost, errors.KindClosed).Detail("engine closed").Build()
	}
	if module == "" {
		return errors.InvalidInput(errors.PhaseHost, "empty host module name")
	}

	builder := e.runtime.NewHostModuleBuilder(module)
	sigs := make([]sigreg.SigIndex, len(funcs))
	fts := make([]wasm.FuncType, len(funcs))
	for i, h := range funcs {
		if h.Name == "" || h.Fn == nil {
			return errors.New(errors.PhaseHost, errors.KindInvalidInput).
				Name(module).
				Detail("host function %d needs a name and a body", i).
				Build()
		}
		ft := wasm.NewFuncType(ValTypes(h.Params), ValTypes(h.Results))
		idx, err := e.sigs.Register(ft)
		if err != nil {
			return errors.New(errors.PhaseHost, errors.KindCapacity).
				Name(module + "." + h.Name).
				Got(ft.String()).
				Cause(err).
				Build()
		}
		sigs[i], fts[i] = idx, ft
		builder = builder.NewFunctionBuilder().
			WithGoFunction(h.Fn, h.Params, h.Results).
			Export(h.Name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "instantiate host module "+module)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, h := range funcs {
		qualified := module + "." + h.Name
		fn := h.Fn
		// Host modules have no callable exports in wazero; call the Go body.
		e.hosts[qualified] = newFuncRef(qualified, sigs[i], fts[i], func(ctx context.Context, stack []uint64) error {
			fn.Call(ctx, stack)
			return nil
		})
	}

	e.log.Debug("defined host module",
		zap.String("module", module),
		zap.Int("functions", len(funcs)))
	return nil
}

// HostFuncRef returns the reference of a host function defined earlier.
func (e *Engine) HostFuncRef(module, name string) (*dispatch.FuncRef, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ref, ok := e.hosts[module+"."+name]
	return ref, ok
}

// Instantiate instantiates m under name. Imports must already be defined.
func (e *Engine) Instantiate(ctx context.Context, m *Module, name string) (*Instance, error) {
	if e.closed.Load() {
		return nil, errors.New(errors.PhaseInstantiate, errors.KindClosed).Detail("engine closed").Build()
	}

	mod, err := e.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, errors.New(errors.PhaseInstantiate, errors.KindInvalidInput).
			Name(name).
			Cause(err).
			Build()
	}

	inst := &Instance{
		mod:  mod,
		refs: make(map[string]*dispatch.FuncRef, len(m.exports)),
	}
	for exportName, fs := range m.exports {
		fn := mod.ExportedFunction(exportName)
		if fn == nil {
			continue
		}
		qualified := exportName
		if name != "" {
			qualified = name + "." + exportName
		}
		inst.refs[exportName] = newFuncRef(qualified, fs.Type, fs.Sig, fn.CallWithStack)
	}
	return inst, nil
}

// Close releases the wazero runtime and every module it instantiated.
// The registry is left intact; a shared registry may outlive the engine.
func (e *Engine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.runtime.Close(ctx)
}

func newFuncRef(name string, idx sigreg.SigIndex, ft wasm.FuncType, call func(context.Context, []uint64) error) *dispatch.FuncRef {
	need := stackSize(ft)
	return &dispatch.FuncRef{
		Name: name,
		Type: idx,
		Invoke: func(ctx context.Context, stack []uint64) error {
			if len(stack) < need {
				return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
					Name(name).
					Detail("stack has %d slots, %s needs %d", len(stack), ft, need).
					Build()
			}
			return call(ctx, stack)
		},
	}
}
