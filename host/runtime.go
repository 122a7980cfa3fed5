package host

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/errors"
	"github.com/wippyai/tardis-games/store"
)

// Sound is a sound event requested by a game.
type Sound struct {
	App      string
	ID       string
	Category abi.SoundCategory
	Volume   float32
	Pitch    float32
}

// Options configures a Runtime.
type Options struct {
	// Store holds persistent data. Defaults to an in-memory store.
	Store store.Store

	// OnSound receives play_sound requests. Defaults to logging them.
	OnSound func(Sound)

	// Width and Height set the canvas size, 128x96 when zero.
	Width  int
	Height int

	// Seed makes random_i32 deterministic when non-zero.
	Seed uint64

	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32
}

// Runtime loads game modules and binds the mini_tardis_games host module
// they import.
type Runtime struct {
	wz    wazero.Runtime
	opts  Options
	start time.Time
	seq   atomic.Uint64
}

// NewRuntime creates a runtime with WASI preview1 and the game host module
// instantiated.
func NewRuntime(ctx context.Context, opts Options) (*Runtime, error) {
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	cfg := wazero.NewRuntimeConfig()
	if opts.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(opts.MemoryLimitPages)
	}

	r := &Runtime{
		wz:    wazero.NewRuntimeWithConfig(ctx, cfg),
		opts:  opts,
		start: time.Now(),
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.wz); err != nil {
		_ = r.wz.Close(ctx)
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInstantiation, err, "instantiate WASI")
	}

	builder := r.wz.NewHostModuleBuilder(abi.ImportModule)
	for _, f := range hostFuncs(r) {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, f.params, f.results).
			WithName(f.name).
			Export(f.name)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		_ = r.wz.Close(ctx)
		return nil, errors.Registration(abi.ImportModule, "*", err)
	}

	return r, nil
}

// Close releases the runtime and every session loaded from it.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wz.Close(ctx)
}

// Load instantiates a game module for app, registers its game object and
// returns the session driving it. The screen is not open yet.
func (r *Runtime) Load(ctx context.Context, app string, wasm []byte) (*Session, error) {
	compiled, err := r.wz.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile "+app, err)
	}

	exports := compiled.ExportedFunctions()
	var missing []string
	for _, name := range abi.RequiredExports {
		if _, ok := exports[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		_ = compiled.Close(ctx)
		return nil, errors.NewMissingExportsError(missing)
	}

	data, err := r.opts.Store.Load(ctx, app)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	seed := r.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &Session{
		app:    app,
		rt:     r,
		canvas: NewCanvas(r.opts.Width, r.opts.Height),
		data:   data,
		rng:    rand.New(rand.NewPCG(seed, r.seq.Add(1))),
		log:    Logger().With(zap.String("app", app)),
	}
	callCtx := s.context(ctx)

	cfg := wazero.NewModuleConfig().
		WithName(fmt.Sprintf("%s#%d", app, r.seq.Add(1))).
		WithStartFunctions().
		WithStdout(&lineWriter{log: s.log, level: zap.InfoLevel}).
		WithStderr(&lineWriter{log: s.log, level: zap.WarnLevel}).
		WithSysNanotime().
		WithSysWalltime()
	mod, err := r.wz.InstantiateModule(callCtx, compiled, cfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(callCtx); err != nil {
			_ = mod.Close(ctx)
			return nil, errors.Instantiation(err)
		}
	}
	s.bind(mod)

	res, err := s.exports.allocData.Call(callCtx)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, errors.GuestFailure(abi.ExportAllocData, err)
	}
	if len(res) != 1 {
		_ = mod.Close(ctx)
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Path(abi.ExportAllocData).
			Detail("returned %d values, want 1", len(res)).
			Build()
	}
	s.handle = api.DecodeI32(res[0])
	if s.handle == 0 {
		_ = mod.Close(ctx)
		return nil, errors.NullHandle(0)
	}

	s.log.Debug("game loaded", zap.Int32("handle", s.handle))
	return s, nil
}

func (r *Runtime) nanoTime() int64 {
	return time.Since(r.start).Nanoseconds()
}

func (r *Runtime) playSound(s Sound) {
	if r.opts.OnSound != nil {
		r.opts.OnSound(s)
		return
	}
	Logger().Debug("play sound",
		zap.String("app", s.App),
		zap.String("id", s.ID),
		zap.Stringer("category", s.Category),
		zap.Float32("volume", s.Volume),
		zap.Float32("pitch", s.Pitch))
}
