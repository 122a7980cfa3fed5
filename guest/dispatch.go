package guest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/errors"
)

// Game is the capability set every game implements.
type Game interface {
	// Draw renders one frame.
	Draw(s *Screen, c *Canvas)
	// OnClick handles a click at canvas coordinates (x, y) and reports
	// whether it did anything.
	OnClick(s *Screen, click abi.ClickType, x, y int32) bool
}

// BackgroundDrawer replaces the default background, the built-in
// app_background sprite at (0, 0).
type BackgroundDrawer interface {
	DrawBackground(s *Screen, c *Canvas)
}

// Ticker is called on every host tick while the screen is open.
type Ticker interface {
	ScreenTick(s *Screen)
}

// Opener is called when the screen opens.
type Opener interface {
	ScreenOpen(s *Screen)
}

// Closer is called when the screen closes.
type Closer interface {
	ScreenClose(s *Screen)
}

// Factory constructs the game. It runs once, during registration, and may
// read persistent data through s.
type Factory func(s *Screen) Game

// State is the lifecycle position of the game object.
type State int

const (
	StateUninitialized State = iota
	StateRegistered
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRegistered:
		return "registered"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Runtime dispatches entry point calls to the registered game.
type Runtime struct {
	imports  abi.Imports
	marshal  *abi.Marshaller
	factory  Factory
	registry registry
	trap     Trap
	screen   *Screen
	canvas   *Canvas
	state    State

	// closeRequested is set by Screen.Close during a callback; closing is
	// set once close_app has been issued and lasts until the next open.
	closeRequested bool
	closing        bool
}

// NewRuntime creates a runtime calling into imports, with buffers resolved
// through mem.
func NewRuntime(imports abi.Imports, mem abi.Memory, factory Factory) *Runtime {
	r := &Runtime{
		imports: imports,
		marshal: abi.NewMarshaller(mem),
		factory: factory,
	}
	r.screen = &Screen{rt: r}
	r.screen.logger = newHostLogger(r.screen.Log)
	r.canvas = &Canvas{rt: r}
	return r
}

// State returns the lifecycle state.
func (r *Runtime) State() State {
	return r.state
}

// Screen returns the screen handed to callbacks.
func (r *Runtime) Screen() *Screen {
	return r.screen
}

// Register constructs the game and returns its handle. The trap is
// installed after construction succeeds, so a failing factory aborts the
// module. Later calls return the existing handle.
func (r *Runtime) Register() Handle {
	defer r.trap.Guard(abi.ExportAllocData)

	if h := r.registry.handle(); h != 0 {
		r.screen.logger.Warn("game already registered", zap.Stringer("handle", h))
		return h
	}

	game := r.factory(r.screen)
	if game == nil {
		panic(errors.NotInitialized(errors.PhaseDispatch, "game"))
	}
	h := r.registry.insert(game)
	r.trap.Install(r.reportPanic)
	r.state = StateRegistered
	return h
}

// Draw renders a frame.
func (r *Runtime) Draw(h Handle) {
	defer r.trap.Guard(abi.ExportDraw)

	game := r.mustResolve(h)
	if r.closing {
		return
	}
	game.Draw(r.screen, r.canvas)
	r.finish()
}

// OnClick decodes the click type and returns 1 when the game handled the
// click. Unknown click types are fatal to the call.
func (r *Runtime) OnClick(h Handle, code, x, y int32) (consumed int32) {
	defer r.trap.Guard(abi.ExportOnClick)

	game := r.mustResolve(h)
	click, err := abi.DecodeClickType(code)
	if err != nil {
		panic(err)
	}
	if r.closing {
		return 0
	}
	if game.OnClick(r.screen, click, x, y) {
		consumed = 1
	}
	r.finish()
	return consumed
}

// DrawBackground draws the game's background, or the built-in one.
func (r *Runtime) DrawBackground(h Handle) {
	defer r.trap.Guard(abi.ExportDrawBackground)

	game := r.mustResolve(h)
	if r.closing {
		return
	}
	if bg, ok := game.(BackgroundDrawer); ok {
		bg.DrawBackground(r.screen, r.canvas)
	} else {
		r.canvas.DrawSprite(0, 0, BackgroundSprite)
	}
	r.finish()
}

func (r *Runtime) ScreenTick(h Handle) {
	defer r.trap.Guard(abi.ExportScreenTick)

	game := r.mustResolve(h)
	if r.closing {
		return
	}
	if t, ok := game.(Ticker); ok {
		t.ScreenTick(r.screen)
	}
	r.finish()
}

func (r *Runtime) ScreenOpen(h Handle) {
	defer r.trap.Guard(abi.ExportScreenOpen)

	game := r.mustResolve(h)
	r.state = StateOpen
	r.closing = false
	r.closeRequested = false
	if o, ok := game.(Opener); ok {
		o.ScreenOpen(r.screen)
	}
	r.finish()
}

// ScreenClose is delivered even after the game asked to close. A close
// request made from inside it is dropped since the screen is already
// closing.
func (r *Runtime) ScreenClose(h Handle) {
	defer r.trap.Guard(abi.ExportScreenClose)

	game := r.mustResolve(h)
	r.state = StateClosed
	if c, ok := game.(Closer); ok {
		c.ScreenClose(r.screen)
	}
	r.closeRequested = false
}

func (r *Runtime) mustResolve(h Handle) Game {
	game, err := r.registry.resolve(h)
	if err != nil {
		panic(err)
	}
	return game
}

// finish issues a pending close request. close_app may not return, so it is
// the last thing a callback does.
func (r *Runtime) finish() {
	if !r.closeRequested {
		return
	}
	r.closeRequested = false
	r.closing = true
	r.imports.CloseApp()
}

func (r *Runtime) mustRef(ref abi.Ref, err error) abi.Ref {
	if err != nil {
		panic(err)
	}
	return ref
}

func (r *Runtime) reportPanic(callback string, value any, stack []byte) {
	r.closeRequested = false
	r.screen.Log(abi.LogError, fmt.Sprintf("%s panicked: %v\n%s", callback, value, stack))
}
