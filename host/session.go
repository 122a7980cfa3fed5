package host

import (
	"bytes"
	"context"
	"math/rand/v2"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/errors"
)

type sessionKey struct{}

type guestExports struct {
	allocData      api.Function
	draw           api.Function
	onClick        api.Function
	drawBackground api.Function
	screenTick     api.Function
	screenOpen     api.Function
	screenClose    api.Function
}

// Session drives one loaded game. It is safe for concurrent use; calls into
// the guest are serialized.
//
// A guest failure is logged at error level and terminates the session, as
// does a close_app request. Either way the game still receives screen_close
// if its screen was open.
type Session struct {
	mod     api.Module
	rt      *Runtime
	canvas  *Canvas
	rng     *rand.Rand
	log     *zap.Logger
	exports guestExports
	app     string
	data    []byte
	handle  int32
	mu      sync.Mutex

	open       bool
	terminated bool
	// drawing gates the canvas imports; closing records a close_app made
	// during the current call.
	drawing bool
	closing bool
}

func (s *Session) bind(mod api.Module) {
	s.mod = mod
	s.exports = guestExports{
		allocData:      mod.ExportedFunction(abi.ExportAllocData),
		draw:           mod.ExportedFunction(abi.ExportDraw),
		onClick:        mod.ExportedFunction(abi.ExportOnClick),
		drawBackground: mod.ExportedFunction(abi.ExportDrawBackground),
		screenTick:     mod.ExportedFunction(abi.ExportScreenTick),
		screenOpen:     mod.ExportedFunction(abi.ExportScreenOpen),
		screenClose:    mod.ExportedFunction(abi.ExportScreenClose),
	}
}

func (s *Session) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) *Session {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok {
		panic(errors.NotInitialized(errors.PhaseHost, "game session"))
	}
	return s
}

// App returns the app id the session was loaded for.
func (s *Session) App() string {
	return s.app
}

// Handle returns the handle the guest issued at registration.
func (s *Session) Handle() int32 {
	return s.handle
}

// Terminated reports whether the game closed itself or failed.
func (s *Session) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// IsOpen reports whether the screen is open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Snapshot returns a copy of the canvas.
func (s *Session) Snapshot() *Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Clone()
}

// PersistentData returns a copy of the current blob.
func (s *Session) PersistentData() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.data)
}

// Open opens the screen.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return errors.Closed(s.app)
	}
	if s.open {
		return nil
	}
	s.open = true
	if s.exports.screenOpen == nil {
		return nil
	}
	_, err := s.invoke(ctx, abi.ExportScreenOpen, s.exports.screenOpen)
	return err
}

// Close closes the screen. The session can be opened again unless the game
// terminated it.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	if s.exports.screenClose == nil {
		return nil
	}
	_, err := s.invoke(ctx, abi.ExportScreenClose, s.exports.screenClose)
	return err
}

// Tick advances the game by one host tick.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return errors.Closed(s.app)
	}
	if s.exports.screenTick == nil {
		return nil
	}
	_, err := s.invoke(ctx, abi.ExportScreenTick, s.exports.screenTick)
	return err
}

// Render draws the background and then the game onto the canvas.
func (s *Session) Render(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return errors.Closed(s.app)
	}

	s.drawing = true
	defer func() { s.drawing = false }()

	if s.exports.drawBackground == nil {
		bg, _ := LookupSprite(SpriteBackground)
		s.canvas.DrawSprite(0, 0, bg)
	} else if _, err := s.invoke(ctx, abi.ExportDrawBackground, s.exports.drawBackground); err != nil {
		return err
	}
	if s.terminated {
		return nil
	}
	_, err := s.invoke(ctx, abi.ExportDraw, s.exports.draw)
	return err
}

// Click delivers a click at canvas coordinates (x, y). The result reports
// whether the game handled it; guests that do not return a value never do.
func (s *Session) Click(ctx context.Context, click abi.ClickType, x, y int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return false, errors.Closed(s.app)
	}
	res, err := s.invoke(ctx, abi.ExportOnClick, s.exports.onClick,
		api.EncodeI32(int32(click)), api.EncodeI32(int32(x)), api.EncodeI32(int32(y)))
	if err != nil || len(res) == 0 {
		return false, err
	}
	return api.DecodeI32(res[0]) != 0, nil
}

// Unload closes the screen if needed and releases the module instance.
func (s *Session) Unload(ctx context.Context) error {
	if err := s.Close(ctx); err != nil {
		s.log.Debug("close before unload", zap.Error(err))
	}
	return s.mod.Close(ctx)
}

// invoke calls a guest export with the session handle prepended. Callers
// hold s.mu.
func (s *Session) invoke(ctx context.Context, name string, fn api.Function, params ...uint64) ([]uint64, error) {
	args := append([]uint64{api.EncodeI32(s.handle)}, params...)
	res, err := fn.Call(s.context(ctx), args...)

	if s.closing {
		// Errors after close_app are the guest unwinding and are expected.
		s.closing = false
		s.terminate(ctx)
		return nil, nil
	}
	if err != nil {
		s.log.Error("WASM "+name, zap.Error(err))
		s.terminate(ctx)
		return nil, errors.GuestFailure(name, err)
	}
	return res, nil
}

// terminate ends the session. The guest gets its screen_close if the screen
// was open.
func (s *Session) terminate(ctx context.Context) {
	if s.terminated {
		return
	}
	s.terminated = true
	s.drawing = false

	if !s.open {
		return
	}
	s.open = false
	if s.exports.screenClose == nil {
		return
	}
	if _, err := s.exports.screenClose.Call(s.context(ctx), api.EncodeI32(s.handle)); err != nil && !s.closing {
		s.log.Error("WASM "+abi.ExportScreenClose, zap.Error(err))
	}
	s.closing = false
}

// lineWriter forwards guest stdout and stderr to the session logger.
type lineWriter struct {
	log   *zap.Logger
	level zapcore.Level
	buf   []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		if ce := w.log.Check(w.level, string(w.buf[:i])); ce != nil {
			ce.Write(zap.String("stream", "stdio"))
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}
