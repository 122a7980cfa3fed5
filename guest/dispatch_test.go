package guest

import (
	"errors"
	"strings"
	"testing"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/abi/abitest"
	mtgerrors "github.com/wippyai/tardis-games/errors"
)

type testGame struct {
	onDraw  func(s *Screen, c *Canvas)
	onTick  func(s *Screen)
	onClose func(s *Screen)
	clicks  []abi.ClickType
	lastX   int32
	lastY   int32
	draws   int
	ticks   int
	opens   int
	closes  int
	consume bool
}

func (g *testGame) Draw(s *Screen, c *Canvas) {
	g.draws++
	if g.onDraw != nil {
		g.onDraw(s, c)
	}
}

func (g *testGame) OnClick(s *Screen, click abi.ClickType, x, y int32) bool {
	g.clicks = append(g.clicks, click)
	g.lastX, g.lastY = x, y
	return g.consume
}

func (g *testGame) ScreenTick(s *Screen) {
	g.ticks++
	if g.onTick != nil {
		g.onTick(s)
	}
}

func (g *testGame) ScreenOpen(s *Screen) { g.opens++ }

func (g *testGame) ScreenClose(s *Screen) {
	g.closes++
	if g.onClose != nil {
		g.onClose(s)
	}
}

// minimalGame implements only the required capabilities.
type minimalGame struct{ draws int }

func (g *minimalGame) Draw(*Screen, *Canvas) { g.draws++ }
func (g *minimalGame) OnClick(*Screen, abi.ClickType, int32, int32) bool { return false }

func newTestRuntime(t *testing.T, game Game) (*Runtime, *abitest.Host) {
	t.Helper()
	host := abitest.NewHost()
	return NewRuntime(host, host.Mem, func(*Screen) Game { return game }), host
}

func registered(t *testing.T, game Game) (*Runtime, *abitest.Host, Handle) {
	t.Helper()
	rt, host := newTestRuntime(t, game)
	h := rt.Register()
	if h == 0 {
		t.Fatal("Register returned the null handle")
	}
	return rt, host, h
}

func TestRegister_SingleInstance(t *testing.T) {
	built := 0
	host := abitest.NewHost()
	rt := NewRuntime(host, host.Mem, func(*Screen) Game {
		built++
		return &testGame{}
	})

	if rt.State() != StateUninitialized {
		t.Fatalf("initial state = %v", rt.State())
	}

	first := rt.Register()
	second := rt.Register()
	if first != 1 || second != first {
		t.Errorf("handles = %v, %v, want both 1", first, second)
	}
	if built != 1 {
		t.Errorf("factory ran %d times, want 1", built)
	}
	if rt.State() != StateRegistered {
		t.Errorf("state = %v, want registered", rt.State())
	}

	last := host.LastLog()
	if last.Level != abi.LogWarn || !strings.Contains(last.Message, "already registered") {
		t.Errorf("second registration log = %+v", last)
	}
}

func TestRegister_FactoryPanicPropagates(t *testing.T) {
	host := abitest.NewHost()
	rt := NewRuntime(host, host.Mem, func(*Screen) Game {
		panic("corrupt save")
	})

	defer func() {
		if v := recover(); v != "corrupt save" {
			t.Errorf("recovered %v, want the factory panic", v)
		}
		if rt.trap.Installed() {
			t.Error("trap installed after a failed registration")
		}
	}()
	rt.Register()
	t.Fatal("Register returned after factory panic")
}

func TestRegister_NilGame(t *testing.T) {
	host := abitest.NewHost()
	rt := NewRuntime(host, host.Mem, func(*Screen) Game { return nil })

	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, &mtgerrors.Error{Kind: mtgerrors.KindNotInitialized}) {
			t.Errorf("recovered %v, want not initialized", err)
		}
	}()
	rt.Register()
}

func TestDispatch_BeforeRegistrationPanics(t *testing.T) {
	rt, _ := newTestRuntime(t, &testGame{})

	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, mtgerrors.ErrNullHandle) {
			t.Errorf("recovered %v, want null handle", err)
		}
	}()
	rt.Draw(1)
}

func TestResolve(t *testing.T) {
	game := &testGame{}
	rt, _, h := registered(t, game)

	got, err := rt.registry.resolve(h)
	if err != nil {
		t.Fatalf("resolve(%v) failed: %v", h, err)
	}
	if got != game {
		t.Error("resolve returned a different game")
	}

	for _, bad := range []Handle{0, -1, 2, 1 << 20} {
		if _, err := rt.registry.resolve(bad); !errors.Is(err, mtgerrors.ErrNullHandle) {
			t.Errorf("resolve(%v) error = %v, want null handle", bad, err)
		}
	}
}

func TestDispatch_NullHandleIsTrapped(t *testing.T) {
	game := &testGame{}
	rt, host, _ := registered(t, game)

	rt.Draw(0)

	if game.draws != 0 {
		t.Error("game drawn through the null handle")
	}
	last := host.LastLog()
	if last.Level != abi.LogError {
		t.Fatalf("log level = %v, want error", last.Level)
	}
	if !strings.HasPrefix(last.Message, "mtg_draw panicked: ") || !strings.Contains(last.Message, "null_handle") {
		t.Errorf("log message = %q", last.Message)
	}
}

func TestOnClick(t *testing.T) {
	tests := []struct {
		name      string
		code      int32
		consume   bool
		want      int32
		wantClick abi.ClickType
		trapped   bool
	}{
		{name: "left consumed", code: 0, consume: true, want: 1, wantClick: abi.ClickLeft},
		{name: "right ignored", code: 1, consume: false, want: 0, wantClick: abi.ClickRight},
		{name: "unknown type", code: 2, consume: true, want: 0, trapped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &testGame{consume: tt.consume}
			rt, host, h := registered(t, game)

			got := rt.OnClick(h, tt.code, 17, 42)
			if got != tt.want {
				t.Errorf("OnClick = %d, want %d", got, tt.want)
			}

			if tt.trapped {
				if len(game.clicks) != 0 {
					t.Error("game saw an undecodable click")
				}
				last := host.LastLog()
				if last.Level != abi.LogError || !strings.Contains(last.Message, "unknown_enum_value") {
					t.Errorf("log = %+v, want unknown enum error", last)
				}
				return
			}

			if len(game.clicks) != 1 || game.clicks[0] != tt.wantClick {
				t.Fatalf("clicks = %v, want [%v]", game.clicks, tt.wantClick)
			}
			if game.lastX != 17 || game.lastY != 42 {
				t.Errorf("click at (%d, %d), want (17, 42)", game.lastX, game.lastY)
			}
		})
	}
}

func TestDrawBackground_Default(t *testing.T) {
	rt, host, h := registered(t, &minimalGame{})

	rt.DrawBackground(h)

	if len(host.Sprites) != 1 {
		t.Fatalf("sprites = %+v, want one", host.Sprites)
	}
	if s := host.Sprites[0]; s.Name != BackgroundSprite || s.X != 0 || s.Y != 0 {
		t.Errorf("sprite = %+v", s)
	}
}

type backgroundGame struct{ minimalGame }

func (backgroundGame) DrawBackground(s *Screen, c *Canvas) {
	c.SetARGB(1, 1, -1)
}

func TestDrawBackground_Override(t *testing.T) {
	rt, host, h := registered(t, &backgroundGame{})

	rt.DrawBackground(h)

	if len(host.Sprites) != 0 {
		t.Errorf("default sprite drawn: %+v", host.Sprites)
	}
	if len(host.Pixels) != 1 || host.Pixels[0].Func != abi.FuncSetARGB {
		t.Errorf("pixels = %+v", host.Pixels)
	}
}

func TestOptionalCallbacks_Defaults(t *testing.T) {
	game := &minimalGame{}
	rt, host, h := registered(t, game)

	rt.ScreenOpen(h)
	rt.ScreenTick(h)
	rt.Draw(h)
	rt.ScreenClose(h)

	if game.draws != 1 {
		t.Errorf("draws = %d, want 1", game.draws)
	}
	if len(host.Logs) != 0 {
		t.Errorf("unexpected logs: %+v", host.Logs)
	}
}

func TestLifecycle(t *testing.T) {
	game := &testGame{}
	rt, _, h := registered(t, game)

	for i := 0; i < 3; i++ {
		rt.ScreenOpen(h)
		if rt.State() != StateOpen {
			t.Fatalf("state after open = %v", rt.State())
		}
		rt.ScreenTick(h)
		rt.Draw(h)
		rt.ScreenClose(h)
		if rt.State() != StateClosed {
			t.Fatalf("state after close = %v", rt.State())
		}
	}

	// Callbacks while closed are not rejected.
	rt.Draw(h)

	if game.opens != 3 || game.closes != 3 || game.ticks != 3 || game.draws != 4 {
		t.Errorf("opens=%d closes=%d ticks=%d draws=%d", game.opens, game.closes, game.ticks, game.draws)
	}
}

func TestCloseRequest(t *testing.T) {
	game := &testGame{consume: true}
	game.onDraw = func(s *Screen, c *Canvas) {
		if game.draws == 2 {
			s.Close()
		}
	}
	rt, host, h := registered(t, game)

	rt.ScreenOpen(h)
	rt.Draw(h)
	if host.Closes != 0 {
		t.Fatal("close_app issued without a request")
	}
	rt.Draw(h)
	if host.Closes != 1 {
		t.Fatalf("close_app calls = %d, want 1", host.Closes)
	}

	rt.Draw(h)
	rt.DrawBackground(h)
	rt.ScreenTick(h)
	if got := rt.OnClick(h, 0, 1, 1); got != 0 {
		t.Errorf("OnClick while closing = %d, want 0", got)
	}
	if game.draws != 2 || game.ticks != 0 || len(game.clicks) != 0 || len(host.Sprites) != 0 {
		t.Errorf("callbacks delivered while closing: draws=%d ticks=%d clicks=%d sprites=%d",
			game.draws, game.ticks, len(game.clicks), len(host.Sprites))
	}

	rt.ScreenClose(h)
	if game.closes != 1 {
		t.Error("screen close not delivered while closing")
	}

	rt.ScreenOpen(h)
	rt.Draw(h)
	if game.draws != 3 {
		t.Errorf("draws after reopen = %d, want 3", game.draws)
	}
	if host.Closes != 1 {
		t.Errorf("close_app calls = %d, want 1", host.Closes)
	}
}

func TestCloseRequest_FromScreenClose(t *testing.T) {
	game := &testGame{onClose: func(s *Screen) { s.Close() }}
	rt, host, h := registered(t, game)

	rt.ScreenOpen(h)
	rt.ScreenClose(h)
	rt.ScreenOpen(h)
	rt.Draw(h)

	if host.Closes != 0 {
		t.Errorf("close_app calls = %d, want 0", host.Closes)
	}
	if game.draws != 1 {
		t.Errorf("draws = %d, want 1", game.draws)
	}
}

func TestCloseRequest_DroppedOnPanic(t *testing.T) {
	game := &testGame{}
	game.onTick = func(s *Screen) {
		s.Close()
		panic("tick failed")
	}
	rt, host, h := registered(t, game)

	rt.ScreenOpen(h)
	rt.ScreenTick(h)
	rt.Draw(h)

	if host.Closes != 0 {
		t.Errorf("close_app calls = %d, want 0", host.Closes)
	}
	if game.draws != 1 {
		t.Errorf("draws = %d, want 1", game.draws)
	}
	if !strings.HasPrefix(host.Logs[0].Message, "mtg_screen_tick panicked: tick failed") {
		t.Errorf("log = %q", host.Logs[0].Message)
	}
}

func TestTrap_RecoversAfterRegistration(t *testing.T) {
	game := &testGame{onDraw: func(*Screen, *Canvas) {
		var frames []int
		_ = frames[3]
	}}
	rt, host, h := registered(t, game)

	rt.Draw(h)
	rt.Draw(h)

	if len(host.Logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(host.Logs))
	}
	for _, l := range host.Logs {
		if l.Level != abi.LogError {
			t.Errorf("level = %v, want error", l.Level)
		}
		if !strings.Contains(l.Message, "index out of range") {
			t.Errorf("message %q lacks the panic value", l.Message)
		}
		if !strings.Contains(l.Message, "goroutine") {
			t.Errorf("message %q lacks a stack", l.Message)
		}
	}
}
