package host

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/tardis-games/abi"
	mtgerrors "github.com/wippyai/tardis-games/errors"
	"github.com/wippyai/tardis-games/store"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func newTestRuntime(t *testing.T, opts Options) *Runtime {
	t.Helper()
	ctx := context.Background()
	rt, err := NewRuntime(ctx, opts)
	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close(ctx) })
	return rt
}

func load(t *testing.T, rt *Runtime, app string, wasm []byte) *Session {
	t.Helper()
	s, err := rt.Load(context.Background(), app, wasm)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func TestSession_FullGuest(t *testing.T) {
	ctx := context.Background()
	logs := observe(t)
	var sounds []Sound
	st := store.NewMemory()
	rt := newTestRuntime(t, Options{Store: st, OnSound: func(s Sound) { sounds = append(sounds, s) }})
	s := load(t, rt, "full", fullGuest())

	if s.Handle() != 7 {
		t.Errorf("Handle = %d, want 7", s.Handle())
	}
	if s.App() != "full" {
		t.Errorf("App = %q", s.App())
	}

	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	guestLines := logs.FilterLoggerName("guest").All()
	if len(guestLines) != 1 || guestLines[0].Message != "hello" || guestLines[0].Level != zapcore.InfoLevel {
		t.Fatalf("guest log = %+v", guestLines)
	}
	if app := guestLines[0].ContextMap()["app"]; app != "full" {
		t.Errorf("guest log app = %v", app)
	}

	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	c := s.Snapshot()
	if got := c.Raw(100, 50); got != 33 {
		t.Errorf("set_raw pixel = %d, want 33", got)
	}
	if got := c.Raw(0, 0); got != 119 {
		t.Errorf("background pixel = %d, want 119", got)
	}
	if got := c.Raw(0, 2); got != ClosestARGB(-1) {
		t.Errorf("text pixel = %d, want %d", got, ClosestARGB(-1))
	}

	consumed, err := s.Click(ctx, abi.ClickLeft, 10, 20)
	if err != nil || !consumed {
		t.Errorf("left click = %v, %v; want consumed", consumed, err)
	}
	consumed, err = s.Click(ctx, abi.ClickRight, 10, 20)
	if err != nil || consumed {
		t.Errorf("right click = %v, %v; want not consumed", consumed, err)
	}
	want := Sound{App: "full", ID: soundID, Category: abi.SoundRecords, Volume: 1, Pitch: 0.5}
	if len(sounds) != 2 || sounds[0] != want {
		t.Errorf("sounds = %+v", sounds)
	}

	for i := 0; i < 3; i++ {
		if err := s.Tick(ctx); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}
	res, err := s.mod.ExportedFunction("ticks").Call(ctx)
	if err != nil || res[0] != 3 {
		t.Errorf("ticks = %v, %v; want 3", res, err)
	}

	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.IsOpen() || s.Terminated() {
		t.Errorf("after Close open=%v terminated=%v", s.IsOpen(), s.Terminated())
	}
	data, err := st.Load(ctx, "full")
	if err != nil || data == nil || len(data) != 0 {
		t.Errorf("stored blob = %#v, %v; want empty", data, err)
	}

	if err := s.Open(ctx); err != nil {
		t.Errorf("reopen failed: %v", err)
	}
	if errs := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); errs != 0 {
		t.Errorf("%d error logs", errs)
	}
}

func TestSession_PersistentData(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Save(ctx, "counter", []byte("abcdefgh")); err != nil {
		t.Fatal(err)
	}
	rt := newTestRuntime(t, Options{Store: st})
	s := load(t, rt, "counter", fullGuest())

	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, _ := st.Load(ctx, "counter")
	if string(data) != "abcdefgh" {
		t.Errorf("stored blob = %q, want the blob read back by the guest", data)
	}
	if string(s.PersistentData()) != "abcdefgh" {
		t.Errorf("session blob = %q", s.PersistentData())
	}
}

func TestSession_Defaults(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, Options{})
	s := load(t, rt, "minimal", minimalGuest())

	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bg, _ := LookupSprite(SpriteBackground)
	c := s.Snapshot()
	if c.Raw(0, 0) != bg.Pix[0] || c.Raw(40, 41) != bg.Pix[41*bg.Width+40] {
		t.Error("default background not drawn")
	}
	if c.Raw(5, 5) != 33 {
		t.Errorf("draw pixel = %d, want 33", c.Raw(5, 5))
	}

	consumed, err := s.Click(ctx, abi.ClickLeft, 1, 1)
	if err != nil || consumed {
		t.Errorf("click on a guest without a result = %v, %v", consumed, err)
	}
	if err := s.Close(ctx); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestSession_CloseApp(t *testing.T) {
	ctx := context.Background()
	logs := observe(t)
	rt := newTestRuntime(t, Options{})
	s := load(t, rt, "closing", closingGuest())

	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render after close_app = %v, want nil", err)
	}
	if !s.Terminated() || s.IsOpen() {
		t.Fatalf("terminated=%v open=%v", s.Terminated(), s.IsOpen())
	}
	if logs.FilterLoggerName("guest").FilterMessage("hello").Len() != 1 {
		t.Error("screen_close not delivered after close_app")
	}
	if errs := logs.FilterLevelExact(zapcore.ErrorLevel).All(); len(errs) != 0 {
		t.Errorf("close_app logged errors: %+v", errs)
	}

	if err := s.Render(ctx); !errors.Is(err, mtgerrors.ErrClosed) {
		t.Errorf("Render on terminated session = %v, want closed", err)
	}
	if err := s.Open(ctx); !errors.Is(err, mtgerrors.ErrClosed) {
		t.Errorf("Open on terminated session = %v, want closed", err)
	}
}

func TestSession_GuestTrap(t *testing.T) {
	ctx := context.Background()
	logs := observe(t)
	st := store.NewMemory()
	rt := newTestRuntime(t, Options{Store: st})
	s := load(t, rt, "trapping", trappingGuest())

	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	err := s.Render(ctx)
	var e *mtgerrors.Error
	if !errors.As(err, &e) || e.Kind != mtgerrors.KindGuestFailure {
		t.Fatalf("Render error = %v, want guest failure", err)
	}
	if !s.Terminated() {
		t.Error("session survived a guest trap")
	}
	if logs.FilterMessage("WASM " + abi.ExportDraw).FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Errorf("trap not logged: %+v", logs.All())
	}
	if data, _ := st.Load(ctx, "trapping"); string(data) != "hello" {
		t.Errorf("screen_close after trap saved %q", data)
	}
}

func TestSession_CanvasOutsideDraw(t *testing.T) {
	ctx := context.Background()
	logs := observe(t)
	rt := newTestRuntime(t, Options{})
	s := load(t, rt, "ticker", tickDrawingGuest())

	_ = s.Open(ctx)
	err := s.Tick(ctx)
	if err == nil || !strings.Contains(err.Error(), "not currently drawing") {
		t.Errorf("Tick error = %v", err)
	}
	if logs.FilterMessage("WASM " + abi.ExportScreenTick).Len() != 1 {
		t.Errorf("failure not logged: %+v", logs.All())
	}
}

func TestSession_RawColorOutOfRange(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, Options{})
	s := load(t, rt, "badcolor", badColorGuest())

	err := s.Render(ctx)
	if err == nil || !strings.Contains(err.Error(), "out of bounds for byte") {
		t.Errorf("Render error = %v", err)
	}
}

func TestSession_RandomAndGetRaw(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, Options{Seed: 42})
	s := load(t, rt, "random", randomGuest())

	if err := s.Render(ctx); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	bg, _ := LookupSprite(SpriteBackground)
	if got, want := s.Snapshot().Raw(3, 3), bg.Pix[3*bg.Width+3]; got != want {
		t.Errorf("pixel copied through get_raw = %d, want %d", got, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, Options{})

	_, err := rt.Load(ctx, "missing", drawOnlyGuest())
	var missing *mtgerrors.MissingExportsError
	if !errors.As(err, &missing) {
		t.Fatalf("Load error = %v, want missing exports", err)
	}
	if !errors.Is(err, mtgerrors.ErrMissingExport) {
		t.Errorf("Load error %v does not match the missing export kind", err)
	}
	if len(missing.Exports) != 2 || missing.Exports[0] != abi.ExportAllocData || missing.Exports[1] != abi.ExportOnClick {
		t.Errorf("missing = %v", missing.Exports)
	}

	if _, err := rt.Load(ctx, "null", nullHandleGuest()); !errors.Is(err, mtgerrors.ErrNullHandle) {
		t.Errorf("null handle Load error = %v", err)
	}

	_, err = rt.Load(ctx, "garbage", []byte("not wasm"))
	var e *mtgerrors.Error
	if !errors.As(err, &e) || e.Phase != mtgerrors.PhaseLoad {
		t.Errorf("garbage Load error = %v", err)
	}
}

func TestLoad_SameGameTwice(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, Options{})
	a := load(t, rt, "full", fullGuest())
	b := load(t, rt, "full", fullGuest())

	_ = a.Open(ctx)
	_ = b.Open(ctx)
	for i := 0; i < 2; i++ {
		_ = a.Tick(ctx)
	}
	resA, _ := a.mod.ExportedFunction("ticks").Call(ctx)
	resB, _ := b.mod.ExportedFunction("ticks").Call(ctx)
	if resA[0] != 2 || resB[0] != 0 {
		t.Errorf("instances share state: a=%d b=%d", resA[0], resB[0])
	}
	if err := a.Unload(ctx); err != nil {
		t.Errorf("Unload failed: %v", err)
	}
}
