package guest

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/tardis-games/abi"
)

// BackgroundSprite is the built-in sprite drawn when a game does not draw its
// own background.
const BackgroundSprite = "app_background"

// Screen exposes the host services available from every callback. Methods
// that pass data across the boundary panic on marshalling failures; the
// trap reports them.
type Screen struct {
	rt     *Runtime
	logger *zap.Logger
}

// Log sends msg to the host log at level.
func (s *Screen) Log(level abi.LogLevel, msg string) {
	ref := s.rt.mustRef(s.rt.marshal.String(msg))
	s.rt.imports.Log(ref.Addr, ref.Len, int32(level))
	runtime.KeepAlive(msg)
}

// Logger returns a zap logger whose entries end up in the host log.
func (s *Screen) Logger() *zap.Logger {
	return s.logger
}

// NanoTime returns a monotonic nanosecond reading suitable for measuring
// elapsed time between two calls.
func (s *Screen) NanoTime() int64 {
	return s.rt.imports.NanoTime()
}

// RandomI32 returns a pseudorandom value from the host.
func (s *Screen) RandomI32() int32 {
	return s.rt.imports.RandomI32()
}

// PlaySound plays the sound event id (a namespaced identifier such as
// "mini_tardis:bad_apple") at the screen.
func (s *Screen) PlaySound(id string, category abi.SoundCategory, volume, pitch float32) {
	ref := s.rt.mustRef(s.rt.marshal.String(id))
	s.rt.imports.PlaySound(ref.Addr, ref.Len, int32(category), volume, pitch)
	runtime.KeepAlive(id)
}

// Close asks for the app to be closed once the current callback returns.
// Until the next screen open the game receives no draw, tick or click
// callbacks.
func (s *Screen) Close() {
	s.rt.closeRequested = true
}

// PersistentData returns a copy of the blob the host stored for this game.
// It is empty when nothing has been saved.
func (s *Screen) PersistentData() []byte {
	n := s.rt.imports.GetPersistentDataLen()
	data, err := s.rt.marshal.Decode(n, func(addr int32) {
		s.rt.imports.GetPersistentData(addr)
	})
	if err != nil {
		panic(err)
	}
	return data
}

// SavePersistentData replaces the stored blob with data.
func (s *Screen) SavePersistentData(data []byte) {
	ref := s.rt.mustRef(s.rt.marshal.Bytes(data))
	s.rt.imports.SavePersistentData(ref.Addr, ref.Len)
	runtime.KeepAlive(data)
}

// Canvas is the drawing surface passed to draw callbacks. Colors passed to
// SetRaw are raw map palette entries; SetRGB and SetARGB are matched to the
// closest palette entry by the host.
type Canvas struct {
	rt *Runtime
}

// Width returns the canvas width, usually 128.
func (c *Canvas) Width() int32 {
	return c.rt.imports.GetWidth()
}

// Height returns the canvas height, usually 96.
func (c *Canvas) Height() int32 {
	return c.rt.imports.GetHeight()
}

func (c *Canvas) GetRaw(x, y int32) int32 {
	return c.rt.imports.GetRaw(x, y)
}

func (c *Canvas) SetRaw(x, y, color int32) {
	c.rt.imports.SetRaw(x, y, color)
}

func (c *Canvas) SetRGB(x, y, rgb int32) {
	c.rt.imports.SetRGB(x, y, rgb)
}

func (c *Canvas) SetARGB(x, y, argb int32) {
	c.rt.imports.SetARGB(x, y, argb)
}

// DrawSprite draws the built-in sprite name with its top left corner at
// (x, y).
func (c *Canvas) DrawSprite(x, y int32, name string) {
	ref := c.rt.mustRef(c.rt.marshal.String(name))
	c.rt.imports.DrawInbuiltSprite(x, y, ref.Addr, ref.Len)
	runtime.KeepAlive(name)
}

// DrawText draws text in the default font at (x, y) with the given pixel
// size and ARGB color.
func (c *Canvas) DrawText(x, y int32, text string, size, argb int32) {
	ref := c.rt.mustRef(c.rt.marshal.String(text))
	c.rt.imports.DrawText(x, y, ref.Addr, ref.Len, size, argb)
	runtime.KeepAlive(text)
}
