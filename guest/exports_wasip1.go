//go:build wasip1

package guest

import (
	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/errors"
)

var active *Runtime

// Bind installs factory as the module's game. Call it from an init function
// of the main package; the host calls mtg_alloc_data after initialization.
func Bind(factory Factory) {
	active = NewRuntime(abi.WasmImports(), abi.LinearMemory(), factory)
}

func bound() *Runtime {
	if active == nil {
		panic(errors.NotInitialized(errors.PhaseDispatch, "guest runtime"))
	}
	return active
}

//go:wasmexport mtg_alloc_data
func mtgAllocData() int32 {
	return int32(bound().Register())
}

//go:wasmexport mtg_draw
func mtgDraw(handle int32) {
	bound().Draw(Handle(handle))
}

//go:wasmexport mtg_on_click
func mtgOnClick(handle, clickType, x, y int32) int32 {
	return bound().OnClick(Handle(handle), clickType, x, y)
}

//go:wasmexport mtg_draw_background
func mtgDrawBackground(handle int32) {
	bound().DrawBackground(Handle(handle))
}

//go:wasmexport mtg_screen_tick
func mtgScreenTick(handle int32) {
	bound().ScreenTick(Handle(handle))
}

//go:wasmexport mtg_screen_open
func mtgScreenOpen(handle int32) {
	bound().ScreenOpen(Handle(handle))
}

//go:wasmexport mtg_screen_close
func mtgScreenClose(handle int32) {
	bound().ScreenClose(Handle(handle))
}
