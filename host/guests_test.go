package host

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/internal/wasmgen"
)

func i32s(n int) []api.ValueType {
	t := make([]api.ValueType, n)
	for i := range t {
		t[i] = api.ValueTypeI32
	}
	return t
}

var (
	handleParam = i32s(1)
	clickParams = i32s(4)
	i32Result   = i32s(1)
)

const (
	helloAddr = 16
	helloLen  = 5
	soundAddr = 32
	soundID   = "mini_tardis:click"
	blobAddr  = 64
)

// guestImports declares every host import and returns their indexes.
type guestImports struct {
	log, setRaw, drawText, save, getLen, getData, closeApp, playSound, random, getRaw uint32
}

func declareImports(m *wasmgen.Module) guestImports {
	return guestImports{
		log:       m.Import(abi.ImportModule, abi.FuncLog, i32s(3), nil),
		setRaw:    m.Import(abi.ImportModule, abi.FuncSetRaw, i32s(3), nil),
		drawText:  m.Import(abi.ImportModule, abi.FuncDrawText, i32s(6), nil),
		save:      m.Import(abi.ImportModule, abi.FuncSavePersistentData, i32s(2), nil),
		getLen:    m.Import(abi.ImportModule, abi.FuncGetPersistentDataLen, nil, i32Result),
		getData:   m.Import(abi.ImportModule, abi.FuncGetPersistentData, i32s(1), nil),
		closeApp:  m.Import(abi.ImportModule, abi.FuncCloseApp, nil, nil),
		playSound: m.Import(abi.ImportModule, abi.FuncPlaySound, wasmgen.Types(api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeF32, api.ValueTypeF32), nil),
		random:    m.Import(abi.ImportModule, abi.FuncRandomI32, nil, i32Result),
		getRaw:    m.Import(abi.ImportModule, abi.FuncGetRaw, i32s(2), i32Result),
	}
}

func newGuest() (*wasmgen.Module, guestImports) {
	m := wasmgen.New()
	imp := declareImports(m)
	m.Memory(1, "memory")
	m.Data(helloAddr, []byte("hello"))
	m.Data(soundAddr, []byte(soundID))
	return m, imp
}

func allocData(m *wasmgen.Module, handle int32) {
	m.Func(abi.ExportAllocData, nil, i32Result, wasmgen.I32Const(handle))
}

// fullGuest implements every export:
//
//	draw:         set_raw(100, 50, 33); draw_text(0, 0, "hello", 16, white)
//	on_click:     play_sound("mini_tardis:click", records, 1, 0.5); return type == 0
//	screen_open:  get_persistent_data(64); log("hello", info)
//	screen_close: save_persistent_data(64, len)
//	screen_tick:  ticks++
//	background:   set_raw(0, 0, 119)
func fullGuest() []byte {
	m, imp := newGuest()
	ticks := m.Global(0)

	allocData(m, 7)
	m.Func(abi.ExportDraw, handleParam, nil,
		wasmgen.I32Const(100), wasmgen.I32Const(50), wasmgen.I32Const(33), wasmgen.Call(imp.setRaw),
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(helloAddr), wasmgen.I32Const(helloLen), wasmgen.I32Const(16), wasmgen.I32Const(-1), wasmgen.Call(imp.drawText))
	m.Func(abi.ExportOnClick, clickParams, i32Result,
		wasmgen.I32Const(soundAddr), wasmgen.I32Const(int32(len(soundID))), wasmgen.I32Const(int32(abi.SoundRecords)), wasmgen.F32Const(1), wasmgen.F32Const(0.5), wasmgen.Call(imp.playSound),
		wasmgen.LocalGet(1), wasmgen.I32Eqz())
	m.Func(abi.ExportScreenOpen, handleParam, nil,
		wasmgen.I32Const(blobAddr), wasmgen.Call(imp.getData),
		wasmgen.I32Const(helloAddr), wasmgen.I32Const(helloLen), wasmgen.I32Const(int32(abi.LogInfo)), wasmgen.Call(imp.log))
	m.Func(abi.ExportScreenClose, handleParam, nil,
		wasmgen.I32Const(blobAddr), wasmgen.Call(imp.getLen), wasmgen.Call(imp.save))
	m.Func(abi.ExportScreenTick, handleParam, nil,
		wasmgen.GlobalGet(ticks), wasmgen.I32Const(1), wasmgen.I32Add(), wasmgen.GlobalSet(ticks))
	m.Func(abi.ExportDrawBackground, handleParam, nil,
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(119), wasmgen.Call(imp.setRaw))
	m.Func("ticks", nil, i32Result, wasmgen.GlobalGet(ticks))
	return m.Build()
}

// minimalGuest has only the required exports. on_click returns nothing.
func minimalGuest() []byte {
	m, imp := newGuest()
	allocData(m, 1)
	m.Func(abi.ExportDraw, handleParam, nil,
		wasmgen.I32Const(5), wasmgen.I32Const(5), wasmgen.I32Const(33), wasmgen.Call(imp.setRaw))
	m.Func(abi.ExportOnClick, clickParams, nil)
	return m.Build()
}

// closingGuest calls close_app from draw and traps afterwards, the way a
// guest treating close_app as noreturn does. screen_close logs "hello".
func closingGuest() []byte {
	m, imp := newGuest()
	allocData(m, 1)
	m.Func(abi.ExportDraw, handleParam, nil, wasmgen.Call(imp.closeApp), wasmgen.Unreachable())
	m.Func(abi.ExportOnClick, clickParams, i32Result, wasmgen.I32Const(0))
	m.Func(abi.ExportScreenClose, handleParam, nil,
		wasmgen.I32Const(helloAddr), wasmgen.I32Const(helloLen), wasmgen.I32Const(int32(abi.LogInfo)), wasmgen.Call(imp.log))
	return m.Build()
}

// trappingGuest traps in draw. screen_close saves "hello".
func trappingGuest() []byte {
	m, imp := newGuest()
	allocData(m, 1)
	m.Func(abi.ExportDraw, handleParam, nil, wasmgen.Unreachable())
	m.Func(abi.ExportOnClick, clickParams, i32Result, wasmgen.I32Const(1))
	m.Func(abi.ExportScreenClose, handleParam, nil,
		wasmgen.I32Const(helloAddr), wasmgen.I32Const(helloLen), wasmgen.Call(imp.save))
	return m.Build()
}

// tickDrawingGuest touches the canvas from screen_tick.
func tickDrawingGuest() []byte {
	m, imp := newGuest()
	allocData(m, 1)
	m.Func(abi.ExportDraw, handleParam, nil)
	m.Func(abi.ExportOnClick, clickParams, i32Result, wasmgen.I32Const(0))
	m.Func(abi.ExportScreenTick, handleParam, nil,
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(4), wasmgen.Call(imp.setRaw))
	return m.Build()
}

// badColorGuest passes a raw color that does not fit a byte.
func badColorGuest() []byte {
	m, imp := newGuest()
	allocData(m, 1)
	m.Func(abi.ExportDraw, handleParam, nil,
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(300), wasmgen.Call(imp.setRaw))
	m.Func(abi.ExportOnClick, clickParams, i32Result, wasmgen.I32Const(0))
	return m.Build()
}

// randomGuest draws a random value and the raw color it read back.
func randomGuest() []byte {
	m, imp := newGuest()
	allocData(m, 1)
	m.Func(abi.ExportDraw, handleParam, nil,
		wasmgen.Call(imp.random), wasmgen.Drop(),
		wasmgen.I32Const(3), wasmgen.I32Const(3), wasmgen.I32Const(3), wasmgen.I32Const(3), wasmgen.Call(imp.getRaw), wasmgen.Call(imp.setRaw))
	m.Func(abi.ExportOnClick, clickParams, i32Result, wasmgen.I32Const(0))
	return m.Build()
}

func nullHandleGuest() []byte {
	m, _ := newGuest()
	allocData(m, 0)
	m.Func(abi.ExportDraw, handleParam, nil)
	m.Func(abi.ExportOnClick, clickParams, i32Result, wasmgen.I32Const(0))
	return m.Build()
}

func drawOnlyGuest() []byte {
	m, _ := newGuest()
	m.Func(abi.ExportDraw, handleParam, nil)
	return m.Build()
}
