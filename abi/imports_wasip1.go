//go:build wasip1

package abi

//go:wasmimport mini_tardis_games mtg_log
func mtgLog(addr, length, level int32)

//go:wasmimport mini_tardis_games mtg_nano_time
func mtgNanoTime() int64

//go:wasmimport mini_tardis_games mtg_save_persistent_data
func mtgSavePersistentData(addr, length int32)

//go:wasmimport mini_tardis_games mtg_get_persistent_data_len
func mtgGetPersistentDataLen() int32

//go:wasmimport mini_tardis_games mtg_get_persistent_data
func mtgGetPersistentData(addr int32)

//go:wasmimport mini_tardis_games mtg_random_i32
func mtgRandomI32() int32

//go:wasmimport mini_tardis_games mtg_play_sound
func mtgPlaySound(addr, length, category int32, volume, pitch float32)

//go:wasmimport mini_tardis_games mtg_close_app
func mtgCloseApp()

//go:wasmimport mini_tardis_games mtg_get_width
func mtgGetWidth() int32

//go:wasmimport mini_tardis_games mtg_get_height
func mtgGetHeight() int32

//go:wasmimport mini_tardis_games mtg_get_raw
func mtgGetRaw(x, y int32) int32

//go:wasmimport mini_tardis_games mtg_set_raw
func mtgSetRaw(x, y, color int32)

//go:wasmimport mini_tardis_games mtg_set_rgb
func mtgSetRGB(x, y, color int32)

//go:wasmimport mini_tardis_games mtg_set_argb
func mtgSetARGB(x, y, color int32)

//go:wasmimport mini_tardis_games mtg_draw_inbuilt_sprite
func mtgDrawInbuiltSprite(x, y, nameAddr, nameLen int32)

//go:wasmimport mini_tardis_games mtg_draw_text
func mtgDrawText(x, y, textAddr, textLen, size, argb int32)

type wasmImports struct{}

// WasmImports returns the Imports backed by the module's real host.
func WasmImports() Imports {
	return wasmImports{}
}

func (wasmImports) Log(addr, length, level int32) { mtgLog(addr, length, level) }
func (wasmImports) NanoTime() int64               { return mtgNanoTime() }
func (wasmImports) SavePersistentData(addr, length int32) {
	mtgSavePersistentData(addr, length)
}
func (wasmImports) GetPersistentDataLen() int32  { return mtgGetPersistentDataLen() }
func (wasmImports) GetPersistentData(addr int32) { mtgGetPersistentData(addr) }
func (wasmImports) RandomI32() int32             { return mtgRandomI32() }
func (wasmImports) PlaySound(addr, length, category int32, volume, pitch float32) {
	mtgPlaySound(addr, length, category, volume, pitch)
}
func (wasmImports) CloseApp()                { mtgCloseApp() }
func (wasmImports) GetWidth() int32          { return mtgGetWidth() }
func (wasmImports) GetHeight() int32         { return mtgGetHeight() }
func (wasmImports) GetRaw(x, y int32) int32  { return mtgGetRaw(x, y) }
func (wasmImports) SetRaw(x, y, color int32) { mtgSetRaw(x, y, color) }
func (wasmImports) SetRGB(x, y, color int32) { mtgSetRGB(x, y, color) }
func (wasmImports) SetARGB(x, y, color int32) {
	mtgSetARGB(x, y, color)
}
func (wasmImports) DrawInbuiltSprite(x, y, nameAddr, nameLen int32) {
	mtgDrawInbuiltSprite(x, y, nameAddr, nameLen)
}
func (wasmImports) DrawText(x, y, textAddr, textLen, size, argb int32) {
	mtgDrawText(x, y, textAddr, textLen, size, argb)
}
