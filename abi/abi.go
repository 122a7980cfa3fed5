package abi

// ImportModule is the wasm import module every host function lives in.
const ImportModule = "mini_tardis_games"

// Imported host function names.
const (
	FuncLog                  = "mtg_log"
	FuncNanoTime             = "mtg_nano_time"
	FuncSavePersistentData   = "mtg_save_persistent_data"
	FuncGetPersistentDataLen = "mtg_get_persistent_data_len"
	FuncGetPersistentData    = "mtg_get_persistent_data"
	FuncRandomI32            = "mtg_random_i32"
	FuncPlaySound            = "mtg_play_sound"
	FuncCloseApp             = "mtg_close_app"
	FuncGetWidth             = "mtg_get_width"
	FuncGetHeight            = "mtg_get_height"
	FuncGetRaw               = "mtg_get_raw"
	FuncSetRaw               = "mtg_set_raw"
	FuncSetRGB               = "mtg_set_rgb"
	FuncSetARGB              = "mtg_set_argb"
	FuncDrawInbuiltSprite    = "mtg_draw_inbuilt_sprite"
	FuncDrawText             = "mtg_draw_text"
)

// Exported guest entry point names.
const (
	ExportAllocData      = "mtg_alloc_data"
	ExportDraw           = "mtg_draw"
	ExportOnClick        = "mtg_on_click"
	ExportDrawBackground = "mtg_draw_background"
	ExportScreenTick     = "mtg_screen_tick"
	ExportScreenOpen     = "mtg_screen_open"
	ExportScreenClose    = "mtg_screen_close"
)

// RequiredExports lists the entry points every guest must provide.
var RequiredExports = []string{ExportAllocData, ExportDraw, ExportOnClick}

// OptionalExports lists entry points a host falls back to defaults for.
var OptionalExports = []string{ExportDrawBackground, ExportScreenTick, ExportScreenOpen, ExportScreenClose}

// Imports is the raw host function surface as seen from inside the guest.
// Addresses and lengths refer to the guest's linear memory.
type Imports interface {
	Log(addr, length, level int32)
	NanoTime() int64
	SavePersistentData(addr, length int32)
	GetPersistentDataLen() int32
	// GetPersistentData copies the stored blob to addr. The caller sizes the
	// destination with GetPersistentDataLen first.
	GetPersistentData(addr int32)
	RandomI32() int32
	PlaySound(addr, length, category int32, volume, pitch float32)
	// CloseApp asks the host to terminate the session. Hosts may never return
	// from it; callers must treat it as the last thing they do in a callback.
	CloseApp()
	GetWidth() int32
	GetHeight() int32
	GetRaw(x, y int32) int32
	SetRaw(x, y, color int32)
	SetRGB(x, y, color int32)
	SetARGB(x, y, color int32)
	DrawInbuiltSprite(x, y, nameAddr, nameLen int32)
	// DrawText takes the coordinates before the text reference.
	DrawText(x, y, textAddr, textLen, size, argb int32)
}

// Memory resolves guest-owned buffers to linear-memory addresses.
type Memory interface {
	AddressOf(b []byte) uintptr
	AddressOfString(s string) uintptr
}
