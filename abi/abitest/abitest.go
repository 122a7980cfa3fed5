// Package abitest provides an in-process fake of the host side of the
// boundary for tests that run the guest runtime natively.
package abitest

import (
	"fmt"

	"github.com/wippyai/tardis-games/abi"
)

// DefaultBase is the first address handed out by NewMemory.
const DefaultBase = 0x1000

// Memory is a fake linear memory. Every AddressOf call pins the buffer at a
// fresh address so host-side reads and writes reach the caller's slice.
type Memory struct {
	regions map[uintptr][]byte
	next    uintptr
}

// NewMemory creates a fake memory starting at DefaultBase.
func NewMemory() *Memory {
	return NewMemoryAt(DefaultBase)
}

// NewMemoryAt creates a fake memory whose first address is base. Bases above
// the i32 range exercise overflow handling.
func NewMemoryAt(base uintptr) *Memory {
	return &Memory{
		regions: make(map[uintptr][]byte),
		next:    base,
	}
}

func (m *Memory) AddressOf(b []byte) uintptr {
	addr := m.next
	m.regions[addr] = b
	m.next += uintptr(len(b)+7)&^7 + 8
	return addr
}

func (m *Memory) AddressOfString(s string) uintptr {
	return m.AddressOf([]byte(s))
}

// Read returns a copy of length bytes at addr.
func (m *Memory) Read(addr, length int32) ([]byte, bool) {
	region, off, ok := m.find(addr, length)
	if !ok {
		return nil, false
	}
	out := make([]byte, length)
	copy(out, region[off:off+int(length)])
	return out, true
}

// Write copies data into the pinned buffer containing addr.
func (m *Memory) Write(addr int32, data []byte) bool {
	region, off, ok := m.find(addr, int32(len(data)))
	if !ok {
		return false
	}
	copy(region[off:], data)
	return true
}

func (m *Memory) find(addr, length int32) ([]byte, int, bool) {
	if addr < 0 || length < 0 {
		return nil, 0, false
	}
	for base, region := range m.regions {
		if uintptr(addr) < base {
			continue
		}
		off := int(uintptr(addr) - base)
		if off+int(length) <= len(region) {
			return region, off, true
		}
	}
	return nil, 0, false
}

// LogEntry is one mtg_log call.
type LogEntry struct {
	Message string
	Level   abi.LogLevel
}

// Sound is one mtg_play_sound call.
type Sound struct {
	ID       string
	Category int32
	Volume   float32
	Pitch    float32
}

// Sprite is one mtg_draw_inbuilt_sprite call.
type Sprite struct {
	Name string
	X, Y int32
}

// Text is one mtg_draw_text call.
type Text struct {
	Text string
	X, Y int32
	Size int32
	ARGB int32
}

// Pixel is one set_raw, set_rgb or set_argb call.
type Pixel struct {
	Func  string
	X, Y  int32
	Color int32
}

// Host records every import call made against it. It implements abi.Imports.
type Host struct {
	Mem        *Memory
	Persistent []byte
	Logs       []LogEntry
	Sounds     []Sound
	Sprites    []Sprite
	Texts      []Text
	Pixels     []Pixel
	Random     []int32
	Raw        map[[2]int32]int32
	Now        int64
	Width      int32
	Height     int32
	Saves      int
	Fills      int
	LenQueries int
	Closes     int
}

var _ abi.Imports = (*Host)(nil)

// NewHost creates a fake host with a 128x96 canvas.
func NewHost() *Host {
	return &Host{
		Mem:    NewMemory(),
		Raw:    make(map[[2]int32]int32),
		Width:  128,
		Height: 96,
	}
}

func (h *Host) read(fn string, addr, length int32) string {
	if length == 0 {
		return ""
	}
	data, ok := h.Mem.Read(addr, length)
	if !ok {
		panic(fmt.Sprintf("%s: out of bounds read at %d (+%d)", fn, addr, length))
	}
	return string(data)
}

func (h *Host) Log(addr, length, level int32) {
	h.Logs = append(h.Logs, LogEntry{Message: h.read(abi.FuncLog, addr, length), Level: abi.LogLevel(level)})
}

func (h *Host) NanoTime() int64 {
	h.Now += 1_000_000
	return h.Now
}

func (h *Host) SavePersistentData(addr, length int32) {
	h.Saves++
	h.Persistent = []byte(h.read(abi.FuncSavePersistentData, addr, length))
}

func (h *Host) GetPersistentDataLen() int32 {
	h.LenQueries++
	return int32(len(h.Persistent))
}

func (h *Host) GetPersistentData(addr int32) {
	h.Fills++
	if !h.Mem.Write(addr, h.Persistent) {
		panic(fmt.Sprintf("%s: out of bounds write at %d", abi.FuncGetPersistentData, addr))
	}
}

func (h *Host) RandomI32() int32 {
	if len(h.Random) == 0 {
		return 4
	}
	v := h.Random[0]
	h.Random = h.Random[1:]
	return v
}

func (h *Host) PlaySound(addr, length, category int32, volume, pitch float32) {
	h.Sounds = append(h.Sounds, Sound{
		ID:       h.read(abi.FuncPlaySound, addr, length),
		Category: category,
		Volume:   volume,
		Pitch:    pitch,
	})
}

func (h *Host) CloseApp() {
	h.Closes++
}

func (h *Host) GetWidth() int32  { return h.Width }
func (h *Host) GetHeight() int32 { return h.Height }

func (h *Host) GetRaw(x, y int32) int32 {
	return h.Raw[[2]int32{x, y}]
}

func (h *Host) SetRaw(x, y, color int32) {
	h.Raw[[2]int32{x, y}] = color
	h.Pixels = append(h.Pixels, Pixel{Func: abi.FuncSetRaw, X: x, Y: y, Color: color})
}

func (h *Host) SetRGB(x, y, color int32) {
	h.Pixels = append(h.Pixels, Pixel{Func: abi.FuncSetRGB, X: x, Y: y, Color: color})
}

func (h *Host) SetARGB(x, y, color int32) {
	h.Pixels = append(h.Pixels, Pixel{Func: abi.FuncSetARGB, X: x, Y: y, Color: color})
}

func (h *Host) DrawInbuiltSprite(x, y, nameAddr, nameLen int32) {
	h.Sprites = append(h.Sprites, Sprite{Name: h.read(abi.FuncDrawInbuiltSprite, nameAddr, nameLen), X: x, Y: y})
}

func (h *Host) DrawText(x, y, textAddr, textLen, size, argb int32) {
	h.Texts = append(h.Texts, Text{Text: h.read(abi.FuncDrawText, textAddr, textLen), X: x, Y: y, Size: size, ARGB: argb})
}

// LastLog returns the most recent log entry, or a zero entry.
func (h *Host) LastLog() LogEntry {
	if len(h.Logs) == 0 {
		return LogEntry{}
	}
	return h.Logs[len(h.Logs)-1]
}
