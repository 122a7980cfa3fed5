// Package badapple plays a short monochrome clip stretched over the canvas
// and closes itself when the clip ends.
package badapple

import (
	_ "embed"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/frames"
	"github.com/wippyai/tardis-games/guest"
)

//go:embed bad_apple.bin
var clip []byte

// SoundID is the sound event played alongside the clip.
const SoundID = "mini_tardis:bad_apple"

// StartFrame is the frame counter after the screen opens. The first frames
// are held on frame 0 while the sound starts.
const StartFrame = -5

// Raw map colors for the eight shades of the clip, darkest first.
const (
	BlackLowest int32 = 119
	BlackLow    int32 = 116
	BlackNormal int32 = 117
	BlackHigh   int32 = 118
	WhiteLowest int32 = 35
	WhiteLow    int32 = 32
	WhiteNormal int32 = 33
	WhiteHigh   int32 = 34
)

var shades = [...]int32{
	BlackLowest, BlackLow, BlackNormal, BlackHigh,
	WhiteLowest, WhiteLow, WhiteNormal,
}

// Color maps a clip sample to a raw map color. Samples above 6 are all the
// brightest white.
func Color(sample uint8) int32 {
	if int(sample) < len(shades) {
		return shades[sample]
	}
	return WhiteHigh
}

// Clip returns the embedded clip.
func Clip() *frames.Asset {
	return frames.MustParse(clip)
}

// Player draws one clip frame per draw call.
type Player struct {
	video *frames.Asset
	frame int
}

var (
	_ guest.Game   = (*Player)(nil)
	_ guest.Opener = (*Player)(nil)
	_ guest.Closer = (*Player)(nil)
)

// New is the module's guest.Factory.
func New(*guest.Screen) guest.Game {
	return NewPlayer(Clip())
}

// NewPlayer creates a player for video.
func NewPlayer(video *frames.Asset) *Player {
	return &Player{video: video}
}

// Frame returns the frame counter.
func (p *Player) Frame() int {
	return p.frame
}

func (p *Player) Draw(s *guest.Screen, c *guest.Canvas) {
	frame := min(max(p.frame, 0), p.video.FrameCount()-1)
	w, h := int32(p.video.Width()), int32(p.video.Height())
	cw, ch := c.Width(), c.Height()

	for cx := int32(0); cx < cw; cx++ {
		x := int(cx * w / cw)
		for cy := int32(0); cy < ch; cy++ {
			c.SetRaw(cx, cy, Color(p.video.Pixel(frame, x, int(cy*h/ch))))
		}
	}

	p.frame++
	if p.frame >= p.video.FrameCount() {
		s.Close()
	}
}

func (p *Player) OnClick(*guest.Screen, abi.ClickType, int32, int32) bool {
	return false
}

func (p *Player) ScreenOpen(s *guest.Screen) {
	p.frame = StartFrame
	s.PlaySound(SoundID, abi.SoundRecords, 1, 1)
}

// ScreenClose rewinds the clip. The host stops the sound with the screen.
func (p *Player) ScreenClose(*guest.Screen) {
	p.frame = 0
}
