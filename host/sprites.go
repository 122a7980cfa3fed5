package host

import "sync"

// Built-in sprite names.
const (
	SpriteBackground       = "app_background"
	SpriteCriticalFailure0 = "critical_failure_0"
	SpriteCriticalFailure1 = "critical_failure_1"
)

// Sprite is an image of raw colors; Clear pixels are transparent.
type Sprite struct {
	Pix    []uint8
	Width  int
	Height int
}

func newSprite(w, h int) *Sprite {
	return &Sprite{Pix: make([]uint8, w*h), Width: w, Height: h}
}

func (s *Sprite) set(x, y int, raw uint8) {
	if x >= 0 && y >= 0 && x < s.Width && y < s.Height {
		s.Pix[y*s.Width+x] = raw
	}
}

var (
	sprites     map[string]*Sprite
	spritesOnce sync.Once
)

// LookupSprite returns the built-in sprite name.
func LookupSprite(name string) (*Sprite, bool) {
	spritesOnce.Do(func() {
		sprites = map[string]*Sprite{
			SpriteBackground:       backgroundSprite(),
			SpriteCriticalFailure0: failureSprite(0),
			SpriteCriticalFailure1: failureSprite(1),
		}
	})
	s, ok := sprites[name]
	return s, ok
}

// MissingSprite is drawn in place of an unknown sprite name.
func MissingSprite() *Sprite {
	s := newSprite(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x/4+y/4)%2 == 0 {
				s.set(x, y, Raw(16, ShadeHigh))
			} else {
				s.set(x, y, Raw(BaseBlack, ShadeLowest))
			}
		}
	}
	return s
}

// backgroundSprite is a dark screen with a light frame and scanlines.
func backgroundSprite() *Sprite {
	s := newSprite(DefaultWidth, DefaultHeight)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			raw := Raw(BaseBlack, ShadeLow)
			switch {
			case x == 0 || y == 0 || x == s.Width-1 || y == s.Height-1:
				raw = Raw(BaseLightGray, ShadeNormal)
			case y%4 == 0:
				raw = Raw(BaseBlack, ShadeNormal)
			}
			s.set(x, y, raw)
		}
	}
	return s
}

// failureSprite is one frame of the blinking error screen.
func failureSprite(frame int) *Sprite {
	s := newSprite(DefaultWidth, DefaultHeight)
	bg, stripe := Raw(BaseRed, ShadeLowest), Raw(BaseBlack, ShadeLow)
	if frame%2 == 1 {
		bg, stripe = stripe, bg
	}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			raw := bg
			if y < 8 || y >= s.Height-8 {
				if (x+y+frame*4)/4%2 == 0 {
					raw = stripe
				}
			}
			s.set(x, y, raw)
		}
	}
	return s
}
