package host

// Default canvas size of a console screen.
const (
	DefaultWidth  = 128
	DefaultHeight = 96
)

// Canvas is a grid of raw map colors. Writes outside the grid are dropped
// and reads outside it return Clear.
type Canvas struct {
	pix    []uint8
	width  int
	height int
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		pix:    make([]uint8, width*height),
		width:  width,
		height: height,
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// Raw returns the raw color at (x, y).
func (c *Canvas) Raw(x, y int) uint8 {
	if !c.in(x, y) {
		return Clear
	}
	return c.pix[y*c.width+x]
}

// SetRaw stores a raw color at (x, y).
func (c *Canvas) SetRaw(x, y int, raw uint8) {
	if c.in(x, y) {
		c.pix[y*c.width+x] = raw
	}
}

// Fill paints the whole canvas with raw.
func (c *Canvas) Fill(raw uint8) {
	for i := range c.pix {
		c.pix[i] = raw
	}
}

// Clone returns an independent copy.
func (c *Canvas) Clone() *Canvas {
	return &Canvas{
		pix:    append([]uint8(nil), c.pix...),
		width:  c.width,
		height: c.height,
	}
}

// DrawSprite copies the opaque pixels of s with its top left corner at
// (x, y).
func (c *Canvas) DrawSprite(x, y int, s *Sprite) {
	for sy := 0; sy < s.Height; sy++ {
		for sx := 0; sx < s.Width; sx++ {
			if raw := s.Pix[sy*s.Width+sx]; raw != Clear {
				c.SetRaw(x+sx, y+sy, raw)
			}
		}
	}
}

// DrawText renders text in the built-in font. size is the line height in
// pixels; glyphs scale in whole steps of the font's 8 pixel line.
func (c *Canvas) DrawText(x, y int, text string, size int, raw uint8) {
	if raw == Clear {
		return
	}
	scale := fontScale(size)
	for _, r := range text {
		g := glyph(r)
		for gy, row := range g {
			for gx := 0; gx < glyphWidth; gx++ {
				if row&(1<<(glyphWidth-1-gx)) == 0 {
					continue
				}
				c.fillRect(x+gx*scale, y+(gy+glyphTop)*scale, scale, scale, raw)
			}
		}
		x += glyphAdvance * scale
	}
}

// DrawCenteredText draws text centered horizontally on cx.
func (c *Canvas) DrawCenteredText(cx, y int, text string, size int, raw uint8) {
	c.DrawText(cx-TextWidth(text, size)/2, y, text, size, raw)
}

func (c *Canvas) fillRect(x, y, w, h int, raw uint8) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.SetRaw(x+dx, y+dy, raw)
		}
	}
}
