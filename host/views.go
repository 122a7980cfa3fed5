package host

// DrawMissingGame paints the screen shown for an app id with no game. The
// background blinks once per second at 20 ticks per second.
func DrawMissingGame(c *Canvas, tick int) {
	name := SpriteCriticalFailure0
	if tick/20%2 == 1 {
		name = SpriteCriticalFailure1
	}
	bg, _ := LookupSprite(name)
	c.DrawSprite(0, 0, bg)

	cx := c.Width() / 2
	c.DrawCenteredText(cx, 36, "UNKNOWN GAME", 8, Raw(BaseFire, ShadeHigh))
	c.DrawCenteredText(cx, 46, "Insert valid floppy", 8, Raw(BaseRed, ShadeHigh))
	c.DrawCenteredText(cx, 54, "to start gaming", 8, Raw(BaseRed, ShadeHigh))
}
