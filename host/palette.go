package host

// Raw canvas colors index the map palette: the base color times four plus a
// shade. Base 0 is transparent.

// Shade is the brightness variant of a base color.
type Shade uint8

const (
	ShadeLow    Shade = 0
	ShadeNormal Shade = 1
	ShadeHigh   Shade = 2
	ShadeLowest Shade = 3
)

var shadeMultiplier = [4]uint32{180, 220, 255, 135}

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// baseColors holds the map palette base colors, indexed by base id.
var baseColors = [...]RGB{
	{0, 0, 0},       // none
	{127, 178, 56},  // grass
	{247, 233, 163}, // sand
	{199, 199, 199}, // wool
	{255, 0, 0},     // fire
	{160, 160, 255}, // ice
	{167, 167, 167}, // metal
	{0, 124, 0},     // plant
	{255, 255, 255}, // snow
	{164, 168, 184}, // clay
	{151, 109, 77},  // dirt
	{112, 112, 112}, // stone
	{64, 64, 255},   // water
	{143, 119, 72},  // wood
	{255, 252, 245}, // quartz
	{216, 127, 51},  // orange
	{178, 76, 216},  // magenta
	{102, 153, 216}, // light blue
	{229, 229, 51},  // yellow
	{127, 204, 25},  // lime
	{242, 127, 165}, // pink
	{76, 76, 76},    // gray
	{153, 153, 153}, // light gray
	{76, 127, 153},  // cyan
	{127, 63, 178},  // purple
	{51, 76, 178},   // blue
	{102, 76, 51},   // brown
	{102, 127, 51},  // green
	{153, 51, 51},   // red
	{25, 25, 25},    // black
	{250, 238, 77},  // gold
	{92, 219, 213},  // diamond
	{74, 128, 255},  // lapis
	{0, 217, 58},    // emerald
	{129, 86, 49},   // podzol
	{112, 2, 0},     // nether
	{209, 177, 161}, // terracotta white
	{159, 82, 36},   // terracotta orange
	{149, 87, 108},  // terracotta magenta
	{112, 108, 138}, // terracotta light blue
	{186, 133, 36},  // terracotta yellow
	{103, 117, 53},  // terracotta light green
	{160, 77, 78},   // terracotta pink
	{57, 41, 35},    // terracotta gray
	{135, 107, 98},  // terracotta light gray
	{87, 92, 92},    // terracotta cyan
	{122, 73, 88},   // terracotta purple
	{76, 62, 92},    // terracotta blue
	{76, 50, 35},    // terracotta brown
	{76, 82, 42},    // terracotta green
	{142, 60, 46},   // terracotta red
	{37, 22, 16},    // terracotta black
	{189, 48, 49},   // crimson nylium
	{148, 63, 97},   // crimson stem
	{92, 25, 29},    // crimson hyphae
	{22, 126, 134},  // warped nylium
	{58, 142, 140},  // warped stem
	{86, 44, 62},    // warped hyphae
	{20, 180, 133},  // warped wart block
	{100, 100, 100}, // deepslate
	{216, 175, 147}, // raw iron
	{127, 167, 150}, // glow lichen
}

// Base color ids used by the built-in views.
const (
	BaseFire      = 4
	BaseSnow      = 8
	BaseGray      = 21
	BaseLightGray = 22
	BaseCyan      = 23
	BaseRed       = 28
	BaseBlack     = 29
)

// Clear is the transparent raw color.
const Clear uint8 = 0

// Raw returns the raw color for base in the given shade.
func Raw(base int, shade Shade) uint8 {
	return uint8(base*4) | uint8(shade&3)
}

// Color converts a raw color to RGB. The second result is false for
// transparent and unknown colors.
func Color(raw uint8) (RGB, bool) {
	base := int(raw >> 2)
	if base == 0 || base >= len(baseColors) {
		return RGB{}, false
	}
	c := baseColors[base]
	m := shadeMultiplier[raw&3]
	return RGB{
		R: uint8(uint32(c.R) * m / 255),
		G: uint8(uint32(c.G) * m / 255),
		B: uint8(uint32(c.B) * m / 255),
	}, true
}

// ClosestRGB returns the opaque raw color nearest to the 0xRRGGBB value.
func ClosestRGB(rgb int32) uint8 {
	want := RGB{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb)}

	best, bestDist := uint8(4), -1
	for raw := 4; raw < len(baseColors)*4; raw++ {
		c, _ := Color(uint8(raw))
		dr := int(c.R) - int(want.R)
		dg := int(c.G) - int(want.G)
		db := int(c.B) - int(want.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = uint8(raw), d
		}
	}
	return best
}

// ClosestARGB is ClosestRGB for 0xAARRGGBB values. Colors less than half
// opaque are transparent.
func ClosestARGB(argb int32) uint8 {
	if uint32(argb)>>24 < 128 {
		return Clear
	}
	return ClosestRGB(argb & 0xffffff)
}
